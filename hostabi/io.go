package hostabi

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// IO backs the `print_string` and related Log-effect imports. Output is
// written through an io.Writer rather than directly to stdout so the
// test harness and interactive TUI mode can each redirect it
// independently (spec.md §5 "Log effect writes are host-visible side
// effects, not pure values").
type IO struct {
	out    io.Writer
	logger *zap.Logger
}

func NewIO(out io.Writer, logger *zap.Logger) *IO {
	return &IO{out: out, logger: logger}
}

// PrintString implements env.print_string(ptr, len).
func (h *IO) PrintString(s string) {
	fmt.Fprintln(h.out, s)
	h.logger.Debug("print_string", zap.String("value", s))
}

// PrintInt implements env.print_int.
func (h *IO) PrintInt(v int64) {
	fmt.Fprintln(h.out, v)
	h.logger.Debug("print_int", zap.Int64("value", v))
}

// PrintFloat implements env.print_float.
func (h *IO) PrintFloat(v float64) {
	fmt.Fprintln(h.out, v)
	h.logger.Debug("print_float", zap.Float64("value", v))
}

// LogInfo implements env.log_info, the Log effect's info-level channel.
func (h *IO) LogInfo(s string) {
	h.logger.Info(s)
}

// LogWarn implements env.log_warn.
func (h *IO) LogWarn(s string) {
	h.logger.Warn(s)
}
