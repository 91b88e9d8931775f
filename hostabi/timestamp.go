package hostabi

import "time"

// Clock backs the Time effect's `now()` import. Clarity's Timestamp type
// is an i64 count of milliseconds since the Unix epoch; wrapping the
// single call behind an interface lets the test harness substitute a
// fixed clock so Time-effect tests are deterministic (spec.md §5:
// "Time, Random ... must be substitutable in tests").
type Clock interface {
	NowMillis() int64
}

type systemClock struct{}

// SystemClock returns the host's wall-clock time.
func SystemClock() Clock { return systemClock{} }

func (systemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// FixedClock always reports the same instant, for reproducible tests.
type FixedClock int64

func (f FixedClock) NowMillis() int64 { return int64(f) }
