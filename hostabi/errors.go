package hostabi

import "errors"

var errOutOfBounds = errors.New("hostabi: linear memory access out of bounds")
