package assessment

import "errors"

// ErrInvalidInstrument indicates an instrument tag outside the known set.
var ErrInvalidInstrument = errors.New("unknown instrument type")
