package pipeline

import "errors"

var (
	// ErrConvert indicates the external parser or converter failed. The
	// underlying cause is surfaced verbatim, not interpreted.
	ErrConvert = errors.New("conversion failed")

	// ErrSerialize indicates an output artifact could not be written.
	ErrSerialize = errors.New("failed to write artifact")

	// ErrUnknownAnimMode indicates an unrecognized animation handling mode.
	ErrUnknownAnimMode = errors.New("unknown animation mode")

	// ErrBadTransition indicates a pipeline stage ran out of order.
	ErrBadTransition = errors.New("invalid pipeline state transition")
)
