package relocate

import "errors"

var (
	// ErrAssetNotFound indicates a declared texture is missing at its
	// resolved source path.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrCopyFailed indicates the destination directory or file could not
	// be written.
	ErrCopyFailed = errors.New("failed to copy asset")

	// ErrUnknownMode indicates an unrecognized texture handling mode.
	ErrUnknownMode = errors.New("unknown texture mode")
)
