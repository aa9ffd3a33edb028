package assets

import "errors"

var (
	// ErrAlreadyRegistered is returned when registering an asset type or a
	// default loader binding that the registry already has. The existing
	// registration is left untouched.
	ErrAlreadyRegistered = errors.New("asset type already registered")

	// ErrUnregisteredAsset is returned when an operation names an asset type
	// that was never registered.
	ErrUnregisteredAsset = errors.New("asset type not registered")

	// ErrUnregisteredLoader is returned by Load when no default loader is
	// bound for the requested asset and source type combination, and by
	// LoadWith when the named loader was never registered.
	ErrUnregisteredLoader = errors.New("no loader registered")

	// ErrInvalidHandle is returned by Get when the handle does not refer to a
	// stored asset, either because it is the zero handle or because it was
	// minted by a different registry.
	ErrInvalidHandle = errors.New("handle does not refer to a stored asset")

	// ErrLoading wraps loader failures so callers can distinguish a decode or
	// I/O problem from a registry configuration problem.
	ErrLoading = errors.New("asset load failed")
)
