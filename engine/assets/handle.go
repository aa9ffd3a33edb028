package assets

import (
	"fmt"
	"reflect"
)

// Handle is a small, copyable reference to an asset of type T stored in a
// Registry. Handles are comparable and usable as map keys; two handles are
// equal exactly when they refer to the same stored asset. The zero Handle
// refers to nothing and fails Get with ErrInvalidHandle.
//
// The type parameter exists purely for compile-time safety: a
// Handle[Texture2D] cannot be passed where a handle to another asset type is
// expected, even though both carry only a numeric id.
type Handle[T any] struct {
	id uint32
}

// ID returns the numeric identity of the handle. Zero means the handle is
// unset.
//
// Returns:
//   - uint32: the registry-assigned id, or 0 for the zero handle
func (h Handle[T]) ID() uint32 {
	return h.id
}

// Valid reports whether the handle was minted by a registry, i.e. is not the
// zero Handle. A valid handle can still dangle if minted by another registry.
//
// Returns:
//   - bool: true if the handle carries a non-zero id
func (h Handle[T]) Valid() bool {
	return h.id != 0
}

func (h Handle[T]) String() string {
	return fmt.Sprintf("Handle[%s](%d)", reflect.TypeFor[T]().Name(), h.id)
}
