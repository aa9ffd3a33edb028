// Package assets provides a type-safe asset registry. Assets of any Go type
// are held in per-type storages and referenced through small copyable Handle
// values instead of pointers, so game code can pass references around, use
// them as map keys, and compare them cheaply while the registry owns the
// actual data.
//
// Because Go methods cannot introduce type parameters, the typed operations
// (Register, Store, Get, Load, ...) are package-level generic functions that
// take the Registry as their first argument.
package assets

import (
	"fmt"
	"reflect"
	"sync"
)

// assetStorage holds every stored asset of a single type, keyed by the
// numeric id carried in handles. Ids start at 1 so the zero Handle never
// resolves.
type assetStorage[T any] struct {
	nextID uint32
	items  map[uint32]*T
}

func newAssetStorage[T any]() *assetStorage[T] {
	return &assetStorage[T]{
		nextID: 1,
		items:  make(map[uint32]*T),
	}
}

func (s *assetStorage[T]) store(asset T) Handle[T] {
	id := s.nextID
	s.nextID++
	s.items[id] = &asset
	return Handle[T]{id: id}
}

func (s *assetStorage[T]) get(h Handle[T]) (*T, bool) {
	asset, ok := s.items[h.id]
	return asset, ok
}

// loaderKey identifies a loader registration by the loader's own concrete
// type and the source type it accepts.
type loaderKey struct {
	loader reflect.Type
	source reflect.Type
}

// defaultKey identifies which registered loader handles Load for a given
// asset type and source type pair.
type defaultKey struct {
	asset  reflect.Type
	source reflect.Type
}

// Registry owns asset storages and loader registrations. A single RWMutex
// guards all of it: mutating operations take the write lock, Get takes the
// read lock so handle resolution can proceed concurrently from the render
// path. The zero value is not usable; construct with NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	storages map[reflect.Type]any
	loaders  map[loaderKey]any
	defaults map[defaultKey]any
}

// NewRegistry creates an empty Registry with no storages or loaders.
//
// Returns:
//   - *Registry: the new registry
func NewRegistry() *Registry {
	return &Registry{
		storages: make(map[reflect.Type]any),
		loaders:  make(map[loaderKey]any),
		defaults: make(map[defaultKey]any),
	}
}

// Register creates the storage for asset type T. It must be called before any
// Store or Load targeting T.
//
// Parameters:
//   - r: the registry to register the type with
//
// Returns:
//   - error: ErrAlreadyRegistered if T already has a storage; the existing
//     storage and its contents are left untouched
func Register[T any](r *Registry) error {
	key := reflect.TypeFor[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.storages[key]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, key)
	}
	r.storages[key] = newAssetStorage[T]()
	return nil
}

// Store places an already-constructed asset into T's storage and mints a
// handle for it.
//
// Parameters:
//   - r: the registry holding T's storage
//   - asset: the asset value to store
//
// Returns:
//   - Handle[T]: a fresh handle referring to the stored asset
//   - error: ErrUnregisteredAsset if Register[T] was never called
func Store[T any](r *Registry, asset T) (Handle[T], error) {
	key := reflect.TypeFor[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.storages[key]
	if !ok {
		return Handle[T]{}, fmt.Errorf("%w: %s", ErrUnregisteredAsset, key)
	}
	return entry.(*assetStorage[T]).store(asset), nil
}

// Get resolves a handle to a pointer at the stored asset. The pointer remains
// valid for the life of the registry; treat the pointee as shared.
//
// Parameters:
//   - r: the registry holding T's storage
//   - h: the handle to resolve
//
// Returns:
//   - *T: the stored asset
//   - error: ErrUnregisteredAsset if T has no storage, ErrInvalidHandle if
//     the handle does not refer to a stored asset
func Get[T any](r *Registry, h Handle[T]) (*T, error) {
	key := reflect.TypeFor[T]()

	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.storages[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredAsset, key)
	}
	asset, ok := entry.(*assetStorage[T]).get(h)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandle, h)
	}
	return asset, nil
}

// MustGet resolves a handle or panics. For hot paths where the handle is
// known-valid because the caller minted it, such as the renderer resolving
// its own white texture every frame.
//
// Parameters:
//   - r: the registry holding T's storage
//   - h: the handle to resolve
//
// Returns:
//   - *T: the stored asset
func MustGet[T any](r *Registry, h Handle[T]) *T {
	asset, err := Get(r, h)
	if err != nil {
		panic(err)
	}
	return asset
}
