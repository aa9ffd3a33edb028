package assets

import (
	"fmt"
	"reflect"

	"github.com/embergfx/ember/engine/logger"
	"go.uber.org/zap"
)

// Loader constructs an asset of type T from a source description of type S.
// Implementations typically hold whatever external resources construction
// needs, such as the GPU backend for texture uploads.
type Loader[T, S any] interface {
	// Load builds the asset from the source.
	//
	// Parameters:
	//   - source: the source description (a file path, a raw pixel buffer, ...)
	//
	// Returns:
	//   - T: the constructed asset
	//   - error: an error if construction fails
	Load(source S) (T, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc[T, S any] func(source S) (T, error)

func (f LoaderFunc[T, S]) Load(source S) (T, error) {
	return f(source)
}

// RegisterLoader registers l under its own concrete type and source type S,
// making it selectable with LoadWith. Registering a second loader with the
// same concrete type and source type silently replaces the first.
//
// Parameters:
//   - r: the registry to register the loader with
//   - l: the loader instance
func RegisterLoader[T, S any](r *Registry, l Loader[T, S]) {
	key := loaderKey{
		loader: reflect.TypeOf(l),
		source: reflect.TypeFor[S](),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.loaders[key] = l
}

// SetDefaultLoader makes l the loader Load uses for the (T, S) pair. Setting
// a new default for the same pair silently replaces the previous one.
//
// Parameters:
//   - r: the registry to configure
//   - l: the loader instance to use for Load[T, S]
func SetDefaultLoader[T, S any](r *Registry, l Loader[T, S]) {
	key := defaultKey{
		asset:  reflect.TypeFor[T](),
		source: reflect.TypeFor[S](),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.defaults[key] = l
}

// RegisterDefaultLoader registers l for LoadWith selection and makes it the
// default for Load[T, S] in one call.
//
// Parameters:
//   - r: the registry to configure
//   - l: the loader instance
func RegisterDefaultLoader[T, S any](r *Registry, l Loader[T, S]) {
	RegisterLoader(r, l)
	SetDefaultLoader(r, l)
}

// Load constructs an asset from source using the default loader for the
// (T, S) pair and stores the result in T's storage. A loader failure leaves
// the registry unmodified.
//
// Parameters:
//   - r: the registry holding T's storage and loader registrations
//   - source: the source description passed to the loader
//
// Returns:
//   - Handle[T]: a handle to the stored asset on success
//   - error: ErrUnregisteredAsset if T has no storage, ErrUnregisteredLoader
//     if no default loader is bound for (T, S), or the loader's failure
//     wrapped in ErrLoading
func Load[T, S any](r *Registry, source S) (Handle[T], error) {
	key := defaultKey{
		asset:  reflect.TypeFor[T](),
		source: reflect.TypeFor[S](),
	}

	r.mu.RLock()
	_, haveStorage := r.storages[key.asset]
	entry, haveLoader := r.defaults[key]
	r.mu.RUnlock()

	if !haveStorage {
		return Handle[T]{}, fmt.Errorf("%w: %s", ErrUnregisteredAsset, key.asset)
	}
	if !haveLoader {
		return Handle[T]{}, fmt.Errorf("%w: no default for %s from %s", ErrUnregisteredLoader, key.asset, key.source)
	}

	return runLoader[T, S](r, entry.(Loader[T, S]), source)
}

// LoadWith constructs an asset from source using the registered loader whose
// concrete type is L, bypassing the default binding. The asset type T cannot
// be inferred, so calls name both: LoadWith[*SomeLoader, SomeAsset](r, src).
//
// Parameters:
//   - r: the registry holding T's storage and loader registrations
//   - source: the source description passed to the loader
//
// Returns:
//   - Handle[T]: a handle to the stored asset on success
//   - error: ErrUnregisteredAsset if T has no storage, ErrUnregisteredLoader
//     if no loader of type L is registered for S or it does not produce T, or
//     the loader's failure wrapped in ErrLoading
func LoadWith[L, T, S any](r *Registry, source S) (Handle[T], error) {
	key := loaderKey{
		loader: reflect.TypeFor[L](),
		source: reflect.TypeFor[S](),
	}

	r.mu.RLock()
	_, haveStorage := r.storages[reflect.TypeFor[T]()]
	entry, haveLoader := r.loaders[key]
	r.mu.RUnlock()

	if !haveStorage {
		return Handle[T]{}, fmt.Errorf("%w: %s", ErrUnregisteredAsset, reflect.TypeFor[T]())
	}
	if !haveLoader {
		return Handle[T]{}, fmt.Errorf("%w: %s for %s", ErrUnregisteredLoader, key.loader, key.source)
	}
	l, ok := entry.(Loader[T, S])
	if !ok {
		return Handle[T]{}, fmt.Errorf("%w: %s does not load %s", ErrUnregisteredLoader, key.loader, reflect.TypeFor[T]())
	}

	return runLoader[T, S](r, l, source)
}

// runLoader invokes the loader outside the registry lock, so slow decodes and
// GPU uploads do not block unrelated registry access, then stores the result.
func runLoader[T, S any](r *Registry, l Loader[T, S], source S) (Handle[T], error) {
	asset, err := l.Load(source)
	if err != nil {
		return Handle[T]{}, fmt.Errorf("%w: %w", ErrLoading, err)
	}

	h, err := Store(r, asset)
	if err != nil {
		return Handle[T]{}, err
	}
	logger.Debug("loaded asset", zap.Stringer("handle", h), zap.String("loader", reflect.TypeOf(l).String()))
	return h, nil
}
