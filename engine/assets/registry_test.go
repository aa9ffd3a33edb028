package assets

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

type soundClip struct {
	samples int
}

type scriptSource struct {
	body string
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	if err := Register[soundClip](r); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	h, err := Store(r, soundClip{samples: 42})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if err := Register[soundClip](r); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("second Register: got %v, want ErrAlreadyRegistered", err)
	}

	// The original storage and its contents survive the failed registration.
	clip, err := Get(r, h)
	if err != nil {
		t.Fatalf("Get after duplicate Register failed: %v", err)
	}
	if clip.samples != 42 {
		t.Errorf("stored asset corrupted: got %d samples, want 42", clip.samples)
	}
}

func TestStoreGetRoundtrip(t *testing.T) {
	r := NewRegistry()
	if err := Register[soundClip](r); err != nil {
		t.Fatal(err)
	}

	h1, err := Store(r, soundClip{samples: 1})
	if err != nil {
		t.Fatal(err)
	}
	h2, err := Store(r, soundClip{samples: 2})
	if err != nil {
		t.Fatal(err)
	}

	if h1 == h2 {
		t.Fatal("distinct stores returned equal handles")
	}

	got, err := Get(r, h2)
	if err != nil {
		t.Fatal(err)
	}
	if got.samples != 2 {
		t.Errorf("Get(h2) = %d samples, want 2", got.samples)
	}

	// Get returns a pointer to the stored asset, so mutations are shared.
	got.samples = 99
	again := MustGet(r, h2)
	if again.samples != 99 {
		t.Errorf("mutation through Get not visible: got %d, want 99", again.samples)
	}
}

func TestStoreUnregisteredType(t *testing.T) {
	r := NewRegistry()

	if _, err := Store(r, soundClip{}); !errors.Is(err, ErrUnregisteredAsset) {
		t.Fatalf("got %v, want ErrUnregisteredAsset", err)
	}
}

func TestGetErrors(t *testing.T) {
	r := NewRegistry()

	if _, err := Get(r, Handle[soundClip]{}); !errors.Is(err, ErrUnregisteredAsset) {
		t.Fatalf("unregistered type: got %v, want ErrUnregisteredAsset", err)
	}

	if err := Register[soundClip](r); err != nil {
		t.Fatal(err)
	}

	if _, err := Get(r, Handle[soundClip]{}); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("zero handle: got %v, want ErrInvalidHandle", err)
	}

	other := NewRegistry()
	if err := Register[soundClip](other); err != nil {
		t.Fatal(err)
	}
	foreign, err := Store(other, soundClip{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Get(r, foreign); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("foreign handle: got %v, want ErrInvalidHandle", err)
	}
}

func TestMustGetPanics(t *testing.T) {
	r := NewRegistry()
	if err := Register[soundClip](r); err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("MustGet with an invalid handle did not panic")
		}
	}()
	MustGet(r, Handle[soundClip]{})
}

func TestHandleAsMapKey(t *testing.T) {
	r := NewRegistry()
	if err := Register[soundClip](r); err != nil {
		t.Fatal(err)
	}

	counts := make(map[Handle[soundClip]]int)
	h1, _ := Store(r, soundClip{samples: 1})
	h2, _ := Store(r, soundClip{samples: 2})

	counts[h1]++
	counts[h1]++
	counts[h2]++

	if counts[h1] != 2 || counts[h2] != 1 {
		t.Errorf("handle map counts = %d, %d; want 2, 1", counts[h1], counts[h2])
	}
}

func TestLoadWithoutDefaultLoader(t *testing.T) {
	r := NewRegistry()
	if err := Register[soundClip](r); err != nil {
		t.Fatal(err)
	}

	if _, err := Load[soundClip, string](r, "beep.wav"); !errors.Is(err, ErrUnregisteredLoader) {
		t.Fatalf("got %v, want ErrUnregisteredLoader", err)
	}

	// The failed load must not have stored anything: the first real store
	// still mints the first id.
	h, err := Store(r, soundClip{})
	if err != nil {
		t.Fatal(err)
	}
	if h.ID() != 1 {
		t.Errorf("first store after failed Load minted id %d, want 1", h.ID())
	}
}

func TestLoadWithDefaultLoader(t *testing.T) {
	r := NewRegistry()
	if err := Register[soundClip](r); err != nil {
		t.Fatal(err)
	}

	RegisterDefaultLoader(r, LoaderFunc[soundClip, string](func(path string) (soundClip, error) {
		return soundClip{samples: len(path)}, nil
	}))

	h, err := Load[soundClip, string](r, "beep.wav")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	clip := MustGet(r, h)
	if clip.samples != len("beep.wav") {
		t.Errorf("loaded %d samples, want %d", clip.samples, len("beep.wav"))
	}
}

func TestLoadFailureWrapped(t *testing.T) {
	r := NewRegistry()
	if err := Register[soundClip](r); err != nil {
		t.Fatal(err)
	}

	cause := fmt.Errorf("corrupt header")
	RegisterDefaultLoader(r, LoaderFunc[soundClip, string](func(string) (soundClip, error) {
		return soundClip{}, cause
	}))

	_, err := Load[soundClip, string](r, "bad.wav")
	if !errors.Is(err, ErrLoading) {
		t.Fatalf("got %v, want ErrLoading", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped error lost the cause: %v", err)
	}

	h, _ := Store(r, soundClip{})
	if h.ID() != 1 {
		t.Errorf("failed load mutated storage: next id %d, want 1", h.ID())
	}
}

func TestSetDefaultLoaderLastWriteWins(t *testing.T) {
	r := NewRegistry()
	if err := Register[soundClip](r); err != nil {
		t.Fatal(err)
	}

	SetDefaultLoader(r, LoaderFunc[soundClip, string](func(string) (soundClip, error) {
		return soundClip{samples: 1}, nil
	}))
	SetDefaultLoader(r, LoaderFunc[soundClip, string](func(string) (soundClip, error) {
		return soundClip{samples: 2}, nil
	}))

	h, err := Load[soundClip, string](r, "clip.wav")
	if err != nil {
		t.Fatal(err)
	}
	if MustGet(r, h).samples != 2 {
		t.Error("replaced default loader was not used")
	}
}

type wavLoader struct{}

func (wavLoader) Load(path string) (soundClip, error) {
	return soundClip{samples: 100}, nil
}

type oggLoader struct{}

func (oggLoader) Load(path string) (soundClip, error) {
	return soundClip{samples: 200}, nil
}

func TestLoadWithSelectsByLoaderType(t *testing.T) {
	r := NewRegistry()
	if err := Register[soundClip](r); err != nil {
		t.Fatal(err)
	}

	RegisterLoader(r, wavLoader{})
	RegisterLoader(r, oggLoader{})

	h, err := LoadWith[oggLoader, soundClip](r, "music.ogg")
	if err != nil {
		t.Fatalf("LoadWith failed: %v", err)
	}
	if MustGet(r, h).samples != 200 {
		t.Error("LoadWith did not select the requested loader")
	}

	if _, err := LoadWith[*TextureFileLoader, soundClip](r, "missing"); !errors.Is(err, ErrUnregisteredLoader) {
		t.Fatalf("unregistered loader type: got %v, want ErrUnregisteredLoader", err)
	}
}

func TestLoadAsync(t *testing.T) {
	r := NewRegistry()
	if err := Register[soundClip](r); err != nil {
		t.Fatal(err)
	}
	RegisterDefaultLoader(r, LoaderFunc[soundClip, scriptSource](func(src scriptSource) (soundClip, error) {
		return soundClip{samples: len(src.body)}, nil
	}))

	// Workers idle-exit on their own after the pool's idle timeout.
	pool := NewLoadPool(2)

	type result struct {
		h   Handle[soundClip]
		err error
	}
	done := make(chan result, 1)

	LoadAsync(r, pool, scriptSource{body: "abcd"}, func(h Handle[soundClip], err error) {
		done <- result{h: h, err: err}
	})

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("async load failed: %v", res.err)
		}
		if MustGet(r, res.h).samples != 4 {
			t.Errorf("async load stored %d samples, want 4", MustGet(r, res.h).samples)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("async load did not complete")
	}
}
