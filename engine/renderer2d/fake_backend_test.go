package renderer2d

import (
	"github.com/embergfx/ember/common"
	"github.com/embergfx/ember/engine/renderer2d/backend"
)

// fakeBuffer is an inert stand-in for a GPU buffer.
type fakeBuffer struct {
	label     string
	data      []byte
	destroyed bool
}

func (b *fakeBuffer) Size() uint64 {
	return uint64(len(b.data))
}

// fakeBinding is an inert stand-in for a texture resource set.
type fakeBinding struct {
	label string
}

func (b *fakeBinding) Label() string {
	return b.label
}

// fakeDraw captures one DrawIndexed call with the state bound at the time.
type fakeDraw struct {
	texture       string
	buffer        *fakeBuffer
	boundSize     uint64
	instanceCount uint32
}

// fakeBackend records every backend call so tests can assert on draw order,
// buffer reuse, and reallocation without a GPU.
type fakeBackend struct {
	width, height int
	configures    int

	buffersCreated []*fakeBuffer
	writes         int

	beginErr error

	frames     int
	clear      common.Color
	cameraData []byte

	boundTexture string
	boundBuffer  *fakeBuffer
	boundSize    uint64
	draws        []fakeDraw

	ends     int
	presents int
}

var _ backend.RendererBackend = &fakeBackend{}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{width: 800, height: 600}
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.width, f.height = width, height
	f.configures++
}

func (f *fakeBackend) SurfaceSize() (int, int) {
	return f.width, f.height
}

func (f *fakeBackend) SetPresentMode(backend.PresentMode) {}

func (f *fakeBackend) CreateTexture(label string, data common.TextureStagingData) (backend.TextureBinding, error) {
	return &fakeBinding{label: label}, nil
}

func (f *fakeBackend) CreateInstanceBuffer(label string, contents []byte) (backend.Buffer, error) {
	buf := &fakeBuffer{label: label, data: append([]byte(nil), contents...)}
	f.buffersCreated = append(f.buffersCreated, buf)
	return buf, nil
}

func (f *fakeBackend) WriteBuffer(buf backend.Buffer, offset uint64, data []byte) {
	fb := buf.(*fakeBuffer)
	copy(fb.data[offset:], data)
	f.writes++
}

func (f *fakeBackend) DestroyBuffer(buf backend.Buffer) {
	buf.(*fakeBuffer).destroyed = true
}

func (f *fakeBackend) BeginFrame(clear common.Color) error {
	if f.beginErr != nil {
		err := f.beginErr
		f.beginErr = nil
		return err
	}
	f.frames++
	f.clear = clear
	return nil
}

func (f *fakeBackend) WriteCamera(data []byte) {
	f.cameraData = append([]byte(nil), data...)
}

func (f *fakeBackend) BindTexture(binding backend.TextureBinding) {
	f.boundTexture = binding.Label()
}

func (f *fakeBackend) BindInstances(buf backend.Buffer, size uint64) {
	f.boundBuffer = buf.(*fakeBuffer)
	f.boundSize = size
}

func (f *fakeBackend) DrawIndexed(instanceCount uint32) {
	f.draws = append(f.draws, fakeDraw{
		texture:       f.boundTexture,
		buffer:        f.boundBuffer,
		boundSize:     f.boundSize,
		instanceCount: instanceCount,
	})
}

func (f *fakeBackend) EndFrame() {
	f.ends++
}

func (f *fakeBackend) Present() {
	f.presents++
}
