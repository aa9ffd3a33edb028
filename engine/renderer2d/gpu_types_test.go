package renderer2d

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/embergfx/ember/common"
	"github.com/embergfx/ember/engine/assets"
	"github.com/embergfx/ember/engine/shapes"
	"github.com/go-gl/mathgl/mgl32"
)

func TestGPUQuadInstanceLayout(t *testing.T) {
	inst := GPUQuadInstance{}
	if inst.Size() != 96 {
		t.Fatalf("instance size = %d, want 96", inst.Size())
	}

	for i := range inst.Model {
		inst.Model[i] = float32(i)
	}
	inst.Color = [4]float32{0.5, 0.25, 0.125, 1}
	inst.UVSize = [2]float32{0.5, 0.5}
	inst.UVOffset = [2]float32{0.25, 0.75}

	buf := inst.Marshal()
	if len(buf) != 96 {
		t.Fatalf("marshaled %d bytes, want 96", len(buf))
	}

	readF32 := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
	}

	if got := readF32(15 * 4); got != 15 {
		t.Errorf("last matrix element = %v, want 15", got)
	}
	if got := readF32(64); got != 0.5 {
		t.Errorf("color red at offset 64 = %v, want 0.5", got)
	}
	if got := readF32(80); got != 0.5 {
		t.Errorf("uv size x at offset 80 = %v, want 0.5", got)
	}
	if got := readF32(88); got != 0.25 {
		t.Errorf("uv offset x at offset 88 = %v, want 0.25", got)
	}
}

func TestNewGPUQuadInstanceCapturesQuad(t *testing.T) {
	q := shapes.NewQuad(mgl32.Vec2{3, 4}, mgl32.Vec2{5, 6}, 0)
	q.Color = common.RGBA(1, 0, 0, 0.5)

	inst := NewGPUQuadInstance(q, assets.NewUVRegion(0.1, 0.2, 0.3, 0.4))

	if inst.Model != [16]float32(q.Transform()) {
		t.Error("instance model does not match the quad's transform")
	}
	if inst.Color != [4]float32{1, 0, 0, 0.5} {
		t.Errorf("instance color = %v, want the quad's color", inst.Color)
	}
	if inst.UVSize != [2]float32{0.4, 0.3} || inst.UVOffset != [2]float32{0.2, 0.1} {
		t.Errorf("instance uv = size %v offset %v, want the region's", inst.UVSize, inst.UVOffset)
	}
}

func TestMarshalInstancesConcatenates(t *testing.T) {
	instances := []GPUQuadInstance{
		{Color: [4]float32{1, 0, 0, 1}},
		{Color: [4]float32{0, 1, 0, 1}},
	}

	buf := marshalInstances(instances)
	if len(buf) != 192 {
		t.Fatalf("marshaled %d bytes, want 192", len(buf))
	}

	second := math.Float32frombits(binary.LittleEndian.Uint32(buf[96+68:]))
	if second != 1 {
		t.Errorf("second instance green channel = %v, want 1", second)
	}

	if marshalInstances(nil) != nil {
		t.Error("empty instance slice marshaled to non-nil")
	}
}
