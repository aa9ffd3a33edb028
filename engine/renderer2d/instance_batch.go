package renderer2d

import (
	"github.com/embergfx/ember/engine/renderer2d/backend"
	"github.com/embergfx/ember/engine/logger"
	"go.uber.org/zap"
)

// instanceBatch accumulates the instance records for one (texture, depth)
// batch and owns that batch's GPU instance buffer. The buffer's capacity only
// grows: clearing between frames drops the CPU-side records but keeps the
// allocation, so a batch that oscillates below its high-water mark never
// reallocates.
type instanceBatch struct {
	instances []GPUQuadInstance
	buffer    backend.Buffer
	// reallocs counts buffer creations over the batch's lifetime.
	reallocs int
}

func newInstanceBatch(capacityHint int) *instanceBatch {
	return &instanceBatch{
		instances: make([]GPUQuadInstance, 0, capacityHint),
	}
}

func (b *instanceBatch) clear() {
	b.instances = b.instances[:0]
}

func (b *instanceBatch) push(inst GPUQuadInstance) {
	b.instances = append(b.instances, inst)
}

func (b *instanceBatch) len() int {
	return len(b.instances)
}

// upload ensures the GPU buffer holds the batch's current instances and
// binds it, then encodes the draw. Empty batches encode nothing.
//
// A missing or too-small buffer is destroyed and recreated sized exactly to
// the current instance count; otherwise the data is written in place.
func (b *instanceBatch) upload(be backend.RendererBackend, label string) error {
	if len(b.instances) == 0 {
		return nil
	}

	data := marshalInstances(b.instances)
	needed := uint64(len(data))

	switch {
	case b.buffer == nil:
		if err := b.reallocate(be, label, data); err != nil {
			return err
		}
	case b.buffer.Size() < needed:
		logger.Debug("destroying instance buffer", zap.String("batch", label), zap.Uint64("capacity", b.buffer.Size()), zap.Uint64("needed", needed))
		be.DestroyBuffer(b.buffer)
		b.buffer = nil
		if err := b.reallocate(be, label, data); err != nil {
			return err
		}
	default:
		be.WriteBuffer(b.buffer, 0, data)
	}

	be.BindInstances(b.buffer, needed)
	be.DrawIndexed(uint32(len(b.instances)))
	return nil
}

func (b *instanceBatch) reallocate(be backend.RendererBackend, label string, data []byte) error {
	logger.Debug("reallocating instance buffer", zap.String("batch", label), zap.Int("bytes", len(data)))
	buf, err := be.CreateInstanceBuffer(label, data)
	if err != nil {
		return err
	}
	b.buffer = buf
	b.reallocs++
	return nil
}
