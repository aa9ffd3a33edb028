package backend

import (
	_ "embed"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/embergfx/ember/common"
)

//go:embed quad_shader.wgsl
var quadShaderSource string

const (
	// quadVertexStride is the byte stride of one unit-quad vertex: vec2
	// position plus vec2 uv.
	quadVertexStride = 4 * 4
	// quadInstanceStride is the byte stride of one instance: a mat4x4 model
	// matrix, a vec4 color, a vec2 uv size, and a vec2 uv offset.
	quadInstanceStride = 16*4 + 4*4 + 2*4 + 2*4
	// cameraUniformSize is the byte size of the camera uniform: one mat4x4.
	cameraUniformSize = 16 * 4
	// quadIndexCount is the number of indices in the shared unit-quad geometry.
	quadIndexCount = 6
)

// Unit quad in local space. The instance model matrix scales and places it.
var quadVertices = []float32{
	// x, y, u, v
	0, 0, 0, 0,
	0, 1, 0, 1,
	1, 1, 1, 1,
	1, 0, 1, 0,
}

var quadIndices = []uint16{0, 1, 2, 2, 3, 0}

type wgpuBuffer struct {
	buf  *wgpu.Buffer
	size uint64
}

func (b *wgpuBuffer) Size() uint64 {
	return b.size
}

type wgpuTextureBinding struct {
	label     string
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	sampler   *wgpu.Sampler
	bindGroup *wgpu.BindGroup
}

func (t *wgpuTextureBinding) Label() string {
	return t.label
}

type wgpuBackendImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat *wgpu.TextureFormat
	surfaceWidth  int
	surfaceHeight int
	presentMode   wgpu.PresentMode

	pipeline      *wgpu.RenderPipeline
	cameraLayout  *wgpu.BindGroupLayout
	textureLayout *wgpu.BindGroupLayout
	cameraBuffer  *wgpu.Buffer
	cameraGroup   *wgpu.BindGroup
	vertexBuffer  *wgpu.Buffer
	indexBuffer   *wgpu.Buffer

	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
}

var _ RendererBackend = &wgpuBackendImpl{}

// NewWGPU creates a RendererBackend over the given window surface. The calling
// goroutine is locked to its OS thread for the lifetime of the backend, as
// required by the underlying windowing and GPU libraries. Panics if no
// suitable adapter or device is available.
//
// Parameters:
//   - surfaceDescriptor: the platform surface obtained from the window layer
//   - forceFallbackAdapter: if true, request a software adapter
//
// Returns:
//   - RendererBackend: the wgpu-backed implementation
func NewWGPU(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) RendererBackend {
	runtime.LockOSThread()
	b := &wgpuBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	return b
}

func (b *wgpuBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	b.surfaceWidth = width
	b.surfaceHeight = height

	// The pipeline depends on the surface format, so it is built on the first
	// configure rather than in NewWGPU.
	if b.pipeline == nil {
		if err := b.initQuadPipeline(); err != nil {
			panic(err)
		}
	}
}

func (b *wgpuBackendImpl) SurfaceSize() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.surfaceWidth, b.surfaceHeight
}

func (b *wgpuBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

// initQuadPipeline builds the alpha-blended quad pipeline, the shared quad
// geometry buffers, and the camera uniform resources. Caller holds b.mu.
func (b *wgpuBackendImpl) initQuadPipeline() error {
	shaderModule, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Quad Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: quadShaderSource,
		},
	})
	if err != nil {
		return err
	}
	defer shaderModule.Release()

	b.cameraLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: cameraUniformSize,
				},
			},
		},
	})
	if err != nil {
		return err
	}

	b.textureLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Texture Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return err
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Quad Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.cameraLayout, b.textureLayout},
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	vertexLayouts := []wgpu.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			},
		},
		{
			ArrayStride: quadInstanceStride,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 2},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 5},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 6},
				{Format: wgpu.VertexFormatFloat32x2, Offset: 80, ShaderLocation: 7},
				{Format: wgpu.VertexFormatFloat32x2, Offset: 88, ShaderLocation: 8},
			},
		},
	}

	b.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Quad Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format: *b.surfaceFormat,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}

	b.vertexBuffer, err = b.createBufferInit("Quad Vertex Buffer", common.SliceToBytes(quadVertices), wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	b.indexBuffer, err = b.createBufferInit("Quad Index Buffer", common.SliceToBytes(quadIndices), wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	b.cameraBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform Buffer",
		Size:  cameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.cameraGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: b.cameraLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.cameraBuffer,
				Size:    cameraUniformSize,
			},
		},
	})
	if err != nil {
		return err
	}

	return nil
}

func (b *wgpuBackendImpl) createBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(contents)),
		Usage: usage,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(buf, 0, contents)
	return buf, nil
}

func (b *wgpuBackendImpl) CreateTexture(label string, data common.TextureStagingData) (TextureBinding, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}

	var stagingSampler common.SamplerStagingData
	if data.Sampler != nil {
		stagingSampler = *data.Sampler
	}
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  common.Coalesce(stagingSampler.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(stagingSampler.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(stagingSampler.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(stagingSampler.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(stagingSampler.MinFilter, wgpu.FilterModeNearest),
		MipmapFilter:  common.Coalesce(stagingSampler.MipmapFilter, wgpu.MipmapFilterModeNearest),
		LodMinClamp:   common.Coalesce(stagingSampler.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(stagingSampler.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(stagingSampler.MaxAnisotropy, 1),
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, err
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: b.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: samp},
		},
	})
	if err != nil {
		samp.Release()
		view.Release()
		tex.Release()
		return nil, err
	}

	return &wgpuTextureBinding{
		label:     label,
		texture:   tex,
		view:      view,
		sampler:   samp,
		bindGroup: bindGroup,
	}, nil
}

func (b *wgpuBackendImpl) CreateInstanceBuffer(label string, contents []byte) (Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := b.createBufferInit(label, contents, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	return &wgpuBuffer{buf: buf, size: uint64(len(contents))}, nil
}

func (b *wgpuBackendImpl) WriteBuffer(buf Buffer, offset uint64, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wb := buf.(*wgpuBuffer)
	b.queue.WriteBuffer(wb.buf, offset, data)
}

func (b *wgpuBackendImpl) DestroyBuffer(buf Buffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wb := buf.(*wgpuBuffer)
	wb.buf.Destroy()
	wb.buf.Release()
	wb.buf = nil
}

func (b *wgpuBackendImpl) BeginFrame(clear common.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return classifySurfaceError(err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return classifySurfaceError(err)
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(clear.R),
					G: float64(clear.G),
					B: float64(clear.B),
					A: float64(clear.A),
				},
			},
		},
	})

	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, b.cameraGroup, nil)
	pass.SetVertexBuffer(0, b.vertexBuffer, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(b.indexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)

	b.frameSurface = surfaceTexture
	b.frameView = view
	b.frameEncoder = encoder
	b.framePass = pass

	return nil
}

func (b *wgpuBackendImpl) WriteCamera(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queue.WriteBuffer(b.cameraBuffer, 0, data)
}

func (b *wgpuBackendImpl) BindTexture(binding TextureBinding) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tb := binding.(*wgpuTextureBinding)
	b.framePass.SetBindGroup(1, tb.bindGroup, nil)
}

func (b *wgpuBackendImpl) BindInstances(buf Buffer, size uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wb := buf.(*wgpuBuffer)
	b.framePass.SetVertexBuffer(1, wb.buf, 0, size)
}

func (b *wgpuBackendImpl) DrawIndexed(instanceCount uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.framePass.DrawIndexed(quadIndexCount, instanceCount, 0, 0, 0)
}

func (b *wgpuBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err == nil {
		b.queue.Submit(commandBuffer)
		commandBuffer.Release()
	}

	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	b.frameView.Release()
	b.frameSurface.Release()
	b.frameView = nil
	b.frameSurface = nil
}

// classifySurfaceError wraps a surface acquisition failure, marking swapchain
// invalidation (outdated, lost, or timed out) as transient so the caller can
// reconfigure and retry rather than abort.
func classifySurfaceError(err error) *SurfaceError {
	msg := strings.ToLower(err.Error())
	transient := strings.Contains(msg, "outdated") ||
		strings.Contains(msg, "lost") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "timed out")
	return &SurfaceError{Transient: transient, Err: err}
}
