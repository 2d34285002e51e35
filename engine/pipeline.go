package engine

import (
	"encoding/binary"
)

type ShaderStage int

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
)

type PrimitiveTopology int

const (
	TopologyPointList PrimitiveTopology = iota
	TopologyLineList
	TopologyTriangleList
)

type PolygonMode int

const (
	PolygonModeFill PolygonMode = iota
	PolygonModeLine
	PolygonModePoint
)

type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

type FrontFace int

const (
	FrontFaceCounterClockwise FrontFace = iota
	FrontFaceClockwise
)

type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
)

type BlendOp int

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
)

type ColorComponents uint32

const (
	ColorComponentRed ColorComponents = 1 << iota
	ColorComponentGreen
	ColorComponentBlue
	ColorComponentAlpha
)

type ShaderStageOptions struct {
	Stage      ShaderStage
	Module     ShaderModule
	EntryPoint string
}

type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

type Rect2D struct {
	X, Y   int
	Extent Extent2D
}

type RasterizationOptions struct {
	PolygonMode PolygonMode
	CullMode    CullMode
	FrontFace   FrontFace
	LineWidth   float32
}

type ColorBlendAttachment struct {
	BlendEnabled        bool
	SrcColorBlendFactor BlendFactor
	DstColorBlendFactor BlendFactor
	ColorBlendOp        BlendOp
	SrcAlphaBlendFactor BlendFactor
	DstAlphaBlendFactor BlendFactor
	AlphaBlendOp        BlendOp
	ColorWriteMask      ColorComponents
}

// GraphicsPipelineOptions is the fixed-function state of a graphics pipeline. The
// pipeline declares no vertex bindings or attributes.
type GraphicsPipelineOptions struct {
	Stages        []ShaderStageOptions
	Topology      PrimitiveTopology
	Viewports     []Viewport
	Scissors      []Rect2D
	Rasterization RasterizationOptions
	Samples       int
	ColorBlend    []ColorBlendAttachment
	Layout        PipelineLayout
	RenderPass    RenderPass
	Subpass       int
}

// ShaderSet holds compiled SPIR-V for the two pipeline stages.
type ShaderSet struct {
	Vertex   []byte
	Fragment []byte
}

// ShaderCode reinterprets a little-endian SPIR-V blob as words.
func ShaderCode(b []byte) ([]uint32, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, configurationErrorf("shader bytecode length %d is not a positive multiple of 4", len(b))
	}

	code := make([]uint32, len(b)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return code, nil
}

// DescribePipeline fills in the fixed-function state around the two shader modules.
//
// This is a placeholder pipeline: no mesh data flows through it, so it draws points
// with no vertex input, and its blend state writes only red, green and alpha.
func DescribePipeline(extent Extent2D, vertex, fragment ShaderModule, layout PipelineLayout, renderPass RenderPass) GraphicsPipelineOptions {
	return GraphicsPipelineOptions{
		Stages: []ShaderStageOptions{
			{Stage: ShaderStageVertex, Module: vertex, EntryPoint: "main"},
			{Stage: ShaderStageFragment, Module: fragment, EntryPoint: "main"},
		},
		Topology: TopologyPointList,
		Viewports: []Viewport{
			{
				X:        0,
				Y:        0,
				Width:    float32(extent.Width),
				Height:   float32(extent.Height),
				MinDepth: 0,
				MaxDepth: 1,
			},
		},
		Scissors: []Rect2D{
			{X: 0, Y: 0, Extent: extent},
		},
		Rasterization: RasterizationOptions{
			PolygonMode: PolygonModeFill,
			CullMode:    CullModeNone,
			FrontFace:   FrontFaceCounterClockwise,
			LineWidth:   1.0,
		},
		Samples: 1,
		ColorBlend: []ColorBlendAttachment{
			{
				BlendEnabled:        true,
				SrcColorBlendFactor: BlendFactorSrcAlpha,
				DstColorBlendFactor: BlendFactorOneMinusSrcAlpha,
				ColorBlendOp:        BlendOpAdd,
				SrcAlphaBlendFactor: BlendFactorSrcAlpha,
				DstAlphaBlendFactor: BlendFactorOneMinusSrcAlpha,
				AlphaBlendOp:        BlendOpAdd,
				// Blue is intentionally left out.
				ColorWriteMask: ColorComponentRed | ColorComponentGreen | ColorComponentAlpha,
			},
		},
		Layout:     layout,
		RenderPass: renderPass,
		Subpass:    0,
	}
}

// GraphicsPipeline owns a pipeline and its layout. The shader modules named in
// Options.Stages are already released once the pipeline exists.
type GraphicsPipeline struct {
	Layout   PipelineLayout
	Pipeline Pipeline
	Options  GraphicsPipelineOptions
}

func createShaderModule(device Device, stage string, bytecode []byte) (ShaderModule, error) {
	code, err := ShaderCode(bytecode)
	if err != nil {
		return nil, err
	}

	module, err := device.CreateShaderModule(code)
	if err != nil {
		return nil, driverError(err, "create %s shader module", stage)
	}
	return module, nil
}

func buildPipeline(releases *releaseStack, device Device, extent Extent2D, target *RenderTarget, shaders ShaderSet) (*GraphicsPipeline, error) {
	vertShader, err := createShaderModule(device, "vertex", shaders.Vertex)
	if err != nil {
		return nil, err
	}
	defer vertShader.Destroy()

	fragShader, err := createShaderModule(device, "fragment", shaders.Fragment)
	if err != nil {
		return nil, err
	}
	defer fragShader.Destroy()

	layout, err := device.CreatePipelineLayout()
	if err != nil {
		return nil, driverError(err, "create pipeline layout")
	}
	releases.push("pipeline-layout", layout.Destroy)

	options := DescribePipeline(extent, vertShader, fragShader, layout, target.RenderPass)
	pipeline, err := device.CreateGraphicsPipeline(options)
	if err != nil {
		return nil, driverError(err, "create graphics pipeline")
	}
	releases.push("pipeline", pipeline.Destroy)

	return &GraphicsPipeline{
		Layout:   layout,
		Pipeline: pipeline,
		Options:  options,
	}, nil
}
