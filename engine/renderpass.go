package engine

import (
	"github.com/go-gl/mathgl/mgl32"
)

type AttachmentLoadOp int

const (
	LoadOpLoad AttachmentLoadOp = iota
	LoadOpClear
	LoadOpDontCare
)

type AttachmentStoreOp int

const (
	StoreOpStore AttachmentStoreOp = iota
	StoreOpDontCare
)

type ImageLayout int

const (
	LayoutUndefined ImageLayout = iota
	LayoutColorAttachmentOptimal
	LayoutPresentSrc
)

type PipelineStages uint32

const (
	StageTopOfPipe PipelineStages = 1 << iota
	StageColorAttachmentOutput
)

type AccessFlags uint32

const (
	AccessColorAttachmentRead AccessFlags = 1 << iota
	AccessColorAttachmentWrite
)

// SubpassExternal names the implicit scope before or after the render pass.
const SubpassExternal = -1

type AttachmentDescription struct {
	Format         Format
	Samples        int
	LoadOp         AttachmentLoadOp
	StoreOp        AttachmentStoreOp
	StencilLoadOp  AttachmentLoadOp
	StencilStoreOp AttachmentStoreOp
	InitialLayout  ImageLayout
	FinalLayout    ImageLayout
}

type AttachmentReference struct {
	Attachment int
	Layout     ImageLayout
}

// SubpassDescription is always a graphics subpass; Vulkan 1.0 has no other kind.
type SubpassDescription struct {
	ColorAttachments []AttachmentReference
}

type SubpassDependency struct {
	SrcSubpass    int
	DstSubpass    int
	SrcStageMask  PipelineStages
	DstStageMask  PipelineStages
	SrcAccessMask AccessFlags
	DstAccessMask AccessFlags
}

type RenderPassOptions struct {
	Attachments  []AttachmentDescription
	Subpasses    []SubpassDescription
	Dependencies []SubpassDependency
}

// DescribeRenderTarget returns a single-subpass render pass that clears one color
// attachment of the given format and leaves it ready for presentation.
func DescribeRenderTarget(format Format) RenderPassOptions {
	return RenderPassOptions{
		Attachments: []AttachmentDescription{
			{
				Format:         format,
				Samples:        1,
				LoadOp:         LoadOpClear,
				StoreOp:        StoreOpStore,
				StencilLoadOp:  LoadOpDontCare,
				StencilStoreOp: StoreOpDontCare,
				InitialLayout:  LayoutUndefined,
				FinalLayout:    LayoutPresentSrc,
			},
		},
		Subpasses: []SubpassDescription{
			{
				ColorAttachments: []AttachmentReference{
					{
						Attachment: 0,
						Layout:     LayoutColorAttachmentOptimal,
					},
				},
			},
		},
		Dependencies: []SubpassDependency{
			// Chain images start in an undefined layout, so color output must wait for
			// whoever used the image before.
			{
				SrcSubpass: SubpassExternal,
				DstSubpass: 0,

				SrcStageMask:  StageColorAttachmentOutput,
				SrcAccessMask: 0,

				DstStageMask:  StageColorAttachmentOutput,
				DstAccessMask: AccessColorAttachmentRead | AccessColorAttachmentWrite,
			},
		},
	}
}

// RenderTarget is a created render pass together with its description and the color
// its attachment is cleared to.
type RenderTarget struct {
	RenderPass  RenderPass
	Description RenderPassOptions
	ClearColor  mgl32.Vec4
}

// ClearValue returns the clear color as RGBA components.
func (t *RenderTarget) ClearValue() [4]float32 {
	return [4]float32{t.ClearColor.X(), t.ClearColor.Y(), t.ClearColor.Z(), t.ClearColor.W()}
}

func buildRenderTarget(releases *releaseStack, device Device, format Format, clearColor mgl32.Vec4) (*RenderTarget, error) {
	description := DescribeRenderTarget(format)

	renderPass, err := device.CreateRenderPass(description)
	if err != nil {
		return nil, driverError(err, "create render pass")
	}
	releases.push("render-pass", renderPass.Destroy)

	return &RenderTarget{
		RenderPass:  renderPass,
		Description: description,
		ClearColor:  clearColor,
	}, nil
}
