package vkng

import (
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"

	"github.com/vkngwrapper/gameengine/engine"
)

var queueFlagPairs = []struct {
	engine engine.QueueFlags
	vk     core1_0.QueueFlags
}{
	{engine.QueueGraphics, core1_0.QueueGraphics},
	{engine.QueueCompute, core1_0.QueueCompute},
	{engine.QueueTransfer, core1_0.QueueTransfer},
	{engine.QueueSparseBinding, core1_0.QueueSparseBinding},
}

func queueFlags(flags core1_0.QueueFlags) engine.QueueFlags {
	var out engine.QueueFlags
	for _, pair := range queueFlagPairs {
		if flags&pair.vk != 0 {
			out |= pair.engine
		}
	}
	return out
}

var severityPairs = []struct {
	engine engine.Severity
	vk     ext_debug_utils.DebugUtilsMessageSeverityFlags
}{
	{engine.SeverityVerbose, ext_debug_utils.SeverityVerbose},
	{engine.SeverityInfo, ext_debug_utils.SeverityInfo},
	{engine.SeverityWarning, ext_debug_utils.SeverityWarning},
	{engine.SeverityError, ext_debug_utils.SeverityError},
}

func messageSeverity(severity engine.Severity) ext_debug_utils.DebugUtilsMessageSeverityFlags {
	var out ext_debug_utils.DebugUtilsMessageSeverityFlags
	for _, pair := range severityPairs {
		if severity&pair.engine != 0 {
			out |= pair.vk
		}
	}
	return out
}

func severityOf(flags ext_debug_utils.DebugUtilsMessageSeverityFlags) engine.Severity {
	var out engine.Severity
	for _, pair := range severityPairs {
		if flags&pair.vk != 0 {
			out |= pair.engine
		}
	}
	return out
}

var categoryPairs = []struct {
	engine engine.Category
	vk     ext_debug_utils.DebugUtilsMessageTypeFlags
}{
	{engine.CategoryGeneral, ext_debug_utils.TypeGeneral},
	{engine.CategoryValidation, ext_debug_utils.TypeValidation},
	{engine.CategoryPerformance, ext_debug_utils.TypePerformance},
}

func messageType(category engine.Category) ext_debug_utils.DebugUtilsMessageTypeFlags {
	var out ext_debug_utils.DebugUtilsMessageTypeFlags
	for _, pair := range categoryPairs {
		if category&pair.engine != 0 {
			out |= pair.vk
		}
	}
	return out
}

func categoryOf(flags ext_debug_utils.DebugUtilsMessageTypeFlags) engine.Category {
	var out engine.Category
	for _, pair := range categoryPairs {
		if flags&pair.vk != 0 {
			out |= pair.engine
		}
	}
	return out
}

// messengerCreateInfo is shared by the chained instance messenger and the standalone
// one so both deliver to the same callback.
func messengerCreateInfo(options engine.MessengerOptions) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	callback := options.Callback
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: messageSeverity(options.Severities),
		MessageType:     messageType(options.Categories),
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			if callback != nil && data != nil {
				callback(severityOf(severity), categoryOf(msgType), data.Message)
			}
			return false
		},
	}
}

func extent(e core1_0.Extent2D) engine.Extent2D {
	return engine.Extent2D{Width: e.Width, Height: e.Height}
}

func vkExtent(e engine.Extent2D) core1_0.Extent2D {
	return core1_0.Extent2D{Width: e.Width, Height: e.Height}
}

func loadOp(op engine.AttachmentLoadOp) core1_0.AttachmentLoadOp {
	switch op {
	case engine.LoadOpClear:
		return core1_0.AttachmentLoadOpClear
	case engine.LoadOpDontCare:
		return core1_0.AttachmentLoadOpDontCare
	}
	return core1_0.AttachmentLoadOpLoad
}

func storeOp(op engine.AttachmentStoreOp) core1_0.AttachmentStoreOp {
	if op == engine.StoreOpDontCare {
		return core1_0.AttachmentStoreOpDontCare
	}
	return core1_0.AttachmentStoreOpStore
}

func imageLayout(layout engine.ImageLayout) core1_0.ImageLayout {
	switch layout {
	case engine.LayoutColorAttachmentOptimal:
		return core1_0.ImageLayoutColorAttachmentOptimal
	case engine.LayoutPresentSrc:
		return khr_swapchain.ImageLayoutPresentSrc
	}
	return core1_0.ImageLayoutUndefined
}

func pipelineStages(stages engine.PipelineStages) core1_0.PipelineStageFlags {
	var out core1_0.PipelineStageFlags
	if stages&engine.StageTopOfPipe != 0 {
		out |= core1_0.PipelineStageTopOfPipe
	}
	if stages&engine.StageColorAttachmentOutput != 0 {
		out |= core1_0.PipelineStageColorAttachmentOutput
	}
	return out
}

func accessFlags(access engine.AccessFlags) core1_0.AccessFlags {
	var out core1_0.AccessFlags
	if access&engine.AccessColorAttachmentRead != 0 {
		out |= core1_0.AccessColorAttachmentRead
	}
	if access&engine.AccessColorAttachmentWrite != 0 {
		out |= core1_0.AccessColorAttachmentWrite
	}
	return out
}

func subpassIndex(index int) int {
	if index == engine.SubpassExternal {
		return core1_0.SubpassExternal
	}
	return index
}

func renderPassCreateInfo(options engine.RenderPassOptions) core1_0.RenderPassCreateInfo {
	var info core1_0.RenderPassCreateInfo

	for _, attachment := range options.Attachments {
		info.Attachments = append(info.Attachments, core1_0.AttachmentDescription{
			Format:         core1_0.Format(attachment.Format),
			Samples:        sampleCount(attachment.Samples),
			LoadOp:         loadOp(attachment.LoadOp),
			StoreOp:        storeOp(attachment.StoreOp),
			StencilLoadOp:  loadOp(attachment.StencilLoadOp),
			StencilStoreOp: storeOp(attachment.StencilStoreOp),
			InitialLayout:  imageLayout(attachment.InitialLayout),
			FinalLayout:    imageLayout(attachment.FinalLayout),
		})
	}

	for _, subpass := range options.Subpasses {
		description := core1_0.SubpassDescription{
			PipelineBindPoint: core1_0.PipelineBindPointGraphics,
		}
		for _, ref := range subpass.ColorAttachments {
			description.ColorAttachments = append(description.ColorAttachments, core1_0.AttachmentReference{
				Attachment: ref.Attachment,
				Layout:     imageLayout(ref.Layout),
			})
		}
		info.Subpasses = append(info.Subpasses, description)
	}

	for _, dependency := range options.Dependencies {
		info.SubpassDependencies = append(info.SubpassDependencies, core1_0.SubpassDependency{
			SrcSubpass:    subpassIndex(dependency.SrcSubpass),
			DstSubpass:    subpassIndex(dependency.DstSubpass),
			SrcStageMask:  pipelineStages(dependency.SrcStageMask),
			DstStageMask:  pipelineStages(dependency.DstStageMask),
			SrcAccessMask: accessFlags(dependency.SrcAccessMask),
			DstAccessMask: accessFlags(dependency.DstAccessMask),
		})
	}

	return info
}

func sampleCount(samples int) core1_0.SampleCountFlags {
	switch samples {
	case 2:
		return core1_0.Samples2
	case 4:
		return core1_0.Samples4
	case 8:
		return core1_0.Samples8
	}
	return core1_0.Samples1
}

func shaderStage(stage engine.ShaderStage) core1_0.ShaderStageFlags {
	if stage == engine.ShaderStageFragment {
		return core1_0.StageFragment
	}
	return core1_0.StageVertex
}

func topology(t engine.PrimitiveTopology) core1_0.PrimitiveTopology {
	switch t {
	case engine.TopologyLineList:
		return core1_0.PrimitiveTopologyLineList
	case engine.TopologyTriangleList:
		return core1_0.PrimitiveTopologyTriangleList
	}
	return core1_0.PrimitiveTopologyPointList
}

func polygonMode(mode engine.PolygonMode) core1_0.PolygonMode {
	switch mode {
	case engine.PolygonModeLine:
		return core1_0.PolygonModeLine
	case engine.PolygonModePoint:
		return core1_0.PolygonModePoint
	}
	return core1_0.PolygonModeFill
}

func cullMode(mode engine.CullMode) core1_0.CullModeFlags {
	switch mode {
	case engine.CullModeFront:
		return core1_0.CullModeFront
	case engine.CullModeBack:
		return core1_0.CullModeBack
	}
	return 0
}

func frontFace(face engine.FrontFace) core1_0.FrontFace {
	if face == engine.FrontFaceClockwise {
		return core1_0.FrontFaceClockwise
	}
	return core1_0.FrontFaceCounterClockwise
}

func blendFactor(factor engine.BlendFactor) core1_0.BlendFactor {
	switch factor {
	case engine.BlendFactorOne:
		return core1_0.BlendFactorOne
	case engine.BlendFactorSrcAlpha:
		return core1_0.BlendFactorSrcAlpha
	case engine.BlendFactorOneMinusSrcAlpha:
		return core1_0.BlendFactorOneMinusSrcAlpha
	}
	return core1_0.BlendFactorZero
}

func blendOp(op engine.BlendOp) core1_0.BlendOp {
	if op == engine.BlendOpSubtract {
		return core1_0.BlendOpSubtract
	}
	return core1_0.BlendOpAdd
}

func colorComponents(mask engine.ColorComponents) core1_0.ColorComponentFlags {
	var out core1_0.ColorComponentFlags
	if mask&engine.ColorComponentRed != 0 {
		out |= core1_0.ColorComponentRed
	}
	if mask&engine.ColorComponentGreen != 0 {
		out |= core1_0.ColorComponentGreen
	}
	if mask&engine.ColorComponentBlue != 0 {
		out |= core1_0.ColorComponentBlue
	}
	if mask&engine.ColorComponentAlpha != 0 {
		out |= core1_0.ColorComponentAlpha
	}
	return out
}

func presentMode(mode engine.PresentMode) khr_surface.PresentMode {
	return khr_surface.PresentMode(mode)
}
