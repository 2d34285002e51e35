package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_portability_subset"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"

	"github.com/vkngwrapper/gameengine/engine"
)

type physicalDevice struct {
	handle core1_0.PhysicalDevice
	log    logrus.FieldLogger
}

func (p *physicalDevice) Properties() (engine.PhysicalDeviceProperties, error) {
	props, err := p.handle.Properties()
	if err != nil {
		return engine.PhysicalDeviceProperties{}, err
	}

	return engine.PhysicalDeviceProperties{
		Name:              props.DriverName,
		VendorID:          props.VendorID,
		DeviceID:          props.DeviceID,
		PipelineCacheUUID: props.PipelineCacheUUID,
	}, nil
}

func (p *physicalDevice) QueueFamilies() []engine.QueueFamily {
	var families []engine.QueueFamily
	for _, family := range p.handle.QueueFamilyProperties() {
		families = append(families, engine.QueueFamily{
			Flags:      queueFlags(family.QueueFlags),
			QueueCount: family.QueueCount,
		})
	}
	return families
}

func (p *physicalDevice) CreateDevice(options engine.DeviceOptions) (engine.Device, error) {
	var queues []core1_0.DeviceQueueCreateInfo
	for _, queue := range options.Queues {
		queues = append(queues, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queue.FamilyIndex,
			QueuePriorities:  queue.Priorities,
		})
	}

	var extensions []string
	extensions = append(extensions, options.Extensions...)

	// Portability implementations must have the subset extension enabled if they
	// expose it.
	supported, res, err := p.handle.EnumerateDeviceExtensionProperties()
	if err := check(res, err); err != nil {
		return nil, err
	}
	if _, ok := supported[khr_portability_subset.ExtensionName]; ok && !contains(extensions, khr_portability_subset.ExtensionName) {
		extensions = append(extensions, khr_portability_subset.ExtensionName)
		p.log.Debug("enabling portability subset")
	}

	handle, res, err := p.handle.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queues,
		EnabledLayerNames:     options.Layers,
		EnabledExtensionNames: extensions,
	})
	if err := check(res, err); err != nil {
		return nil, err
	}

	return &device{handle: handle}, nil
}

type device struct {
	handle     core1_0.Device
	swapchains khr_swapchain.Extension
}

func (d *device) Destroy() {
	d.handle.Destroy(nil)
}

func (d *device) Queue(familyIndex, queueIndex int) engine.Queue {
	return d.handle.GetQueue(familyIndex, queueIndex)
}

func (d *device) CreateSwapchain(target engine.Surface, options engine.SwapchainOptions) (engine.Swapchain, error) {
	s, ok := target.(*surface)
	if !ok {
		return nil, foreign("surface", target)
	}

	if d.swapchains == nil {
		extension := khr_swapchain.CreateExtensionFromDevice(d.handle)
		if extension == nil {
			return nil, errors.Newf("%s is not enabled on the device", khr_swapchain.ExtensionName)
		}
		d.swapchains = extension
	}

	sharing := core1_0.SharingModeConcurrent
	if options.ExclusiveSharing {
		sharing = core1_0.SharingModeExclusive
	}

	handle, res, err := d.swapchains.CreateSwapchain(d.handle, nil, khr_swapchain.SwapchainCreateInfo{
		Surface: s.handle,

		MinImageCount:    options.MinImageCount,
		ImageFormat:      core1_0.Format(options.Format),
		ImageColorSpace:  khr_surface.ColorSpace(options.ColorSpace),
		ImageExtent:      vkExtent(options.Extent),
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharing,
		QueueFamilyIndices: options.QueueFamilies,

		PreTransform:   khr_surface.SurfaceTransformFlags(options.PreTransform),
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    presentMode(options.PresentMode),
		Clipped:        true,
	})
	if err := check(res, err); err != nil {
		return nil, err
	}

	return &swapchain{handle: handle}, nil
}

type swapchain struct {
	handle khr_swapchain.Swapchain
}

func (s *swapchain) Destroy() {
	s.handle.Destroy(nil)
}

func (s *swapchain) Images() ([]engine.Image, error) {
	images, res, err := s.handle.SwapchainImages()
	if err := check(res, err); err != nil {
		return nil, err
	}

	out := make([]engine.Image, 0, len(images))
	for _, image := range images {
		out = append(out, image)
	}
	return out, nil
}

type imageView struct {
	handle core1_0.ImageView
}

func (v *imageView) Destroy() {
	v.handle.Destroy(nil)
}

func (d *device) CreateImageView(options engine.ImageViewOptions) (engine.ImageView, error) {
	image, ok := options.Image.(core1_0.Image)
	if !ok {
		return nil, foreign("image", options.Image)
	}

	handle, res, err := d.handle.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    image,
		ViewType: core1_0.ImageViewType2D,
		Format:   core1_0.Format(options.Format),
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectColor,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	if err := check(res, err); err != nil {
		return nil, err
	}
	return &imageView{handle: handle}, nil
}

type renderPass struct {
	handle core1_0.RenderPass
}

func (r *renderPass) Destroy() {
	r.handle.Destroy(nil)
}

func (d *device) CreateRenderPass(options engine.RenderPassOptions) (engine.RenderPass, error) {
	handle, res, err := d.handle.CreateRenderPass(nil, renderPassCreateInfo(options))
	if err := check(res, err); err != nil {
		return nil, err
	}
	return &renderPass{handle: handle}, nil
}

func (d *device) CreateFramebuffer(options engine.FramebufferOptions) (engine.Framebuffer, error) {
	pass, ok := options.RenderPass.(*renderPass)
	if !ok {
		return nil, foreign("render pass", options.RenderPass)
	}

	var attachments []core1_0.ImageView
	for _, attachment := range options.Attachments {
		view, ok := attachment.(*imageView)
		if !ok {
			return nil, foreign("image view", attachment)
		}
		attachments = append(attachments, view.handle)
	}

	handle, res, err := d.handle.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
		RenderPass:  pass.handle,
		Layers:      options.Layers,
		Attachments: attachments,
		Width:       options.Extent.Width,
		Height:      options.Extent.Height,
	})
	if err := check(res, err); err != nil {
		return nil, err
	}
	return release(func() { handle.Destroy(nil) }), nil
}

type shaderModule struct {
	handle core1_0.ShaderModule
}

func (m *shaderModule) Destroy() {
	m.handle.Destroy(nil)
}

func (d *device) CreateShaderModule(code []uint32) (engine.ShaderModule, error) {
	handle, res, err := d.handle.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: code,
	})
	if err := check(res, err); err != nil {
		return nil, err
	}
	return &shaderModule{handle: handle}, nil
}

type pipelineLayout struct {
	handle core1_0.PipelineLayout
}

func (l *pipelineLayout) Destroy() {
	l.handle.Destroy(nil)
}

func (d *device) CreatePipelineLayout() (engine.PipelineLayout, error) {
	handle, res, err := d.handle.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{})
	if err := check(res, err); err != nil {
		return nil, err
	}
	return &pipelineLayout{handle: handle}, nil
}

func (d *device) CreateGraphicsPipeline(options engine.GraphicsPipelineOptions) (engine.Pipeline, error) {
	info, err := graphicsPipelineCreateInfo(options)
	if err != nil {
		return nil, err
	}

	pipelines, res, err := d.handle.CreateGraphicsPipelines(nil, nil, []core1_0.GraphicsPipelineCreateInfo{info})
	if err := check(res, err); err != nil {
		return nil, err
	}
	pipeline := pipelines[0]
	return release(func() { pipeline.Destroy(nil) }), nil
}

func graphicsPipelineCreateInfo(options engine.GraphicsPipelineOptions) (core1_0.GraphicsPipelineCreateInfo, error) {
	layout, ok := options.Layout.(*pipelineLayout)
	if !ok {
		return core1_0.GraphicsPipelineCreateInfo{}, foreign("pipeline layout", options.Layout)
	}
	pass, ok := options.RenderPass.(*renderPass)
	if !ok {
		return core1_0.GraphicsPipelineCreateInfo{}, foreign("render pass", options.RenderPass)
	}

	var stages []core1_0.PipelineShaderStageCreateInfo
	for _, stage := range options.Stages {
		module, ok := stage.Module.(*shaderModule)
		if !ok {
			return core1_0.GraphicsPipelineCreateInfo{}, foreign("shader module", stage.Module)
		}
		stages = append(stages, core1_0.PipelineShaderStageCreateInfo{
			Stage:  shaderStage(stage.Stage),
			Module: module.handle,
			Name:   stage.EntryPoint,
		})
	}

	viewport := &core1_0.PipelineViewportStateCreateInfo{}
	for _, v := range options.Viewports {
		viewport.Viewports = append(viewport.Viewports, core1_0.Viewport{
			X:        v.X,
			Y:        v.Y,
			Width:    v.Width,
			Height:   v.Height,
			MinDepth: v.MinDepth,
			MaxDepth: v.MaxDepth,
		})
	}
	for _, s := range options.Scissors {
		viewport.Scissors = append(viewport.Scissors, core1_0.Rect2D{
			Offset: core1_0.Offset2D{X: s.X, Y: s.Y},
			Extent: vkExtent(s.Extent),
		})
	}

	colorBlend := &core1_0.PipelineColorBlendStateCreateInfo{
		LogicOpEnabled: false,
		LogicOp:        core1_0.LogicOpCopy,
		BlendConstants: [4]float32{0, 0, 0, 0},
	}
	for _, attachment := range options.ColorBlend {
		colorBlend.Attachments = append(colorBlend.Attachments, core1_0.PipelineColorBlendAttachmentState{
			BlendEnabled:        attachment.BlendEnabled,
			SrcColorBlendFactor: blendFactor(attachment.SrcColorBlendFactor),
			DstColorBlendFactor: blendFactor(attachment.DstColorBlendFactor),
			ColorBlendOp:        blendOp(attachment.ColorBlendOp),
			SrcAlphaBlendFactor: blendFactor(attachment.SrcAlphaBlendFactor),
			DstAlphaBlendFactor: blendFactor(attachment.DstAlphaBlendFactor),
			AlphaBlendOp:        blendOp(attachment.AlphaBlendOp),
			ColorWriteMask:      colorComponents(attachment.ColorWriteMask),
		})
	}

	return core1_0.GraphicsPipelineCreateInfo{
		Stages: stages,
		// No vertex buffers are bound.
		VertexInputState: &core1_0.PipelineVertexInputStateCreateInfo{},
		InputAssemblyState: &core1_0.PipelineInputAssemblyStateCreateInfo{
			Topology:               topology(options.Topology),
			PrimitiveRestartEnable: false,
		},
		ViewportState: viewport,
		RasterizationState: &core1_0.PipelineRasterizationStateCreateInfo{
			DepthClampEnable:        false,
			RasterizerDiscardEnable: false,

			PolygonMode: polygonMode(options.Rasterization.PolygonMode),
			CullMode:    cullMode(options.Rasterization.CullMode),
			FrontFace:   frontFace(options.Rasterization.FrontFace),

			DepthBiasEnable: false,

			LineWidth: options.Rasterization.LineWidth,
		},
		MultisampleState: &core1_0.PipelineMultisampleStateCreateInfo{
			SampleShadingEnable:  false,
			RasterizationSamples: sampleCount(options.Samples),
			MinSampleShading:     1.0,
		},
		ColorBlendState:   colorBlend,
		Layout:            layout.handle,
		RenderPass:        pass.handle,
		Subpass:           options.Subpass,
		BasePipelineIndex: -1,
	}, nil
}
