package engine

import (
	"github.com/sirupsen/logrus"
)

// ImageViewFormat is the format every chain image view is created with. It does not
// follow the negotiated chain format: drivers commonly accept the mismatch but it is
// not portable, so a differing chain format is reported instead of silently changed.
const ImageViewFormat = FormatB8G8R8A8SRGB

const preferredImageCount = 3

// ImageChainConfig is the negotiated shape of one image chain.
type ImageChainConfig struct {
	ImageCount  int
	Format      Format
	ColorSpace  ColorSpace
	Extent      Extent2D
	PresentMode PresentMode
	Transform   uint32
}

// ChooseImageCount asks for triple buffering, never below minCount and, when maxCount
// is non-zero, never above maxCount.
func ChooseImageCount(minCount, maxCount int) int {
	count := preferredImageCount
	if minCount > count {
		count = minCount
	}
	if maxCount > 0 && count > maxCount {
		count = maxCount
	}
	return count
}

// NegotiateImageChain derives a chain configuration from what the surface reports. The
// first reported format wins and the extent is the surface's current extent.
func NegotiateImageChain(support SurfaceSupport) (ImageChainConfig, error) {
	if len(support.Formats) == 0 {
		return ImageChainConfig{}, configurationErrorf("surface reports no formats")
	}
	if len(support.PresentModes) == 0 {
		return ImageChainConfig{}, configurationErrorf("surface reports no present modes")
	}

	caps := support.Capabilities
	format := support.Formats[0]

	return ImageChainConfig{
		ImageCount: ChooseImageCount(caps.MinImageCount, caps.MaxImageCount),
		Format:     format.Format,
		ColorSpace: format.ColorSpace,
		Extent:     caps.CurrentExtent,
		// FIFO is the one mode every driver must support.
		PresentMode: PresentModeFIFO,
		Transform:   caps.CurrentTransform,
	}, nil
}

// ImageChain is a swapchain plus one view and, once a render target exists, one
// framebuffer per image. Images belong to the swapchain; views and framebuffers are
// released individually before it.
type ImageChain struct {
	Config       ImageChainConfig
	Swapchain    Swapchain
	Images       []Image
	Views        []ImageView
	Framebuffers []Framebuffer
}

func buildImageChain(log logrus.FieldLogger, releases *releaseStack, surface Surface, physicalDevice PhysicalDevice, device Device, indices QueueFamilyIndices) (*ImageChain, error) {
	if indices.GraphicsPresent == nil {
		return nil, configurationErrorf("image chain needs a graphics/present queue family")
	}

	support, err := QuerySurfaceSupport(surface, physicalDevice)
	if err != nil {
		return nil, err
	}

	config, err := NegotiateImageChain(support)
	if err != nil {
		return nil, err
	}

	swapchain, err := device.CreateSwapchain(surface, SwapchainOptions{
		MinImageCount:    config.ImageCount,
		Format:           config.Format,
		ColorSpace:       config.ColorSpace,
		Extent:           config.Extent,
		QueueFamilies:    []int{*indices.GraphicsPresent},
		PreTransform:     config.Transform,
		PresentMode:      config.PresentMode,
		ExclusiveSharing: true,
	})
	if err != nil {
		return nil, driverError(err, "create swapchain")
	}
	releases.push("swapchain", swapchain.Destroy)

	images, err := swapchain.Images()
	if err != nil {
		return nil, driverError(err, "get swapchain images")
	}

	if config.Format != ImageViewFormat {
		log.WithFields(logrus.Fields{
			"chainFormat": config.Format,
			"viewFormat":  ImageViewFormat,
		}).Warn("image views use a different format than the image chain")
	}

	chain := &ImageChain{
		Config:    config,
		Swapchain: swapchain,
		Images:    images,
	}

	for index, image := range images {
		view, err := device.CreateImageView(ImageViewOptions{
			Image:  image,
			Format: ImageViewFormat,
		})
		if err != nil {
			return nil, driverError(err, "create image view %d", index)
		}
		releases.push("image-view", view.Destroy)
		chain.Views = append(chain.Views, view)
	}

	log.WithFields(logrus.Fields{
		"images": len(images),
		"format": config.Format,
		"width":  config.Extent.Width,
		"height": config.Extent.Height,
	}).Debug("image chain created")

	return chain, nil
}

// createFramebuffers binds every view to renderPass, sized to the chain extent.
func (c *ImageChain) createFramebuffers(releases *releaseStack, device Device, renderPass RenderPass) error {
	for index, view := range c.Views {
		framebuffer, err := device.CreateFramebuffer(FramebufferOptions{
			RenderPass:  renderPass,
			Attachments: []ImageView{view},
			Extent:      c.Config.Extent,
			Layers:      1,
		})
		if err != nil {
			return driverError(err, "create framebuffer %d", index)
		}
		releases.push("framebuffer", framebuffer.Destroy)
		c.Framebuffers = append(c.Framebuffers, framebuffer)
	}

	return nil
}
