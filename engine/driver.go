package engine

import (
	"github.com/google/uuid"
)

// The interfaces in this file are the only surface the engine uses to reach the GPU
// driver. Implementations live in engine/vkng; tests use a recording fake.

type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

type Format int32

// FormatB8G8R8A8SRGB matches VK_FORMAT_B8G8R8A8_SRGB.
const FormatB8G8R8A8SRGB Format = 50

type ColorSpace int32

type PresentMode int32

const (
	PresentModeImmediate PresentMode = iota
	PresentModeMailbox
	PresentModeFIFO
	PresentModeFIFORelaxed
)

type Extent2D struct {
	Width  int
	Height int
}

type QueueFamily struct {
	Flags      QueueFlags
	QueueCount int
}

type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

type SurfaceCapabilities struct {
	MinImageCount int
	// MaxImageCount is zero when the driver imposes no upper bound.
	MaxImageCount int

	CurrentExtent  Extent2D
	MinImageExtent Extent2D
	MaxImageExtent Extent2D

	SupportedTransforms     uint32
	CurrentTransform        uint32
	SupportedCompositeAlpha uint32
}

type PhysicalDeviceProperties struct {
	Name     string
	VendorID uint32
	DeviceID uint32

	PipelineCacheUUID uuid.UUID
}

type InstanceOptions struct {
	ApplicationName string
	Layers          []string
	Extensions      []string
	Portability     bool

	// Diagnostics, when set, is chained into instance creation so messages raised while
	// the instance itself is created or destroyed are delivered too.
	Diagnostics *MessengerOptions
}

type MessengerOptions struct {
	Severities Severity
	Categories Category
	Callback   func(severity Severity, category Category, message string)
}

type DeviceQueueOptions struct {
	FamilyIndex int
	Priorities  []float32
}

type DeviceOptions struct {
	Queues     []DeviceQueueOptions
	Layers     []string
	Extensions []string
}

type SwapchainOptions struct {
	MinImageCount    int
	Format           Format
	ColorSpace       ColorSpace
	Extent           Extent2D
	QueueFamilies    []int
	PreTransform     uint32
	PresentMode      PresentMode
	ExclusiveSharing bool
}

type ImageViewOptions struct {
	Image  Image
	Format Format
}

type FramebufferOptions struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Extent      Extent2D
	Layers      int
}

// Driver creates instances. It is the single entry point of a driver implementation.
type Driver interface {
	AvailableLayers() (map[string]bool, error)
	AvailableExtensions() (map[string]bool, error)
	CreateInstance(options InstanceOptions) (Instance, error)
}

type Instance interface {
	Destroy()
	CreateMessenger(options MessengerOptions) (Messenger, error)
	CreateSurface(window Window) (Surface, error)
	PhysicalDevices() ([]PhysicalDevice, error)
}

type Messenger interface {
	Destroy()
}

type Surface interface {
	Destroy()
	Capabilities(device PhysicalDevice) (SurfaceCapabilities, error)
	Formats(device PhysicalDevice) ([]SurfaceFormat, error)
	PresentModes(device PhysicalDevice) ([]PresentMode, error)
	SupportsQueueFamily(device PhysicalDevice, familyIndex int) (bool, error)
}

type PhysicalDevice interface {
	Properties() (PhysicalDeviceProperties, error)
	QueueFamilies() []QueueFamily
	CreateDevice(options DeviceOptions) (Device, error)
}

type Device interface {
	Destroy()
	Queue(familyIndex, queueIndex int) Queue
	CreateSwapchain(surface Surface, options SwapchainOptions) (Swapchain, error)
	CreateImageView(options ImageViewOptions) (ImageView, error)
	CreateRenderPass(options RenderPassOptions) (RenderPass, error)
	CreateFramebuffer(options FramebufferOptions) (Framebuffer, error)
	CreateShaderModule(code []uint32) (ShaderModule, error)
	CreatePipelineLayout() (PipelineLayout, error)
	CreateGraphicsPipeline(options GraphicsPipelineOptions) (Pipeline, error)
}

// Queue and Image are borrowed handles; their lifetime belongs to the device and the
// swapchain respectively.
type Queue interface{}
type Image interface{}

type Swapchain interface {
	Destroy()
	Images() ([]Image, error)
}

type ImageView interface{ Destroy() }
type Framebuffer interface{ Destroy() }
type RenderPass interface{ Destroy() }
type ShaderModule interface{ Destroy() }
type PipelineLayout interface{ Destroy() }
type Pipeline interface{ Destroy() }

// Window is the platform window a context presents to.
type Window interface {
	// RequiredExtensions lists the instance extensions the platform needs for surfaces.
	RequiredExtensions() []string
	RequestRedraw()
}
