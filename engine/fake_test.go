package engine

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// recorder logs every create and destroy the fake driver sees, in order.
type recorder struct {
	events []string
	fail   map[string]error

	liveShaders   int
	shadersMade   int
	lastSwapchain SwapchainOptions
	lastDevice    DeviceOptions
	lastInstance  InstanceOptions
	lastPipeline  GraphicsPipelineOptions
	lastPass      RenderPassOptions
	framebuffers  []FramebufferOptions
	views         []ImageViewOptions
}

func newRecorder() *recorder {
	return &recorder{fail: map[string]error{}}
}

func (r *recorder) call(name string) error {
	if err, ok := r.fail[name]; ok {
		return err
	}
	return nil
}

func (r *recorder) created(name string) {
	r.events = append(r.events, "create "+name)
}

func (r *recorder) destroyed(name string) {
	r.events = append(r.events, "destroy "+name)
}

func (r *recorder) filter(prefix string) []string {
	var out []string
	for _, event := range r.events {
		if strings.HasPrefix(event, prefix) {
			out = append(out, strings.TrimPrefix(event, prefix))
		}
	}
	return out
}

type fakeHandle struct {
	rec  *recorder
	name string
}

func (h *fakeHandle) Destroy() {
	h.rec.destroyed(h.name)
}

func (r *recorder) handle(name string) *fakeHandle {
	r.created(name)
	return &fakeHandle{rec: r, name: name}
}

type fakeShader struct {
	rec *recorder
}

func (s *fakeShader) Destroy() {
	s.rec.liveShaders--
}

type fakeWindow struct {
	extensions []string
	redraws    int
}

func (w *fakeWindow) RequiredExtensions() []string {
	return w.extensions
}

func (w *fakeWindow) RequestRedraw() {
	w.redraws++
}

type fakeDriver struct {
	rec        *recorder
	layers     map[string]bool
	extensions map[string]bool
	devices    []*fakePhysicalDevice
	surface    *fakeSurface
	messages   []MessengerOptions
}

// newFakeDriver returns a driver with one healthy device: a transfer-only family
// followed by a graphics family that can present.
func newFakeDriver() *fakeDriver {
	rec := newRecorder()
	return &fakeDriver{
		rec: rec,
		layers: map[string]bool{
			ValidationLayer: true,
		},
		extensions: map[string]bool{
			"VK_KHR_xlib_surface": true,
			DebugUtilsExtension:   true,
			SurfaceExtension:      true,
		},
		devices: []*fakePhysicalDevice{
			{
				rec:   rec,
				props: PhysicalDeviceProperties{Name: "Fake GPU", VendorID: 0x10de, DeviceID: 1},
				families: []QueueFamily{
					{Flags: QueueTransfer, QueueCount: 1},
					{Flags: QueueGraphics | QueueTransfer | QueueCompute, QueueCount: 1},
				},
			},
		},
		surface: &fakeSurface{
			rec: rec,
			caps: SurfaceCapabilities{
				MinImageCount: 2,
				MaxImageCount: 0,
				CurrentExtent: Extent2D{Width: 800, Height: 600},
			},
			formats: []SurfaceFormat{{Format: FormatB8G8R8A8SRGB}},
			modes:   []PresentMode{PresentModeFIFO, PresentModeMailbox},
			support: map[int]bool{1: true},
		},
	}
}

func (d *fakeDriver) AvailableLayers() (map[string]bool, error) {
	return d.layers, d.rec.call("AvailableLayers")
}

func (d *fakeDriver) AvailableExtensions() (map[string]bool, error) {
	return d.extensions, d.rec.call("AvailableExtensions")
}

func (d *fakeDriver) CreateInstance(options InstanceOptions) (Instance, error) {
	if err := d.rec.call("CreateInstance"); err != nil {
		return nil, err
	}
	d.rec.lastInstance = options
	return &fakeInstance{fakeHandle: d.rec.handle("instance"), driver: d}, nil
}

type fakeInstance struct {
	*fakeHandle
	driver *fakeDriver
}

func (i *fakeInstance) CreateMessenger(options MessengerOptions) (Messenger, error) {
	if err := i.rec.call("CreateMessenger"); err != nil {
		return nil, err
	}
	i.driver.messages = append(i.driver.messages, options)
	return i.rec.handle("debug-messenger"), nil
}

func (i *fakeInstance) CreateSurface(window Window) (Surface, error) {
	if err := i.rec.call("CreateSurface"); err != nil {
		return nil, err
	}
	i.rec.created("surface")
	return i.driver.surface, nil
}

func (i *fakeInstance) PhysicalDevices() ([]PhysicalDevice, error) {
	if err := i.rec.call("PhysicalDevices"); err != nil {
		return nil, err
	}
	var devices []PhysicalDevice
	for _, device := range i.driver.devices {
		devices = append(devices, device)
	}
	return devices, nil
}

type fakeSurface struct {
	rec     *recorder
	caps    SurfaceCapabilities
	formats []SurfaceFormat
	modes   []PresentMode
	support map[int]bool
	queried []int
}

func (s *fakeSurface) Destroy() {
	s.rec.destroyed("surface")
}

func (s *fakeSurface) Capabilities(device PhysicalDevice) (SurfaceCapabilities, error) {
	return s.caps, s.rec.call("Capabilities")
}

func (s *fakeSurface) Formats(device PhysicalDevice) ([]SurfaceFormat, error) {
	return s.formats, s.rec.call("Formats")
}

func (s *fakeSurface) PresentModes(device PhysicalDevice) ([]PresentMode, error) {
	return s.modes, s.rec.call("PresentModes")
}

func (s *fakeSurface) SupportsQueueFamily(device PhysicalDevice, familyIndex int) (bool, error) {
	if err := s.rec.call("SupportsQueueFamily"); err != nil {
		return false, err
	}
	s.queried = append(s.queried, familyIndex)
	return s.support[familyIndex], nil
}

type fakePhysicalDevice struct {
	rec      *recorder
	props    PhysicalDeviceProperties
	families []QueueFamily
}

func (p *fakePhysicalDevice) Properties() (PhysicalDeviceProperties, error) {
	return p.props, p.rec.call("Properties")
}

func (p *fakePhysicalDevice) QueueFamilies() []QueueFamily {
	return p.families
}

func (p *fakePhysicalDevice) CreateDevice(options DeviceOptions) (Device, error) {
	if err := p.rec.call("CreateDevice"); err != nil {
		return nil, err
	}
	p.rec.lastDevice = options
	return &fakeDevice{fakeHandle: p.rec.handle("device")}, nil
}

type fakeQueue struct {
	family int
}

type fakeImage struct {
	index int
}

type fakeDevice struct {
	*fakeHandle
}

func (d *fakeDevice) Queue(familyIndex, queueIndex int) Queue {
	return fakeQueue{family: familyIndex}
}

func (d *fakeDevice) CreateSwapchain(surface Surface, options SwapchainOptions) (Swapchain, error) {
	if err := d.rec.call("CreateSwapchain"); err != nil {
		return nil, err
	}
	d.rec.lastSwapchain = options
	return &fakeSwapchain{fakeHandle: d.rec.handle("swapchain"), count: options.MinImageCount}, nil
}

func (d *fakeDevice) CreateImageView(options ImageViewOptions) (ImageView, error) {
	if err := d.rec.call("CreateImageView"); err != nil {
		return nil, err
	}
	d.rec.views = append(d.rec.views, options)
	return d.rec.handle(fmt.Sprintf("image-view#%d", options.Image.(fakeImage).index)), nil
}

func (d *fakeDevice) CreateRenderPass(options RenderPassOptions) (RenderPass, error) {
	if err := d.rec.call("CreateRenderPass"); err != nil {
		return nil, err
	}
	d.rec.lastPass = options
	return d.rec.handle("render-pass"), nil
}

func (d *fakeDevice) CreateFramebuffer(options FramebufferOptions) (Framebuffer, error) {
	if err := d.rec.call("CreateFramebuffer"); err != nil {
		return nil, err
	}
	d.rec.framebuffers = append(d.rec.framebuffers, options)
	return d.rec.handle(fmt.Sprintf("framebuffer#%d", len(d.rec.framebuffers)-1)), nil
}

func (d *fakeDevice) CreateShaderModule(code []uint32) (ShaderModule, error) {
	if err := d.rec.call("CreateShaderModule"); err != nil {
		return nil, err
	}
	d.rec.liveShaders++
	d.rec.shadersMade++
	return &fakeShader{rec: d.rec}, nil
}

func (d *fakeDevice) CreatePipelineLayout() (PipelineLayout, error) {
	if err := d.rec.call("CreatePipelineLayout"); err != nil {
		return nil, err
	}
	return d.rec.handle("pipeline-layout"), nil
}

func (d *fakeDevice) CreateGraphicsPipeline(options GraphicsPipelineOptions) (Pipeline, error) {
	if err := d.rec.call("CreateGraphicsPipeline"); err != nil {
		return nil, err
	}
	d.rec.lastPipeline = options
	return d.rec.handle("pipeline"), nil
}

type fakeSwapchain struct {
	*fakeHandle
	count int
}

func (s *fakeSwapchain) Images() ([]Image, error) {
	if err := s.rec.call("Images"); err != nil {
		return nil, err
	}
	images := make([]Image, s.count)
	for i := range images {
		images[i] = fakeImage{index: i}
	}
	return images, nil
}

// testShaders is a pair of valid-length blobs; the fake driver never parses them.
var testShaders = ShaderSet{
	Vertex:   []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0},
	Fragment: []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0},
}

var errFakeFailure = errors.New("VK_ERROR_INITIALIZATION_FAILED")

// errFakeSurfaceLost is classified the way the vkng adapter classifies a lost surface.
var errFakeSurfaceLost = errors.Mark(errors.New("VK_ERROR_SURFACE_LOST_KHR"), ErrResourceLost)
