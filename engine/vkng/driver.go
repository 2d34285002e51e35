// Package vkng implements the engine driver interfaces on top of vkngwrapper and SDL2.
package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2"

	"github.com/vkngwrapper/gameengine/engine"
)

const engineName = "gameengine"

// The portability enumeration extension has no package in the pinned extensions
// module, so its name and instance flag are spelled out here.
const (
	portabilityEnumerationExtension = "VK_KHR_portability_enumeration"

	// instanceCreateEnumeratePortability is VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR.
	instanceCreateEnumeratePortability core1_0.InstanceCreateFlags = 0x1
)

// Driver loads Vulkan through SDL. A window created with NewWindow must exist before
// NewDriver is called so SDL has loaded the Vulkan library.
type Driver struct {
	loader core.Loader
	log    logrus.FieldLogger
}

func NewDriver(log logrus.FieldLogger) (*Driver, error) {
	loader, err := core.CreateLoaderFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return nil, errors.Wrap(err, "create vulkan loader")
	}

	log.WithField("apiVersion", loader.APIVersion()).Debug("vulkan loader ready")
	return &Driver{loader: loader, log: log}, nil
}

func present[V any](available map[string]V) map[string]bool {
	out := make(map[string]bool, len(available))
	for name := range available {
		out[name] = true
	}
	return out
}

func (d *Driver) AvailableLayers() (map[string]bool, error) {
	layers, res, err := d.loader.AvailableLayers()
	if err := check(res, err); err != nil {
		return nil, err
	}
	return present(layers), nil
}

func (d *Driver) AvailableExtensions() (map[string]bool, error) {
	extensions, res, err := d.loader.AvailableExtensions()
	if err := check(res, err); err != nil {
		return nil, err
	}
	return present(extensions), nil
}

func (d *Driver) CreateInstance(options engine.InstanceOptions) (engine.Instance, error) {
	info := core1_0.InstanceCreateInfo{
		ApplicationName:    options.ApplicationName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         engineName,
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
		EnabledLayerNames:  options.Layers,
	}
	info.EnabledExtensionNames = append(info.EnabledExtensionNames, options.Extensions...)

	available, err := d.AvailableExtensions()
	if err != nil {
		return nil, err
	}

	if portability(options, available) {
		if !contains(info.EnabledExtensionNames, portabilityEnumerationExtension) {
			info.EnabledExtensionNames = append(info.EnabledExtensionNames, portabilityEnumerationExtension)
		}
		info.Flags |= instanceCreateEnumeratePortability
		d.log.Debug("enumerating portability drivers")
	}

	if options.Diagnostics != nil {
		info.Next = messengerCreateInfo(*options.Diagnostics)
	}

	handle, res, err := d.loader.CreateInstance(nil, info)
	if err := check(res, err); err != nil {
		return nil, err
	}

	return &instance{handle: handle, log: d.log}, nil
}

// portability reports whether portability drivers (MoltenVK) should be enumerated. They
// are only enumerated when asked for and offered by the loader.
func portability(options engine.InstanceOptions, available map[string]bool) bool {
	return options.Portability && available[portabilityEnumerationExtension]
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

type instance struct {
	handle core1_0.Instance
	log    logrus.FieldLogger
}

func (i *instance) Destroy() {
	i.handle.Destroy(nil)
}

func (i *instance) CreateMessenger(options engine.MessengerOptions) (engine.Messenger, error) {
	extension := ext_debug_utils.CreateExtensionFromInstance(i.handle)
	if extension == nil {
		return nil, errors.Newf("%s is not enabled on the instance", ext_debug_utils.ExtensionName)
	}

	messenger, res, err := extension.CreateDebugUtilsMessenger(i.handle, nil, messengerCreateInfo(options))
	if err := check(res, err); err != nil {
		return nil, err
	}
	return release(func() { messenger.Destroy(nil) }), nil
}

func (i *instance) CreateSurface(window engine.Window) (engine.Surface, error) {
	w, ok := window.(*Window)
	if !ok {
		return nil, foreign("window", window)
	}

	extension := khr_surface.CreateExtensionFromInstance(i.handle)
	if extension == nil {
		return nil, errors.Newf("%s is not enabled on the instance", khr_surface.ExtensionName)
	}

	handle, err := vkng_sdl2.CreateSurface(i.handle, extension, w.window)
	if err != nil {
		return nil, err
	}
	return &surface{handle: handle}, nil
}

func (i *instance) PhysicalDevices() ([]engine.PhysicalDevice, error) {
	handles, res, err := i.handle.EnumeratePhysicalDevices()
	if err := check(res, err); err != nil {
		return nil, err
	}

	devices := make([]engine.PhysicalDevice, 0, len(handles))
	for _, handle := range handles {
		devices = append(devices, &physicalDevice{handle: handle, log: i.log})
	}
	return devices, nil
}

// release adapts a destroy closure to the single-method handle interfaces.
type release func()

func (r release) Destroy() {
	r()
}
