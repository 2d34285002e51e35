package engine

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	ValidationLayer        = "VK_LAYER_KHRONOS_validation"
	DebugUtilsExtension    = "VK_EXT_debug_utils"
	SurfaceExtension       = "VK_KHR_surface"
	SwapchainExtension     = "VK_KHR_swapchain"
	DefaultApplicationName = "gameengine"
	DefaultLogLevel        = "info"
)

// Config is the recognized set of bootstrap options.
type Config struct {
	ApplicationName string

	// EnabledLayers are requested on both the instance and the device.
	EnabledLayers []string
	// EnabledExtensions are instance extensions requested in addition to the fixed set
	// (window-required, debug utils, surface).
	EnabledExtensions []string
	DeviceExtensions  []string

	SeverityMask Severity
	CategoryMask Category

	ClearColor mgl32.Vec4
	LogLevel   string

	// EnablePortability lets the driver enumerate portability implementations such as
	// MoltenVK when the loader offers them.
	EnablePortability bool
}

func DefaultConfig() Config {
	return Config{
		ApplicationName:   DefaultApplicationName,
		EnabledLayers:     []string{ValidationLayer},
		DeviceExtensions:  []string{SwapchainExtension},
		SeverityMask:      SeverityAll,
		CategoryMask:      CategoryAll,
		ClearColor:        mgl32.Vec4{0, 0, 0, 1},
		LogLevel:          DefaultLogLevel,
		EnablePortability: true,
	}
}

// InstanceExtensions returns the fixed extension set followed by any extra requested
// names, without duplicates.
func (c Config) InstanceExtensions(window Window) []string {
	var names []string
	if window != nil {
		names = append(names, window.RequiredExtensions()...)
	}
	names = append(names, DebugUtilsExtension, SurfaceExtension)
	names = append(names, c.EnabledExtensions...)
	return dedupe(names)
}

func (c Config) validate() error {
	if c.SeverityMask&SeverityAll == 0 {
		return configurationErrorf("diagnostics severity mask is empty")
	}
	if c.CategoryMask&CategoryAll == 0 {
		return configurationErrorf("diagnostics category mask is empty")
	}
	return nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0:0]
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
