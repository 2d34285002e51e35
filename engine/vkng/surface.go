package vkng

import (
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"

	"github.com/vkngwrapper/gameengine/engine"
)

type surface struct {
	handle khr_surface.Surface
}

func (s *surface) Destroy() {
	s.handle.Destroy(nil)
}

func physicalHandle(device engine.PhysicalDevice) (core1_0.PhysicalDevice, error) {
	p, ok := device.(*physicalDevice)
	if !ok {
		return nil, foreign("physical device", device)
	}
	return p.handle, nil
}

func (s *surface) Capabilities(device engine.PhysicalDevice) (engine.SurfaceCapabilities, error) {
	physical, err := physicalHandle(device)
	if err != nil {
		return engine.SurfaceCapabilities{}, err
	}

	caps, res, err := s.handle.PhysicalDeviceSurfaceCapabilities(physical)
	if err := check(res, err); err != nil {
		return engine.SurfaceCapabilities{}, err
	}

	return engine.SurfaceCapabilities{
		MinImageCount:           caps.MinImageCount,
		MaxImageCount:           caps.MaxImageCount,
		CurrentExtent:           extent(caps.CurrentExtent),
		MinImageExtent:          extent(caps.MinImageExtent),
		MaxImageExtent:          extent(caps.MaxImageExtent),
		SupportedTransforms:     uint32(caps.SupportedTransforms),
		CurrentTransform:        uint32(caps.CurrentTransform),
		SupportedCompositeAlpha: uint32(caps.SupportedCompositeAlpha),
	}, nil
}

func (s *surface) Formats(device engine.PhysicalDevice) ([]engine.SurfaceFormat, error) {
	physical, err := physicalHandle(device)
	if err != nil {
		return nil, err
	}

	formats, res, err := s.handle.PhysicalDeviceSurfaceFormats(physical)
	if err := check(res, err); err != nil {
		return nil, err
	}

	out := make([]engine.SurfaceFormat, 0, len(formats))
	for _, format := range formats {
		out = append(out, engine.SurfaceFormat{
			Format:     engine.Format(format.Format),
			ColorSpace: engine.ColorSpace(format.ColorSpace),
		})
	}
	return out, nil
}

func (s *surface) PresentModes(device engine.PhysicalDevice) ([]engine.PresentMode, error) {
	physical, err := physicalHandle(device)
	if err != nil {
		return nil, err
	}

	modes, res, err := s.handle.PhysicalDeviceSurfacePresentModes(physical)
	if err := check(res, err); err != nil {
		return nil, err
	}

	out := make([]engine.PresentMode, 0, len(modes))
	for _, mode := range modes {
		out = append(out, engine.PresentMode(mode))
	}
	return out, nil
}

func (s *surface) SupportsQueueFamily(device engine.PhysicalDevice, familyIndex int) (bool, error) {
	physical, err := physicalHandle(device)
	if err != nil {
		return false, err
	}

	supported, res, err := s.handle.PhysicalDeviceSurfaceSupport(physical, familyIndex)
	if err := check(res, err); err != nil {
		return false, err
	}
	return supported, nil
}
