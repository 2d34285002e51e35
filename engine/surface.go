package engine

// CreatePresentationSurface binds window to a driver presentation target.
func CreatePresentationSurface(instance Instance, window Window) (Surface, error) {
	surface, err := instance.CreateSurface(window)
	if err != nil {
		return nil, driverError(err, "create window surface")
	}
	return surface, nil
}

// SurfaceSupport is everything the driver reports about presenting a device to a
// surface. It is queried again each time an image chain is built.
type SurfaceSupport struct {
	Capabilities SurfaceCapabilities
	Formats      []SurfaceFormat
	PresentModes []PresentMode
}

func QuerySurfaceSupport(surface Surface, device PhysicalDevice) (SurfaceSupport, error) {
	var support SurfaceSupport
	var err error

	support.Capabilities, err = surface.Capabilities(device)
	if err != nil {
		return support, driverError(err, "query surface capabilities")
	}

	support.Formats, err = surface.Formats(device)
	if err != nil {
		return support, driverError(err, "query surface formats")
	}
	if len(support.Formats) == 0 {
		return support, configurationErrorf("surface reports no formats")
	}

	support.PresentModes, err = surface.PresentModes(device)
	if err != nil {
		return support, driverError(err, "query surface present modes")
	}
	if len(support.PresentModes) == 0 {
		return support, configurationErrorf("surface reports no present modes")
	}

	return support, nil
}
