package engine

// DeviceContext is a logical device and the queues retrieved from it.
type DeviceContext struct {
	Device Device
	Queues Queues
}

// CreateDeviceContext opens a logical device with one queue from the graphics/present
// family and, when it is a different family, one from the transfer family.
func CreateDeviceContext(physicalDevice PhysicalDevice, indices QueueFamilyIndices, layers, extensions []string) (*DeviceContext, error) {
	if indices.GraphicsPresent == nil {
		return nil, configurationErrorf("no queue family supports both graphics and presentation")
	}

	graphicsFamily := *indices.GraphicsPresent
	families := []int{graphicsFamily}
	transferFamily := graphicsFamily
	if indices.Transfer != nil && *indices.Transfer != graphicsFamily {
		transferFamily = *indices.Transfer
		families = append(families, transferFamily)
	}

	var queueOptions []DeviceQueueOptions
	for _, family := range families {
		queueOptions = append(queueOptions, DeviceQueueOptions{
			FamilyIndex: family,
			Priorities:  []float32{1.0},
		})
	}

	device, err := physicalDevice.CreateDevice(DeviceOptions{
		Queues:     queueOptions,
		Layers:     layers,
		Extensions: extensions,
	})
	if err != nil {
		return nil, driverError(err, "create logical device")
	}

	return &DeviceContext{
		Device: device,
		Queues: Queues{
			Graphics: device.Queue(graphicsFamily, 0),
			Transfer: device.Queue(transferFamily, 0),
		},
	}, nil
}
