package engine

// QueueFamilyIndices holds the chosen families; a nil index means none qualified.
type QueueFamilyIndices struct {
	GraphicsPresent *int
	Transfer        *int
}

// SelectQueueFamilies picks the first family that supports graphics and can present to
// surface, and a transfer family, preferring one without graphics support.
func SelectQueueFamilies(device PhysicalDevice, surface Surface) (QueueFamilyIndices, error) {
	var indices QueueFamilyIndices

	for index, family := range device.QueueFamilies() {
		if family.QueueCount == 0 {
			continue
		}

		if family.Flags&QueueGraphics != 0 {
			supported, err := surface.SupportsQueueFamily(device, index)
			if err != nil {
				return indices, driverError(err, "query surface support for queue family %d", index)
			}

			if supported {
				if indices.GraphicsPresent == nil {
					indices.GraphicsPresent = intPtr(index)
				}
				continue
			}
		}

		if family.Flags&QueueTransfer != 0 {
			if indices.Transfer == nil || family.Flags&QueueGraphics == 0 {
				indices.Transfer = intPtr(index)
			}
		}
	}

	return indices, nil
}

// Queues are the live queue handles of a device. Transfer aliases Graphics when no
// dedicated transfer family was found.
type Queues struct {
	Graphics Queue
	Transfer Queue
}

func intPtr(i int) *int {
	return &i
}
