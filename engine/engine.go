// Package engine bootstraps a Vulkan rendering context: diagnostics, presentation
// surface, queue selection, logical device, image chain, render target and a fixed
// function pipeline. Every handle is owned by a GraphicsContext and released in the
// exact reverse of its creation order.
package engine

import (
	"github.com/google/uuid"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Config  Config
	Shaders ShaderSet

	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
	// Sink receives driver diagnostics. Defaults to a LogSink on Logger.
	Sink DiagnosticsSink
}

// GraphicsContext is the single owner of every driver handle created during bootstrap.
type GraphicsContext struct {
	id     uuid.UUID
	log    logrus.FieldLogger
	window Window

	instance       Instance
	diagnostics    *DiagnosticsChannel
	surface        Surface
	physicalDevice PhysicalDevice
	properties     PhysicalDeviceProperties
	queueFamilies  QueueFamilyIndices
	device         *DeviceContext
	chain          *ImageChain
	target         *RenderTarget
	pipeline       *GraphicsPipeline

	releases releaseStack
}

// New runs the whole bootstrap. It either returns a complete context or a *StageError
// naming the failed stage, in which case everything created so far has been released.
func New(driver Driver, window Window, options Options) (*GraphicsContext, error) {
	id := uuid.New()
	logger := options.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	c := &GraphicsContext{
		id:     id,
		log:    logger.WithField("context", id.String()),
		window: window,
	}

	sink := options.Sink
	if sink == nil {
		sink = LogSink{Logger: c.log.WithField("source", "driver")}
	}

	err := c.bootstrap(driver, options.Config, options.Shaders, sink)
	if err != nil {
		stage, _ := FailedStage(err)
		c.log.WithField("stage", stage).WithError(err).Error("bootstrap failed, releasing partial context")
		c.releases.unwind(nil)
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"device":  c.properties.Name,
		"handles": c.releases.len(),
	}).Info("graphics context ready")
	return c, nil
}

func (c *GraphicsContext) runStage(stage Stage, fn func() error) error {
	start := hrtime.Now()
	if err := fn(); err != nil {
		return stageError(stage, err)
	}

	c.log.WithFields(logrus.Fields{
		"stage":   stage,
		"elapsed": hrtime.Since(start),
	}).Debug("bootstrap stage complete")
	return nil
}

func (c *GraphicsContext) bootstrap(driver Driver, config Config, shaders ShaderSet, sink DiagnosticsSink) error {
	err := c.runStage(StageInstance, func() error {
		return c.createInstance(driver, config, sink)
	})
	if err != nil {
		return err
	}

	err = c.runStage(StageDiagnostics, func() error {
		var err error
		c.diagnostics, err = NewDiagnosticsChannel(c.instance, config.SeverityMask, config.CategoryMask, sink)
		if err != nil {
			return err
		}
		c.releases.push("debug-messenger", c.diagnostics.Destroy)
		return nil
	})
	if err != nil {
		return err
	}

	err = c.runStage(StageSurface, func() error {
		var err error
		c.surface, err = CreatePresentationSurface(c.instance, c.window)
		if err != nil {
			return err
		}
		c.releases.push("surface", c.surface.Destroy)
		return nil
	})
	if err != nil {
		return err
	}

	err = c.runStage(StagePhysicalDevice, c.pickPhysicalDevice)
	if err != nil {
		return err
	}

	err = c.runStage(StageQueueFamilies, func() error {
		var err error
		c.queueFamilies, err = SelectQueueFamilies(c.physicalDevice, c.surface)
		if err != nil {
			return err
		}
		if c.queueFamilies.GraphicsPresent == nil {
			return configurationErrorf("device %q has no queue family supporting graphics and presentation", c.properties.Name)
		}
		if c.queueFamilies.Transfer == nil {
			c.log.Debug("no dedicated transfer queue family, transfer work shares the graphics queue")
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = c.runStage(StageDevice, func() error {
		var err error
		c.device, err = CreateDeviceContext(c.physicalDevice, c.queueFamilies, config.EnabledLayers, config.DeviceExtensions)
		if err != nil {
			return err
		}
		c.releases.push("device", c.device.Device.Destroy)
		return nil
	})
	if err != nil {
		return err
	}

	err = c.runStage(StageImageChain, func() error {
		var err error
		c.chain, err = buildImageChain(c.log, &c.releases, c.surface, c.physicalDevice, c.device.Device, c.queueFamilies)
		return err
	})
	if err != nil {
		return err
	}

	err = c.runStage(StageRenderTarget, func() error {
		var err error
		c.target, err = buildRenderTarget(&c.releases, c.device.Device, c.chain.Config.Format, config.ClearColor)
		return err
	})
	if err != nil {
		return err
	}

	err = c.runStage(StageFramebuffers, func() error {
		return c.chain.createFramebuffers(&c.releases, c.device.Device, c.target.RenderPass)
	})
	if err != nil {
		return err
	}

	return c.runStage(StagePipeline, func() error {
		var err error
		c.pipeline, err = buildPipeline(&c.releases, c.device.Device, c.chain.Config.Extent, c.target, shaders)
		return err
	})
}

func (c *GraphicsContext) createInstance(driver Driver, config Config, sink DiagnosticsSink) error {
	if err := config.validate(); err != nil {
		return err
	}

	extensions := config.InstanceExtensions(c.window)
	available, err := driver.AvailableExtensions()
	if err != nil {
		return driverError(err, "enumerate instance extensions")
	}
	for _, extension := range extensions {
		if !available[extension] {
			return configurationErrorf("instance extension %s is not available", extension)
		}
	}

	if len(config.EnabledLayers) > 0 {
		layers, err := driver.AvailableLayers()
		if err != nil {
			return driverError(err, "enumerate instance layers")
		}
		for _, layer := range config.EnabledLayers {
			if !layers[layer] {
				return configurationErrorf("layer %s is not available, install the Vulkan SDK or disable it", layer)
			}
		}
	}

	diagnostics := messengerOptions(config.SeverityMask, config.CategoryMask, sink)
	c.instance, err = driver.CreateInstance(InstanceOptions{
		ApplicationName: config.ApplicationName,
		Layers:          config.EnabledLayers,
		Extensions:      extensions,
		Portability:     config.EnablePortability,
		Diagnostics:     &diagnostics,
	})
	if err != nil {
		return driverError(err, "create instance")
	}
	c.releases.push("instance", c.instance.Destroy)

	return nil
}

func (c *GraphicsContext) pickPhysicalDevice() error {
	devices, err := c.instance.PhysicalDevices()
	if err != nil {
		return driverError(err, "enumerate physical devices")
	}
	if len(devices) == 0 {
		return configurationErrorf("no physical device available")
	}

	c.physicalDevice = devices[0]
	c.properties, err = c.physicalDevice.Properties()
	if err != nil {
		return driverError(err, "get physical device properties")
	}

	c.log.WithFields(logrus.Fields{
		"name":     c.properties.Name,
		"vendorID": c.properties.VendorID,
		"deviceID": c.properties.DeviceID,
		"cache":    c.properties.PipelineCacheUUID.String(),
	}).Info("selected physical device")
	return nil
}

// Destroy releases every handle in reverse creation order. Calling it again is a no-op.
func (c *GraphicsContext) Destroy() {
	if c.releases.len() == 0 {
		return
	}

	c.releases.unwind(func(name string) {
		c.log.WithField("handle", name).Debug("releasing")
	})
	c.log.Info("graphics context destroyed")
}

// RequestRedraw forwards a redraw request to the window. No frame is submitted.
func (c *GraphicsContext) RequestRedraw() {
	c.window.RequestRedraw()
}

func (c *GraphicsContext) ID() uuid.UUID {
	return c.id
}

func (c *GraphicsContext) DeviceProperties() PhysicalDeviceProperties {
	return c.properties
}

func (c *GraphicsContext) QueueFamilies() QueueFamilyIndices {
	return c.queueFamilies
}

func (c *GraphicsContext) Queues() Queues {
	return c.device.Queues
}

func (c *GraphicsContext) ImageChain() *ImageChain {
	return c.chain
}

func (c *GraphicsContext) RenderTarget() *RenderTarget {
	return c.target
}

func (c *GraphicsContext) Pipeline() *GraphicsPipeline {
	return c.pipeline
}
