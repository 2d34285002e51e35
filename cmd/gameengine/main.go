// Command gameengine opens a window, bootstraps a Vulkan rendering context on it and
// waits for the window to be closed.
package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/gameengine/config"
	"github.com/vkngwrapper/gameengine/engine"
	"github.com/vkngwrapper/gameengine/engine/vkng"
	"github.com/vkngwrapper/gameengine/shaders"
)

const (
	windowWidth  = 800
	windowHeight = 600

	// idleTimeout is in milliseconds, roughly one 60Hz frame.
	idleTimeout = 16
)

func init() {
	// SDL and the Vulkan surface calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	envPath := flag.String("env", "", "dotenv file applied before the process environment")
	flag.Parse()

	err := run(*configPath, *envPath)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
}

func run(configPath, envPath string) error {
	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	logger.SetLevel(level)

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "initialize sdl")
	}
	defer sdl.Quit()

	window, err := vkng.NewWindow(cfg.ApplicationName, windowWidth, windowHeight, logger)
	if err != nil {
		return err
	}
	defer window.Destroy()

	driver, err := vkng.NewDriver(logger)
	if err != nil {
		return err
	}

	shaderSet, err := shaders.Load()
	if err != nil {
		return err
	}

	ctx, err := engine.New(driver, window, engine.Options{
		Config:  cfg,
		Shaders: shaderSet,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer ctx.Destroy()

	loop(ctx, window, logger)
	return nil
}

// loop waits for window events until the window is closed. Whenever the queue stays
// empty for idleTimeout the context is asked for a redraw; frames are never submitted.
func loop(ctx *engine.GraphicsContext, window *vkng.Window, logger *logrus.Logger) {
	entry := logger.WithField("context", ctx.ID().String())

	for {
		event := sdl.WaitEventTimeout(idleTimeout)
		if event == nil {
			ctx.RequestRedraw()
			continue
		}

		switch event.(type) {
		case *sdl.QuitEvent:
			return
		default:
			if window.IsRedrawRequest(event) {
				entry.Trace("redraw requested")
			}
		}
	}
}
