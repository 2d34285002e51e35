package vkng

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

// Window is an SDL window created with Vulkan support.
type Window struct {
	window      *sdl.Window
	id          uint32
	redrawEvent uint32

	push func(event sdl.Event) (bool, error)
	log  logrus.FieldLogger
}

// NewWindow opens a resizable Vulkan window. sdl.Init must already have been called
// from the main thread.
func NewWindow(title string, width, height int32, log logrus.FieldLogger) (*Window, error) {
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, width, height, sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, errors.Wrap(err, "create window")
	}

	id, err := window.GetID()
	if err != nil {
		_ = window.Destroy()
		return nil, errors.Wrap(err, "get window id")
	}

	redrawEvent := sdl.RegisterEvents(1)
	if redrawEvent == math.MaxUint32 {
		_ = window.Destroy()
		return nil, errors.New("register redraw event: no user event types left")
	}

	return &Window{
		window:      window,
		id:          id,
		redrawEvent: redrawEvent,
		push:        sdl.PushEvent,
		log:         log,
	}, nil
}

func (w *Window) RequiredExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

// RequestRedraw queues a redraw event for this window. It is safe to call from any
// goroutine. A full or filtered event queue drops the request.
func (w *Window) RequestRedraw() {
	_, err := w.push(&sdl.UserEvent{Type: w.redrawEvent, WindowID: w.id})
	if err != nil {
		w.log.WithError(err).Debug("redraw request dropped")
	}
}

// IsRedrawRequest reports whether event was queued by RequestRedraw.
func (w *Window) IsRedrawRequest(event sdl.Event) bool {
	user, ok := event.(*sdl.UserEvent)
	return ok && user.Type == w.redrawEvent
}

func (w *Window) Destroy() {
	_ = w.window.Destroy()
}
