package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"

	"github.com/vkngwrapper/gameengine/engine"
)

// check classifies a failed driver call. Lost surfaces and devices are marked
// engine.ErrResourceLost; everything else is left for the engine to mark as a plain
// driver call failure.
func check(res common.VkResult, err error) error {
	if err == nil {
		return nil
	}

	switch res {
	case khr_surface.VKErrorSurfaceLost, core1_0.VKErrorDeviceLost:
		return errors.Mark(err, engine.ErrResourceLost)
	}
	return err
}

// errForeignHandle is returned when a handle from another driver is passed in.
var errForeignHandle = errors.New("handle was not created by this driver")

func foreign(name string, value interface{}) error {
	return errors.Wrapf(errForeignHandle, "%s %T", name, value)
}
