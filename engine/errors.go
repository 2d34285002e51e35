package engine

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Every bootstrap failure is marked with exactly one of these.
var (
	// ErrConfiguration covers an unusable environment: no device, no qualifying queue
	// family, empty format or present-mode lists, invalid options.
	ErrConfiguration = errors.New("configuration error")
	// ErrDriverCall covers a driver operation that returned a failure status.
	ErrDriverCall = errors.New("driver call failed")
	// ErrResourceLost covers a surface or device that became invalid mid-bootstrap.
	ErrResourceLost = errors.New("resource lost")
)

type Stage string

const (
	StageInstance       Stage = "instance"
	StageDiagnostics    Stage = "diagnostics"
	StageSurface        Stage = "surface"
	StagePhysicalDevice Stage = "physical-device"
	StageQueueFamilies  Stage = "queue-families"
	StageDevice         Stage = "device"
	StageImageChain     Stage = "image-chain"
	StageRenderTarget   Stage = "render-target"
	StageFramebuffers   Stage = "framebuffers"
	StagePipeline       Stage = "pipeline"
)

// StageError is the single terminal error a failed bootstrap returns.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage reports the bootstrap stage an error came from.
func FailedStage(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}
	return "", false
}

func configurationErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrConfiguration)
}

// driverError marks err as a driver call failure unless it is already classified.
func driverError(err error, format string, args ...interface{}) error {
	wrapped := errors.Wrapf(err, format, args...)
	if errors.Is(err, ErrResourceLost) || errors.Is(err, ErrConfiguration) || errors.Is(err, ErrDriverCall) {
		return wrapped
	}
	return errors.Mark(wrapped, ErrDriverCall)
}

func stageError(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
