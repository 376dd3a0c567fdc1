package core

import (
	"errors"
)

var (
	// ErrSwapchainOutOfDate is returned by a renderer backend when the surface
	// no longer matches the swapchain. The renderer must be recreated.
	ErrSwapchainOutOfDate = errors.New("swapchain out of date, recreation required")
	// ErrAcquireTimeout is returned when no swapchain image became available
	// within the acquire timeout. The frame is skipped.
	ErrAcquireTimeout = errors.New("swapchain image acquisition timed out")
	ErrUnknown        = errors.New("unknown")
)
