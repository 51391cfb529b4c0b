// Package gcerrors defines the GrabCut core's argument-validation error
// taxonomy. Every sentinel here is a caller mistake, not an internal
// invariant violation — the core never recovers from one internally, it
// only ever reports it. Wrap and Wrapf add context to a sentinel with
// pkg/errors (GMM seeding and learning use them); Segment's image and mask
// validation errors are returned as the bare sentinels.
package gcerrors

import "github.com/pkg/errors"

var (
	// ErrEmptyImage is returned when the source image has no data.
	ErrEmptyImage = errors.New("image is empty")
	// ErrInvalidImageType is returned when the image is not 8-bit 3-channel.
	ErrInvalidImageType = errors.New("image must be 8-bit 3-channel (CV_8UC3)")
	// ErrInvalidMask is returned when the mask's type, size, or label values
	// don't match the image or the {BG,FG,PR_BG,PR_FG} encoding.
	ErrInvalidMask = errors.New("mask is invalid")
	// ErrInvalidModel is returned when a GMM parameter buffer is not shaped
	// 13*K float64s.
	ErrInvalidModel = errors.New("model must have 1x(13*componentsCount) float64 values")
	// ErrEmptySamples is returned when a k-means seeding pass has no
	// candidate colors to cluster.
	ErrEmptySamples = errors.New("sample set is empty")
	// ErrSingularCovariance is returned when a component's covariance is
	// still singular after white-noise regularization.
	ErrSingularCovariance = errors.New("covariance matrix is singular after regularization")
)

// Wrap attaches component context to a sentinel or any other error without
// discarding it — callers can still errors.Is against the sentinel.
func Wrap(err error, component string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, component)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
