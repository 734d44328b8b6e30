package board

import (
	"errors"
	"fmt"
)

// Violations reported by Validate. Each ConfigError wraps exactly one.
var (
	ErrNonPositive       = errors.New("size and band range must be positive")
	ErrEvenSize          = errors.New("size must be odd so FREE sits in the center")
	ErrSizeTooSmall      = errors.New("size is below the minimum")
	ErrSizeTooLarge      = errors.New("size is above the maximum")
	ErrBandRangeTooSmall = errors.New("band range must be at least twice the size")
)

// ConfigError describes an invalid board configuration.
type ConfigError struct {
	Size      int
	BandRange int
	Err       error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid board configuration (size=%d, band range=%d): %v", e.Size, e.BandRange, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Validate checks size and bandRange, returning a *ConfigError for the first
// violated constraint.
func Validate(size, bandRange int) error {
	var err error
	switch {
	case size <= 0 || bandRange <= 0:
		err = ErrNonPositive
	case size%2 == 0:
		err = ErrEvenSize
	case size < MinSize:
		err = fmt.Errorf("%w: %d < %d", ErrSizeTooSmall, size, MinSize)
	case size > MaxSize:
		err = fmt.Errorf("%w: %d > %d", ErrSizeTooLarge, size, MaxSize)
	case bandRange < 2*size:
		err = fmt.Errorf("%w: %d < %d", ErrBandRangeTooSmall, bandRange, 2*size)
	default:
		return nil
	}
	return &ConfigError{Size: size, BandRange: bandRange, Err: err}
}
