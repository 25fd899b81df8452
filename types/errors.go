package types

import (
	"errors"
	"fmt"
)

var (
	ErrShapeMismatch      = errors.New("shape mismatch")
	ErrInvalidProbability = errors.New("invalid probability mass")
	ErrInvalidDiscount    = errors.New("invalid discount")
	ErrEmptyAffordance    = errors.New("state without affordable options")
	ErrUnknownOption      = errors.New("unknown option")
	ErrUnknownIntent      = errors.New("unknown intent")
	ErrInvalidParameter   = errors.New("invalid parameter")
)

// ConfigError reports a caller bug in the construction of the
// planning inputs. These are never retried.
type ConfigError struct {
	Kind error
	Msg  string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Kind }

func configErrorf(kind error, format string, args ...any) error {
	return &ConfigError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func ShapeErrorf(format string, args ...any) error {
	return configErrorf(ErrShapeMismatch, format, args...)
}

func ProbabilityErrorf(format string, args ...any) error {
	return configErrorf(ErrInvalidProbability, format, args...)
}

func DiscountErrorf(format string, args ...any) error {
	return configErrorf(ErrInvalidDiscount, format, args...)
}

func AffordanceErrorf(format string, args ...any) error {
	return configErrorf(ErrEmptyAffordance, format, args...)
}

func UnknownOptionErrorf(format string, args ...any) error {
	return configErrorf(ErrUnknownOption, format, args...)
}

func UnknownIntentErrorf(format string, args ...any) error {
	return configErrorf(ErrUnknownIntent, format, args...)
}

func ParameterErrorf(format string, args ...any) error {
	return configErrorf(ErrInvalidParameter, format, args...)
}
