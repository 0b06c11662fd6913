package config

import "errors"

// validator collects validation errors.
type validator struct {
	errs []error
}

func (v *validator) add(path string, value any, msg string) {
	v.errs = append(v.errs, &ValidationError{Path: path, Value: value, Message: msg})
}

func (v *validator) nonNegative(path string, n int) {
	if n < 0 {
		v.add(path, n, "must not be negative")
	}
}

func (v *validator) err() error {
	return errors.Join(v.errs...)
}
