package config

import (
	"fmt"
	"strings"
)

type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown configuration key %q (valid keys: %s)", e.Key, strings.Join(Keys(), ", "))
}

type InvalidValueError struct {
	Key    string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %s", e.Value, e.Key, e.Reason)
}
