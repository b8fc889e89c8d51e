package domain

import "strings"

// BuildFlag is the boolean-like DEV build input. It is read exactly once per
// build and has no presence in the resulting image.
type BuildFlag bool

// ParseBuildFlag interprets a raw flag value. Only the exact string "true"
// (after trimming whitespace) is truthy; every other value, including the
// empty string, is falsy.
func ParseBuildFlag(raw string) BuildFlag {
	return BuildFlag(strings.TrimSpace(raw) == "true")
}

// String renders the flag back to its canonical wire form.
func (f BuildFlag) String() string {
	if f {
		return "true"
	}
	return "false"
}
