package domain

import (
	"sort"
	"time"
)

// DefaultSearchPath is the executable search path the base image starts with.
const DefaultSearchPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// ImageConfig is the accumulating configuration snapshot of the image under
// construction. Steps mutate it through ApplyMutation; once the build
// completes it is written out as an immutable JSON document.
type ImageConfig struct {
	BaseImage   string            `json:"base_image,omitzero"`
	WorkDir     string            `json:"workdir,omitzero"`
	ExposedPort int               `json:"exposed_port,omitzero"`
	Env         map[string]string `json:"env,omitzero"`
	User        string            `json:"user,omitzero"`
	CreatedAt   time.Time         `json:"created_at,omitzero"`
}

// NewImageConfig returns an ImageConfig with the default search path set.
func NewImageConfig() *ImageConfig {
	return &ImageConfig{
		Env: map[string]string{"PATH": DefaultSearchPath},
	}
}

// ApplyMutation merges a step's mutation into the configuration. PathPrefix
// is prepended to the current search path so that later steps (and the
// eventual runtime process) resolve executables from the isolated
// environment first.
func (c *ImageConfig) ApplyMutation(m ImageMutation) {
	if m.BaseImage != "" {
		c.BaseImage = m.BaseImage
	}
	if m.WorkDir != "" {
		c.WorkDir = m.WorkDir
	}
	if m.Port != 0 {
		c.ExposedPort = m.Port
	}
	if m.User != "" {
		c.User = m.User
	}
	if c.Env == nil {
		c.Env = make(map[string]string)
	}
	for k, v := range m.Env {
		c.Env[k] = v
	}
	if m.PathPrefix != "" {
		current := c.Env["PATH"]
		if current == "" {
			current = DefaultSearchPath
		}
		c.Env["PATH"] = m.PathPrefix + ":" + current
	}
}

// EnvSlice renders the image environment as sorted "KEY=VALUE" strings
// suitable for process execution.
func (c *ImageConfig) EnvSlice() []string {
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k+"="+c.Env[k])
	}
	return result
}
