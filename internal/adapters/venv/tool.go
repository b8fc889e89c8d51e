// Package venv renders the commands for the isolated Python package
// environment.
package venv

import (
	"path/filepath"

	"go.trai.ch/kiln/internal/core/ports"
)

const defaultInterpreter = "python3"

var _ ports.EnvironmentTool = (*Tool)(nil)

// Tool implements ports.EnvironmentTool using the venv module and pip.
type Tool struct {
	interpreter string
}

// NewTool creates a new Tool using the default interpreter.
func NewTool() *Tool {
	return &Tool{interpreter: defaultInterpreter}
}

// NewToolWithInterpreter creates a Tool bound to a specific interpreter
// binary, e.g. "python3.12".
func NewToolWithInterpreter(interpreter string) *Tool {
	return &Tool{interpreter: interpreter}
}

// CreateCommand creates the isolated environment at the given path.
func (t *Tool) CreateCommand(envPath string) []string {
	return []string{t.interpreter, "-m", "venv", envPath}
}

// BootstrapCommand upgrades the environment's own installer. Installing
// manifests with an outdated pip is a recurring source of resolver failures.
func (t *Tool) BootstrapCommand(envPath string) []string {
	return []string{t.pip(envPath), "install", "--upgrade", "pip"}
}

// InstallCommand installs a dependency manifest into the environment.
// The download cache is skipped; layers should not carry wheel archives.
func (t *Tool) InstallCommand(envPath, manifest string) []string {
	return []string{t.pip(envPath), "install", "--no-cache-dir", "-r", manifest}
}

// BinDir returns the directory holding the environment's executables.
func (t *Tool) BinDir(envPath string) string {
	return filepath.Join(envPath, "bin")
}

func (t *Tool) pip(envPath string) string {
	return filepath.Join(t.BinDir(envPath), "pip")
}
