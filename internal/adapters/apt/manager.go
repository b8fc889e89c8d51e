// Package apt renders Debian apt-get commands for the build procedure.
package apt

import (
	"slices"

	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.PackageManager = (*Manager)(nil)

// Manager implements ports.PackageManager for Debian-based base images.
// It only constructs argv lists; execution happens through the shell
// executor so the rendered commands stay inspectable and testable.
type Manager struct{}

// NewManager creates a new PackageManager backed by apt-get.
func NewManager() *Manager {
	return &Manager{}
}

// UpdateCommand refreshes the package index.
func (m *Manager) UpdateCommand() []string {
	return []string{"apt-get", "update"}
}

// InstallCommand installs the given packages. Recommended extras are
// skipped to keep the layer small; the recipe enumerates everything the
// image needs. Package order is normalized for deterministic layer hashes.
func (m *Manager) InstallCommand(packages []string) []string {
	args := []string{"apt-get", "install", "-y", "--no-install-recommends"}
	return append(args, sortedUnique(packages)...)
}

// PurgeCommand removes the given build-only packages together with their
// automatically installed dependencies. The caller is responsible for
// keeping runtime libraries out of the list.
func (m *Manager) PurgeCommand(packages []string) []string {
	args := []string{"apt-get", "purge", "-y", "--auto-remove"}
	return append(args, sortedUnique(packages)...)
}

// CleanCommand drops the apt index caches. The glob requires a shell.
func (m *Manager) CleanCommand() []string {
	return []string{"sh", "-c", "rm -rf /var/lib/apt/lists/*"}
}

func sortedUnique(packages []string) []string {
	sorted := make([]string, len(packages))
	copy(sorted, packages)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
