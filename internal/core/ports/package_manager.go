package ports

// PackageManager renders the OS package manager commands for a build. The
// planner consumes the rendered argv lists; execution happens through the
// Executor. Keeping command construction behind this interface isolates the
// Debian specifics from the build procedure.
type PackageManager interface {
	// UpdateCommand refreshes the package index.
	UpdateCommand() []string

	// InstallCommand installs the given packages without recommended extras.
	InstallCommand(packages []string) []string

	// PurgeCommand removes the given packages and their now-unneeded
	// dependencies. Callers must pass only build-only packages; computing
	// the retain set is the recipe's job.
	PurgeCommand(packages []string) []string

	// CleanCommand drops the package index caches to shrink the image.
	CleanCommand() []string
}
