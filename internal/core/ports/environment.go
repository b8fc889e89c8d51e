package ports

// EnvironmentTool renders the commands that manage the isolated package
// environment (creation and manifest installs) and reports where its
// executables live.
type EnvironmentTool interface {
	// CreateCommand creates the isolated environment at the given path.
	CreateCommand(envPath string) []string

	// BootstrapCommand upgrades the environment's own installer before any
	// manifest is applied.
	BootstrapCommand(envPath string) []string

	// InstallCommand installs a dependency manifest into the environment.
	InstallCommand(envPath, manifest string) []string

	// BinDir returns the directory holding the environment's executables,
	// used to fix the image's search path.
	BinDir(envPath string) string
}
