package config

// Recipefile represents the structure of the kiln.yaml recipe file.
type Recipefile struct {
	Version     string            `yaml:"version"`
	Image       string            `yaml:"image"`
	Base        string            `yaml:"base"`
	Port        int               `yaml:"port"`
	WorkDir     string            `yaml:"workdir"`
	Source      string            `yaml:"source"`
	Environment string            `yaml:"environment"`
	Variant     string            `yaml:"variant"`
	Manifests   ManifestsDTO      `yaml:"manifests"`
	Packages    PackagesDTO       `yaml:"packages"`
	User        UserDTO           `yaml:"user"`
	Env         map[string]string `yaml:"env"`
	CacheDir    string            `yaml:"cacheDir"`
}

// ManifestsDTO names the dependency manifest files.
type ManifestsDTO struct {
	Base string `yaml:"base"`
	Dev  string `yaml:"dev"`
}

// PackagesDTO groups the system package sets.
type PackagesDTO struct {
	Runtime   []string `yaml:"runtime"`
	Build     []string `yaml:"build"`
	Rendering []string `yaml:"rendering"`
}

// UserDTO describes the runtime user.
type UserDTO struct {
	Name string `yaml:"name"`
}
