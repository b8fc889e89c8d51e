// Package domain contains the core domain models for the image build procedure.
package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// Variant selects which flavor of the image is built.
type Variant string

const (
	// VariantStandard builds the plain application image.
	VariantStandard Variant = "standard"

	// VariantWeasyprint additionally installs the PDF-rendering runtime
	// libraries, pre-warms the font cache, and provisions a writable cache
	// directory for the runtime user.
	VariantWeasyprint Variant = "weasyprint"
)

// Manifests holds the paths of the dependency manifest files, relative to the
// build root. Base is mandatory; Dev is only consulted when the DEV build
// flag is truthy.
type Manifests struct {
	Base string
	Dev  string
}

// PackageSets groups the system-level packages by lifecycle.
//
// Runtime packages survive into the final image. Build packages exist only to
// compile the dependency manifests and are purged afterwards. Rendering
// packages are runtime packages that only the weasyprint variant installs.
type PackageSets struct {
	Runtime   []InternedString
	Build     []InternedString
	Rendering []InternedString
}

// UserSpec describes the non-privileged execution identity created in the
// image. The user never gets a home directory or a login shell.
type UserSpec struct {
	Name InternedString
}

// Recipe is the declarative description of a single image build. It is the
// parsed, validated form of kiln.yaml and is never mutated after loading.
type Recipe struct {
	Image     string
	BaseImage string
	Port      int
	WorkDir   string
	SourceDir string

	// EnvPath is the location of the isolated package environment.
	EnvPath string

	Variant   Variant
	Manifests Manifests
	Packages  PackageSets
	User      UserSpec

	// Env holds environment variables fixed into the image (e.g. the output
	// buffering flag). The executable search path is handled separately by
	// the path step.
	Env map[string]string

	// CacheDir is the font/asset cache directory granted to the runtime
	// user. Only meaningful for the weasyprint variant.
	CacheDir string
}

// Weasyprint reports whether the recipe builds the PDF-rendering variant.
func (r *Recipe) Weasyprint() bool {
	return r.Variant == VariantWeasyprint
}

// RuntimePackages returns every package that must survive the purge step:
// the runtime set plus, for the weasyprint variant, the rendering set.
func (r *Recipe) RuntimePackages() []InternedString {
	retained := slices.Clone(r.Packages.Runtime)
	if r.Weasyprint() {
		retained = append(retained, r.Packages.Rendering...)
	}
	return retained
}

// BuildOnlyPackages returns the packages to purge after all installs have
// completed: the build set minus anything the runtime still needs. The
// result is sorted for deterministic command rendering.
func (r *Recipe) BuildOnlyPackages() []InternedString {
	retained := make(map[InternedString]bool)
	for _, pkg := range r.RuntimePackages() {
		retained[pkg] = true
	}

	var purge []InternedString
	for _, pkg := range r.Packages.Build {
		if !retained[pkg] {
			purge = append(purge, pkg)
		}
	}

	slices.SortFunc(purge, func(a, b InternedString) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		default:
			return 0
		}
	})
	return slices.Compact(purge)
}

// Validate checks the structural invariants of a loaded recipe.
func (r *Recipe) Validate() error {
	if r.BaseImage == "" {
		return zerr.With(ErrInvalidRecipe, "reason", "base image reference is required")
	}
	if r.Manifests.Base == "" {
		return zerr.With(ErrInvalidRecipe, "reason", "base dependency manifest is required")
	}
	if r.Port <= 0 || r.Port > 65535 {
		return zerr.With(zerr.With(ErrInvalidRecipe, "reason", "port out of range"), "port", r.Port)
	}
	if r.User.Name.String() == "" {
		return zerr.With(ErrInvalidRecipe, "reason", "runtime user name is required")
	}

	switch r.Variant {
	case VariantStandard:
	case VariantWeasyprint:
		if r.CacheDir == "" {
			return zerr.With(ErrInvalidRecipe, "reason", "weasyprint variant requires a cache directory")
		}
		if len(r.Packages.Rendering) == 0 {
			return zerr.With(ErrInvalidRecipe, "reason", "weasyprint variant requires rendering packages")
		}
	default:
		return zerr.With(ErrUnknownVariant, "variant", string(r.Variant))
	}

	return nil
}
