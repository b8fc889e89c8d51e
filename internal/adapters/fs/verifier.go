package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Verifier = (*Verifier)(nil)

// Verifier checks the filesystem preconditions and postconditions of a
// build.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// VerifyInputs checks that every input of the step exists under root and
// is non-empty. A zero-byte manifest fails here instead of producing a
// silently empty environment at install time.
func (v *Verifier) VerifyInputs(root string, step *domain.Step) error {
	for _, input := range step.Inputs {
		path := filepath.Join(root, input.String())

		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return zerr.With(zerr.Wrap(domain.ErrInputNotFound, "step input missing"), "path", path)
			}
			return zerr.With(zerr.Wrap(err, "failed to stat input"), "path", path)
		}

		if !info.IsDir() && info.Size() == 0 {
			return zerr.With(zerr.Wrap(domain.ErrManifestEmpty, "step input is empty"), "path", path)
		}
	}
	return nil
}

// VerifyImage checks that all listed paths exist under root. It returns
// false without an error when a path is simply absent.
func (v *Verifier) VerifyImage(root string, paths []string) (bool, error) {
	for _, p := range paths {
		path := filepath.Join(root, p)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
		}
	}
	return true, nil
}
