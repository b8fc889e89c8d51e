package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/adapters/cas" //nolint:depguard // The store owns the state directory location
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.LayerHasher = (*Hasher)(nil)

// Hasher computes layer input hashes using XXHash.
type Hasher struct {
	walker *Walker

	// ignores keeps tool-owned files out of input walks. The layer store
	// rewrites its state directory after every build; hashing it would
	// invalidate any step whose inputs cover the build root.
	ignores []string
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{
		walker:  walker,
		ignores: []string{filepath.Base(cas.StateDir())},
	}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeStepHash computes a single hash covering the step definition, the
// build flag, and the content of the step's input files under root. Two
// builds with identical definitions and inputs produce identical hashes, so
// the result keys the layer cache.
func (h *Hasher) ComputeStepHash(step *domain.Step, flag domain.BuildFlag, root string) (string, error) {
	hasher := xxhash.New()

	h.hashStepDefinition(step, hasher)

	_, _ = hasher.WriteString(flag.String())
	_, _ = hasher.Write([]byte{0})

	if err := h.hashInputFiles(step, root, hasher); err != nil {
		return "", err
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// hashStepDefinition hashes the step's name, kind, commands, and mutation.
// The mutation participates so that metadata-only steps still produce a new
// layer when the recipe changes them.
func (h *Hasher) hashStepDefinition(step *domain.Step, hasher *xxhash.Digest) {
	_, _ = hasher.WriteString(step.Name.String())
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(string(step.Kind))
	_, _ = hasher.Write([]byte{0})

	for _, command := range step.Commands {
		for _, arg := range command {
			_, _ = hasher.WriteString(arg)
			_, _ = hasher.Write([]byte{0})
		}
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})

	for _, input := range step.Inputs {
		_, _ = hasher.WriteString(input.String())
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})

	h.hashMutation(&step.Mutation, hasher)
}

func (h *Hasher) hashMutation(m *domain.ImageMutation, hasher *xxhash.Digest) {
	_, _ = hasher.WriteString(m.BaseImage)
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(m.WorkDir)
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(fmt.Sprintf("%d", m.Port))
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(m.User)
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(m.PathPrefix)
	_, _ = hasher.Write([]byte{0})

	keys := make([]string, 0, len(m.Env))
	for k := range m.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, _ = hasher.WriteString(k)
		_, _ = hasher.Write([]byte{'='})
		_, _ = hasher.WriteString(m.Env[k])
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})
}

// hashInputFiles hashes the step's input files. Directories are expanded
// through the walker. File content hashes are computed concurrently, then
// folded into the digest in path order to keep the result deterministic.
func (h *Hasher) hashInputFiles(step *domain.Step, root string, hasher *xxhash.Digest) error {
	var files []string
	for _, input := range step.Inputs {
		path := filepath.Join(root, input.String())

		expanded, err := h.expandInput(path)
		if err != nil {
			return err
		}
		files = append(files, expanded...)
	}

	hashes := make([]uint64, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i, file := range files {
		g.Go(func() error {
			hash, err := h.ComputeFileHash(file)
			if err != nil {
				return err
			}
			hashes[i] = hash
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, file := range files {
		_, _ = hasher.WriteString(file)
		_, _ = hasher.Write([]byte{0})
		if err := binary.Write(hasher, binary.LittleEndian, hashes[i]); err != nil {
			return zerr.Wrap(err, "failed to write hash to digest")
		}
	}
	return nil
}

// expandInput resolves an input path to the list of files it covers. A
// missing path is retried as a glob pattern before being reported missing.
func (h *Hasher) expandInput(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		matches, globErr := filepath.Glob(path)
		if globErr == nil && len(matches) > 0 {
			var files []string
			for _, match := range matches {
				expanded, err := h.expandInput(match)
				if err != nil {
					return nil, err
				}
				files = append(files, expanded...)
			}
			return files, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrInputNotFound, "input not found"), "path", path)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	for file, err := range h.walker.WalkFiles(path, h.ignores) {
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}
