// Package shell provides the shell executor adapter.
package shell

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec. It runs every command
// of a step in order and stops at the first failure.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the step's commands with the accumulated image environment.
// The environment is merged with the following priority (low to high):
//  1. os.Environ() (system base)
//  2. env (image environment produced so far)
//
// PATH gets special handling: the image PATH is prepended to the system
// PATH so freshly created tool directories win without hiding the host
// toolchain from the build.
func (e *Executor) Execute(ctx context.Context, step *domain.Step, root string, env []string) error {
	cmdEnv := resolveEnvironment(os.Environ(), env)

	for _, command := range step.Commands {
		if len(command) == 0 {
			continue
		}
		if err := e.runCommand(ctx, command, root, cmdEnv); err != nil {
			return zerr.With(err, "step", step.Name)
		}
	}

	return nil
}

func (e *Executor) runCommand(ctx context.Context, command []string, root string, cmdEnv []string) error {
	name := command[0]
	args := command[1:]

	// Resolve the executable against the merged PATH rather than the
	// process PATH, so environment bin directories are honored.
	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // recipe provided command

	// exec.CommandContext sets Args[0] to the executable path; restore the
	// name as invoked.
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}

	cmd.Dir = root
	cmd.Env = cmdEnv
	cmd.Stdout = e.stdout(ctx)
	cmd.Stderr = e.stderr(ctx)

	if err := cmd.Run(); err != nil {
		var exitCode int
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1 // unknown or signal
		}

		return zerr.With(
			zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode),
			"command", strings.Join(command, " "),
		)
	}

	return nil
}

// stdout returns the writer for command output. When a telemetry vertex is
// attached to the context the output streams there, otherwise to the logger.
func (e *Executor) stdout(ctx context.Context) io.Writer {
	if vtx := ports.VertexFromContext(ctx); vtx != nil {
		return vtx.Stdout()
	}
	return &logWriter{logger: e.logger, level: "info"}
}

func (e *Executor) stderr(ctx context.Context) io.Writer {
	if vtx := ports.VertexFromContext(ctx); vtx != nil {
		return vtx.Stderr()
	}
	return &logWriter{logger: e.logger, level: "error"}
}

// logWriter forwards command output to the logger line by line.
type logWriter struct {
	logger ports.Logger
	level  string
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	lines := strings.Split(strings.TrimSuffix(string(p), "\n"), "\n")
	for _, line := range lines {
		if w.level == "info" {
			w.logger.Info(line)
		} else {
			w.logger.Error(zerr.New(line))
		}
	}
	return len(p), nil
}

// resolveEnvironment merges the system environment with the image
// environment, prepending the image PATH.
func resolveEnvironment(sysEnv, imageEnv []string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	for _, entry := range imageEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				envMap[k] = v + string(os.PathListSeparator) + sysPath
			} else {
				envMap[k] = v
			}
		} else {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

var _ ports.Executor = (*Executor)(nil)
