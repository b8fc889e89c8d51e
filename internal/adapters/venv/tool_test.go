package venv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/adapters/venv"
)

func TestToolCommands(t *testing.T) {
	tool := venv.NewTool()

	assert.Equal(t, []string{"python3", "-m", "venv", "/opt/venv"}, tool.CreateCommand("/opt/venv"))
	assert.Equal(t, []string{"/opt/venv/bin/pip", "install", "--upgrade", "pip"}, tool.BootstrapCommand("/opt/venv"))
	assert.Equal(t,
		[]string{"/opt/venv/bin/pip", "install", "--no-cache-dir", "-r", "requirements.txt"},
		tool.InstallCommand("/opt/venv", "requirements.txt"),
	)
	assert.Equal(t, "/opt/venv/bin", tool.BinDir("/opt/venv"))
}

func TestToolCustomInterpreter(t *testing.T) {
	tool := venv.NewToolWithInterpreter("python3.12")

	assert.Equal(t, []string{"python3.12", "-m", "venv", "/opt/venv"}, tool.CreateCommand("/opt/venv"))
}
