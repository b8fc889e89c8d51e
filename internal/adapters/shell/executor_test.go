package shell_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/shell"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestExecutor_Execute_MultiLineOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("line1").Times(1)
	mockLogger.EXPECT().Info("line2").Times(1)

	executor := shell.NewExecutor(mockLogger)

	step := &domain.Step{
		Name:     domain.NewInternedString("echo-lines"),
		Commands: [][]string{{"sh", "-c", "echo line1; echo line2"}},
	}

	err := executor.Execute(context.Background(), step, t.TempDir(), nil)
	require.NoError(t, err)
}

func TestExecutor_Execute_MultipleCommands(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("first").Times(1)
	mockLogger.EXPECT().Info("second").Times(1)

	executor := shell.NewExecutor(mockLogger)

	step := &domain.Step{
		Name: domain.NewInternedString("two-commands"),
		Commands: [][]string{
			{"sh", "-c", "echo first"},
			{"sh", "-c", "echo second"},
		},
	}

	err := executor.Execute(context.Background(), step, t.TempDir(), nil)
	require.NoError(t, err)
}

func TestExecutor_Execute_EnvironmentVariables(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("test-value-123").Times(1)

	executor := shell.NewExecutor(mockLogger)

	step := &domain.Step{
		Name:     domain.NewInternedString("env-step"),
		Commands: [][]string{{"sh", "-c", "echo $MY_TEST_VAR"}},
	}

	err := executor.Execute(context.Background(), step, t.TempDir(), []string{"MY_TEST_VAR=test-value-123"})
	require.NoError(t, err)
}

func TestExecutor_Execute_PathPrepended(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	var captured string
	mockLogger.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		captured = msg
	}).Times(1)

	executor := shell.NewExecutor(mockLogger)

	step := &domain.Step{
		Name:     domain.NewInternedString("path-step"),
		Commands: [][]string{{"sh", "-c", "echo $PATH"}},
	}

	err := executor.Execute(context.Background(), step, t.TempDir(), []string{"PATH=/opt/venv/bin"})
	require.NoError(t, err)

	// The image PATH wins, the system PATH stays reachable behind it.
	assert.True(t, len(captured) > len("/opt/venv/bin"))
	assert.Equal(t, "/opt/venv/bin", captured[:len("/opt/venv/bin")])
}

func TestExecutor_Execute_CommandFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	executor := shell.NewExecutor(mockLogger)

	step := &domain.Step{
		Name: domain.NewInternedString("fail-fast"),
		Commands: [][]string{
			{"sh", "-c", "exit 3"},
			{"sh", "-c", "echo never-reached"},
		},
	}

	err := executor.Execute(context.Background(), step, t.TempDir(), nil)
	require.Error(t, err)

	var zerrErr *zerr.Error
	require.ErrorAs(t, err, &zerrErr)
	assert.Equal(t, 3, zerrErr.Metadata()["exit_code"])
}

func TestExecutor_Execute_InvalidCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	executor := shell.NewExecutor(mockLogger)

	step := &domain.Step{
		Name:     domain.NewInternedString("invalid"),
		Commands: [][]string{{"nonexistent-command-xyz123"}},
	}

	err := executor.Execute(context.Background(), step, t.TempDir(), nil)
	require.Error(t, err)
}

func TestExecutor_Execute_EmptyCommands(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)

	executor := shell.NewExecutor(mockLogger)

	step := &domain.Step{
		Name:     domain.NewInternedString("metadata-only"),
		Commands: nil,
	}

	err := executor.Execute(context.Background(), step, t.TempDir(), nil)
	require.NoError(t, err)
}
