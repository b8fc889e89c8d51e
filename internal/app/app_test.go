package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/apt"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/adapters/venv"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/planner"
	"go.trai.ch/kiln/internal/engine/runner"
	"go.uber.org/mock/gomock"
)

type appFixture struct {
	loader      *mocks.MockRecipeLoader
	executor    *mocks.MockExecutor
	hasher      *mocks.MockLayerHasher
	store       *mocks.MockLayerStore
	verifier    *mocks.MockVerifier
	imageWriter *mocks.MockImageWriter
	logger      *mocks.MockLogger
	app         *app.App
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &appFixture{
		loader:      mocks.NewMockRecipeLoader(ctrl),
		executor:    mocks.NewMockExecutor(ctrl),
		hasher:      mocks.NewMockLayerHasher(ctrl),
		store:       mocks.NewMockLayerStore(ctrl),
		verifier:    mocks.NewMockVerifier(ctrl),
		imageWriter: mocks.NewMockImageWriter(ctrl),
		logger:      mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	plnr := planner.NewPlanner(apt.NewManager(), venv.NewTool())
	rnr := runner.NewRunner(
		f.executor, f.hasher, f.store, f.verifier, telemetry.NewNoop(), f.logger,
	)
	f.app = app.New(f.loader, plnr, rnr, f.imageWriter, f.verifier, f.logger)
	return f
}

func testRecipe() *domain.Recipe {
	return &domain.Recipe{
		Image:     "webapp",
		BaseImage: "python:3.12-slim-bookworm",
		Port:      8000,
		WorkDir:   "/app",
		SourceDir: ".",
		EnvPath:   "/opt/venv",
		Variant:   domain.VariantStandard,
		Manifests: domain.Manifests{Base: "requirements.txt", Dev: "requirements-dev.txt"},
		Packages: domain.PackageSets{
			Runtime: domain.NewInternedStrings([]string{"libpq5"}),
			Build:   domain.NewInternedStrings([]string{"build-essential", "libpq-dev"}),
		},
		User: domain.UserSpec{Name: domain.NewInternedString("appuser")},
	}
}

func expectSuccessfulRun(f *appFixture, executedSteps *[]string) {
	f.verifier.EXPECT().VerifyInputs(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.hasher.EXPECT().ComputeStepHash(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("aaaaaaaaaaaaaaaa", nil).AnyTimes()
	f.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	f.store.EXPECT().Put(gomock.Any()).Return(nil).AnyTimes()
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, step *domain.Step, _ string, _ []string) error {
			*executedSteps = append(*executedSteps, step.Name.String())
			return nil
		}).AnyTimes()
	f.verifier.EXPECT().VerifyImage(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
}

func TestAppRun_Prod(t *testing.T) {
	f := newAppFixture(t)

	f.loader.EXPECT().Load("kiln.yaml").Return(testRecipe(), nil)
	f.loader.EXPECT().BuildArgs(".").Return(map[string]string{}, nil)

	var executed []string
	expectSuccessfulRun(f, &executed)

	var written *domain.ImageConfig
	f.imageWriter.EXPECT().WriteImage(gomock.Any()).DoAndReturn(func(cfg *domain.ImageConfig) error {
		written = cfg
		return nil
	})

	err := f.app.Run(context.Background(), app.BuildOptions{
		RecipePath: "kiln.yaml",
		Root:       ".",
	})
	require.NoError(t, err)

	assert.NotContains(t, executed, "dev-packages")
	require.NotNil(t, written)
	assert.Equal(t, "appuser", written.User)
	assert.Equal(t, 8000, written.ExposedPort)
}

func TestAppRun_DevFlagFromEnvironment(t *testing.T) {
	f := newAppFixture(t)

	f.loader.EXPECT().Load("kiln.yaml").Return(testRecipe(), nil)
	f.loader.EXPECT().BuildArgs(".").Return(map[string]string{"DEV": "true"}, nil)
	f.imageWriter.EXPECT().WriteImage(gomock.Any()).Return(nil)

	var executed []string
	expectSuccessfulRun(f, &executed)

	err := f.app.Run(context.Background(), app.BuildOptions{
		RecipePath: "kiln.yaml",
		Root:       ".",
	})
	require.NoError(t, err)

	assert.Contains(t, executed, "dev-packages")
}

func TestAppRun_CLIFlagWinsOverEnvironment(t *testing.T) {
	f := newAppFixture(t)

	// BuildArgs is never consulted when the flag is explicit.
	f.loader.EXPECT().Load("kiln.yaml").Return(testRecipe(), nil)
	f.imageWriter.EXPECT().WriteImage(gomock.Any()).Return(nil)

	var executed []string
	expectSuccessfulRun(f, &executed)

	err := f.app.Run(context.Background(), app.BuildOptions{
		RecipePath: "kiln.yaml",
		Root:       ".",
		DevFlag:    "true",
	})
	require.NoError(t, err)

	assert.Contains(t, executed, "dev-packages")
}

func TestAppRun_FailedBuildWritesNoSnapshot(t *testing.T) {
	f := newAppFixture(t)

	f.loader.EXPECT().Load("kiln.yaml").Return(testRecipe(), nil)
	f.loader.EXPECT().BuildArgs(".").Return(map[string]string{}, nil)
	f.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	f.verifier.EXPECT().VerifyInputs(gomock.Any(), gomock.Any()).
		Return(domain.ErrManifestEmpty)

	// WriteImage must never be called.

	err := f.app.Run(context.Background(), app.BuildOptions{
		RecipePath: "kiln.yaml",
		Root:       ".",
	})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
}

func TestAppDescribe(t *testing.T) {
	f := newAppFixture(t)

	f.loader.EXPECT().Load("kiln.yaml").Return(testRecipe(), nil)
	f.loader.EXPECT().BuildArgs(".").Return(map[string]string{}, nil)

	plan, err := f.app.Describe(app.BuildOptions{RecipePath: "kiln.yaml", Root: "."})
	require.NoError(t, err)

	assert.Equal(t, 10, plan.Len())
}
