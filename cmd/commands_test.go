package cmd_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/jsondump/jsondump/cmd"
	"github.com/jsondump/jsondump/pkg/environment"
	"github.com/jsondump/jsondump/pkg/logging"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T) *environment.Environment {
	t.Helper()
	env, err := environment.NewEnvironment(&environment.Environment{
		DataDir: "/data",
	})
	require.NoError(t, err)
	return env
}

func TestNewRootCommandMetadata(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := logging.NewTestLogger()

	root := cmd.NewRootCommand(fs, context.Background(), testEnv(t), logger)
	require.Equal(t, "jsondump", root.Use)

	names := make([]string, 0)
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "version")
}

func TestVersionCommandOutput(t *testing.T) {
	versionCmd := cmd.NewVersionCommand()

	out := &bytes.Buffer{}
	versionCmd.SetOut(out)
	versionCmd.SetArgs(nil)
	require.NoError(t, versionCmd.Execute())

	assert.Contains(t, out.String(), "jsondump dev")
}

func TestServeCommandCreatesStorageDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := logging.NewTestLogger()

	// Canceled context makes the server shut down immediately after startup.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := testEnv(t)
	env.Port = 0 // let the OS pick a free port

	serveCmd := cmd.NewServeCommand(fs, ctx, env, logger)
	serveCmd.SetArgs(nil)
	require.NoError(t, serveCmd.Execute())

	exists, err := afero.DirExists(fs, "/data")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestServeCommandRejectsInvalidConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := logging.NewTestLogger()

	env := testEnv(t)
	env.MaxPayloadSize = -1

	serveCmd := cmd.NewServeCommand(fs, context.Background(), env, logger)
	serveCmd.SetArgs(nil)
	assert.Error(t, serveCmd.Execute())
}
