package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repocache/internal/logger"
)

func TestRootCmd_HasCommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"source", "refresh", "show", "status", "settings", "daemon", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	defer logger.SetVerbose(false)

	_, err := execute(t, "--verbose", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	defer func() { version = originalVersion }()
	SetVersion("1.2.3")

	out, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "repocache version 1.2.3")
}

func TestSetVersion_IgnoresEmpty(t *testing.T) {
	originalVersion := version
	defer func() { version = originalVersion }()
	version = "dev"

	SetVersion("")

	assert.Equal(t, "dev", version)
}

func TestConfigure(t *testing.T) {
	sources := &mockSourceService{}
	sched := &mockScheduler{}

	withServices(t, Services{Sources: sources, Scheduler: sched})

	assert.Same(t, sources, sourceService)
	assert.Same(t, sched, refreshScheduler)
	assert.Nil(t, settingsService)
	assert.Nil(t, configWatcher)
}
