package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Executes(t *testing.T) {
	env := setupCLI(t)
	originalVersion := version
	defer func() { version = originalVersion }()
	SetVersion("1.2.0")

	err := env.run("version")

	require.NoError(t, err)
	assert.Equal(t, "pitrseek version 1.2.0 ("+runtime.GOOS+"/"+runtime.GOARCH+")\n", env.stdout.String())
}

func TestSetVersion_IgnoresEmpty(t *testing.T) {
	originalVersion := version
	defer func() { version = originalVersion }()
	version = "dev"

	SetVersion("")

	assert.Equal(t, "dev", version)
}
