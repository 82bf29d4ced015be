package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Metadata(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.Equal(t, "Print the version number", versionCmd.Short)
	assert.Equal(t, "true", versionCmd.Annotations[skipServices])
}

func TestVersionCmd_Prints(t *testing.T) {
	original := version
	t.Cleanup(func() {
		version = original
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	for _, v := range []string{"dev", "1.2.0"} {
		SetVersion(v)

		out, _, err := execute(t, "version")

		require.NoError(t, err)
		assert.Equal(t, "incident-rag version "+v+"\n", out)
	}
}
