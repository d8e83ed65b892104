package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootHasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()

	names := make([]string, len(commands))
	for i, cmd := range commands {
		names[i] = cmd.Name()
	}

	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.Contains(t, names, "code")
	assert.Contains(t, names, "category")
}

func TestRootUseName(t *testing.T) {
	assert.Equal(t, "catalog", rootCmd.Use)
}

func TestRootConfigFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config")
	if assert.NotNil(t, flag) {
		assert.Equal(t, "", flag.DefValue)
	}
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		configPath = ""
	})
	err := rootCmd.Execute()
	return buf.String(), err
}
