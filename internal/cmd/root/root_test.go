package root

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCmdRoot_Subcommands(t *testing.T) {
	cmd := NewCmdRoot()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"init", "content", "file", "session", "progress", "config", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestNewCmdRoot_GlobalFlags(t *testing.T) {
	cmd := NewCmdRoot()

	for _, name := range []string{"config", "output", "no-color", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "table", cmd.PersistentFlags().Lookup("output").DefValue)
}

func TestNewCmdRoot_Version(t *testing.T) {
	cmd := NewCmdRoot()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "mfl version dev")
}

func TestNewCmdRoot_VerboseLogging(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	tests := []struct {
		name    string
		args    []string
		wantLog bool
	}{
		{"quiet by default", []string{"completion", "bash"}, false},
		{"verbose logs to stderr", []string{"--verbose", "completion", "bash"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewCmdRoot()
			stderr := new(bytes.Buffer)
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(stderr)
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.Execute())
			log.Print("WARN: probe")

			if tt.wantLog {
				assert.Contains(t, stderr.String(), "WARN: probe")
			} else {
				assert.Empty(t, stderr.String())
			}
		})
	}
}
