// Package session provides commands for the saved editing sessions.
package session

import (
	"github.com/spf13/cobra"
)

// NewCmdSession creates the session command.
func NewCmdSession() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Manage saved editing sessions",
		Long: `Commands for the sessions saved by attach, detach and insert. A session
holds the cached placeholder markup and the file data needed to translate
content back and forth.`,
	}

	cmd.AddCommand(NewCmdList())
	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdDelete())

	return cmd
}
