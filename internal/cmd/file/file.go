// Package file provides commands for the site's managed files.
package file

import (
	"github.com/spf13/cobra"
)

// NewCmdFile creates the file command.
func NewCmdFile() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "file",
		Aliases: []string{"files"},
		Short:   "Browse managed files and insert them into content",
		Long:    `Commands for listing the site's managed files, viewing their display modes, and inserting them into editor content.`,
	}

	cmd.AddCommand(NewCmdList())
	cmd.AddCommand(NewCmdView())
	cmd.AddCommand(NewCmdInsert())

	return cmd
}
