// Package content provides the commands that translate stored content to
// and from editor markup.
package content

import (
	"github.com/spf13/cobra"
)

// NewCmdContent creates the content command.
func NewCmdContent() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Translate media macros in content",
		Long: `Commands for moving content between its stored form, where embedded
files are [[...]] media macros, and its editor form, where each macro is a
placeholder element.

Each translation runs inside a session. Sessions are saved to the local
session database so that a later detach can restore exactly the macros an
attach produced.`,
	}

	cmd.AddCommand(NewCmdAttach())
	cmd.AddCommand(NewCmdDetach())
	cmd.AddCommand(NewCmdInspect())

	return cmd
}
