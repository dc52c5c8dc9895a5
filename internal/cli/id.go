package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/fileid"
	"github.com/aidanlsb/magpie/internal/ui"
)

var idCmd = &cobra.Command{
	Use:   "id <file>",
	Short: "Assign (or show) a file's embedded identifier",
	Long: `Id ensures a file carries an embedded identifier and prints it. The
identifier is a random 128-bit value written as the file's first line:

  <!-- magpie-id:0123456789abcdef0123456789abcdef -->

A file that already has one keeps it; reassigning would break every link
referencing it. Link to the file from a document with the companion marker:

  <!-- magpie-ref:0123456789abcdef0123456789abcdef -->[spec](../spec.md)

and repair can then find the file again wherever it moves.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		id, created, err := fileid.Assign(path)
		if err != nil {
			return failErr(err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"path": path, "id": id, "created": created})
			return nil
		}
		if created {
			fmt.Println(ui.Successf("assigned %s", id))
		} else {
			fmt.Println(id)
		}
		fmt.Println(ui.Hint("link with: <!-- " + fileid.RefMarker + ":" + id + " -->[text](path)"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(idCmd)
}
