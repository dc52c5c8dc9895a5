package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/ordinal"
	"github.com/aidanlsb/magpie/internal/ui"
)

var (
	insertName  string
	insertDir   bool
	insertForce bool
)

var insertCmd = &cobra.Command{
	Use:   "insert <after-item>",
	Short: "Create a new item immediately after an existing one",
	Long: `Insert creates a new sequenced item slotted directly after an existing one,
without renumbering anything: the new item takes the existing ordinal plus
one. The canonical gap of ten between neighbors is what makes room.

The item name comes from --name, slugified. Pass --dir to create a
directory instead of a markdown file.

  mgp insert notes/00020_drafts.md --name "Reading List"

creates notes/00021_reading-list.md.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		after := args[0]
		if insertName == "" {
			insertName = "new"
		}

		dir := filepath.Dir(after)
		items, err := ordinal.Scan(dir)
		if err != nil {
			return failErr(err, "")
		}
		item, ok := ordinal.Find(items, filepath.Base(after))
		if !ok {
			return fail(ErrItemNotFound, "no sequenced item named "+filepath.Base(after)+" in "+dir,
				"The item after which to insert must already exist")
		}

		suffix := slug.Make(insertName)
		if !insertDir {
			suffix += ".md"
		}
		name := ordinal.InsertName(item, suffix)
		path := filepath.Join(dir, name)

		if _, err := os.Stat(path); err == nil && !insertForce {
			if !confirm(fmt.Sprintf("%s exists. Overwrite?", name)) {
				return fail(ErrFileExists, path+" already exists", "Pass --force to overwrite")
			}
		}

		if insertDir {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return failErr(err, "")
			}
		} else {
			if err := os.WriteFile(path, []byte("# "+insertName+"\n"), 0o644); err != nil {
				return failErr(err, "")
			}
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{"path": path, "name": name})
		} else {
			fmt.Println(ui.Successf("created %s", ui.FilePath(path)))
		}
		return nil
	},
}

func init() {
	insertCmd.Flags().StringVarP(&insertName, "name", "n", "", "title for the new item (slugified into the filename)")
	insertCmd.Flags().BoolVar(&insertDir, "dir", false, "create a directory instead of a markdown file")
	insertCmd.Flags().BoolVarP(&insertForce, "force", "f", false, "overwrite an existing item without prompting")
	rootCmd.AddCommand(insertCmd)
}
