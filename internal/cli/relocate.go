package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/ordinal"
	"github.com/aidanlsb/magpie/internal/renametx"
	"github.com/aidanlsb/magpie/internal/ui"
)

var relocateCmd = &cobra.Command{
	Use:   "relocate <item> <dest-neighbor>",
	Short: "Move an item to another directory, taking a neighbor's position",
	Long: `Relocate moves a sequenced item into the directory containing
<dest-neighbor> and gives it that neighbor's ordinal. The neighbor and every
item after it shift up by ten to make room.

The item is parked under a hidden staging name while its destination
neighbors shift, so an interrupted relocation never leaves two items
competing for one name. If a rename fails partway, completed renames are
rolled back.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemPath, neighborPath := args[0], args[1]

		srcDir := filepath.Dir(itemPath)
		srcItems, err := ordinal.Scan(srcDir)
		if err != nil {
			return failErr(err, "")
		}
		item, ok := ordinal.Find(srcItems, filepath.Base(itemPath))
		if !ok {
			return fail(ErrItemNotFound, "no sequenced item named "+filepath.Base(itemPath)+" in "+srcDir, "")
		}

		destDir := filepath.Dir(neighborPath)
		destItems, err := ordinal.Scan(destDir)
		if err != nil {
			return failErr(err, "")
		}
		neighbor, ok := ordinal.Find(destItems, filepath.Base(neighborPath))
		if !ok {
			return fail(ErrItemNotFound, "no sequenced item named "+filepath.Base(neighborPath)+" in "+destDir, "")
		}

		// Relocating within one directory: the moving item must not count
		// as its own destination neighbor.
		if sameDir(srcDir, destDir) {
			destItems = withoutItem(destItems, item.Name)
			if neighbor.Name == item.Name {
				return fail(ErrInvalidInput, "an item cannot relocate to its own position", "")
			}
		}

		steps, err := ordinal.RelocatePlan(item, destItems, neighbor)
		if err != nil {
			return failErr(err, "Rename one of the colliding items first")
		}
		if err := renametx.Run(steps); err != nil {
			return failErr(err, "")
		}

		finalPath := steps[len(steps)-1].To
		if isJSONOutput() {
			outputSuccess(map[string]string{"path": finalPath})
		} else {
			fmt.Println(ui.Successf("relocated %s -> %s", item.Name, ui.FilePath(finalPath)))
		}
		return nil
	},
}

func sameDir(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return a == b
	}
	return aa == bb
}

func withoutItem(items []ordinal.Item, name string) []ordinal.Item {
	out := items[:0:0]
	for _, it := range items {
		if it.Name != name {
			out = append(out, it)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(relocateCmd)
}
