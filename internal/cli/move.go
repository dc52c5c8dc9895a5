package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/ordinal"
	"github.com/aidanlsb/magpie/internal/renametx"
	"github.com/aidanlsb/magpie/internal/ui"
)

var moveCmd = &cobra.Command{
	Use:   "move <item> <up|down>",
	Short: "Swap an item with its immediate neighbor",
	Long: `Move swaps a sequenced item's ordinal with its immediate neighbor, up
(toward the start) or down (toward the end). The two items exchange their
numeric prefixes exactly as written; no other name in the directory changes.

Moving the first item up or the last item down is a no-op, not an error.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemPath := args[0]

		var dir ordinal.Direction
		switch args[1] {
		case "up":
			dir = ordinal.Up
		case "down":
			dir = ordinal.Down
		default:
			return fail(ErrInvalidInput, "direction must be 'up' or 'down'", "")
		}

		parent := filepath.Dir(itemPath)
		items, err := ordinal.Scan(parent)
		if err != nil {
			return failErr(err, "")
		}

		name := filepath.Base(itemPath)
		if _, ok := ordinal.Find(items, name); !ok {
			return fail(ErrItemNotFound, "no sequenced item named "+name+" in "+parent, "")
		}

		steps, atBoundary, err := ordinal.MoveAdjacentPlan(items, name, dir)
		if err != nil {
			return failErr(err, "")
		}
		if atBoundary {
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"moved": false, "at_boundary": true})
			} else {
				fmt.Println(ui.Hint(fmt.Sprintf("%s is already at the %s boundary", name, dir)))
			}
			return nil
		}

		if err := renametx.Run(steps); err != nil {
			return failErr(err, "")
		}

		newName := filepath.Base(steps[0].To)
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"moved": true, "name": newName})
		} else {
			fmt.Println(ui.Successf("moved %s %s: now %s", name, dir, ui.FilePath(newName)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
