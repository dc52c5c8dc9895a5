package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		version := buildinfo.Version
		commit := buildinfo.Commit
		date := buildinfo.Date

		// go install builds have no ldflags; fall back to module info.
		if version == "" {
			version = "dev"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
				version = info.Main.Version
			}
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
			})
			return
		}
		fmt.Printf("mgp %s", version)
		if commit != "" {
			fmt.Printf(" (%s)", commit)
		}
		if date != "" {
			fmt.Printf(" built %s", date)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
