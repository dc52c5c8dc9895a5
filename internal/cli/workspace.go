package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/config"
	"github.com/aidanlsb/magpie/internal/ui"
)

var workspaceAddDefault bool

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage named workspaces",
}

var workspaceAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Register a workspace in the config",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, path := args[0], args[1]

		abs, err := filepath.Abs(path)
		if err != nil {
			return failErr(err, "")
		}

		if cfg.Workspaces == nil {
			cfg.Workspaces = make(map[string]string)
		}
		cfg.Workspaces[name] = abs
		if workspaceAddDefault || cfg.DefaultWorkspace == "" {
			cfg.DefaultWorkspace = name
		}

		configPath := configPathFlag
		if configPath == "" {
			configPath = config.DefaultPath()
		}
		if err := config.Save(configPath, cfg); err != nil {
			return failErr(err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"name":    name,
				"path":    abs,
				"default": cfg.DefaultWorkspace == name,
			})
		} else {
			fmt.Println(ui.Successf("registered %s -> %s", name, ui.FilePath(abs)))
			if cfg.DefaultWorkspace == name {
				fmt.Println(ui.Hint("now the default workspace"))
			}
		}
		return nil
	},
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered workspaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"default":    cfg.DefaultWorkspace,
				"workspaces": cfg.Workspaces,
			})
			return nil
		}
		if len(cfg.Workspaces) == 0 {
			fmt.Println(ui.Hint("no workspaces registered; use 'mgp workspace add'"))
			return nil
		}

		fmt.Println(ui.Header("Workspaces"))
		names := make([]string, 0, len(cfg.Workspaces))
		for name := range cfg.Workspaces {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			marker := "  "
			if name == cfg.DefaultWorkspace {
				marker = "* "
			}
			fmt.Printf("%s%s\t%s\n", marker, name, ui.FilePath(cfg.Workspaces[name]))
		}
		return nil
	},
}

func init() {
	workspaceAddCmd.Flags().BoolVar(&workspaceAddDefault, "default", false, "make this the default workspace")
	workspaceCmd.AddCommand(workspaceAddCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
	rootCmd.AddCommand(workspaceCmd)
}
