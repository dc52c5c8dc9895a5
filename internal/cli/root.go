package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/config"
	"github.com/aidanlsb/magpie/internal/ui"
)

var (
	// Global flags
	workspaceName     string // Named workspace from config
	workspacePathFlag string // Explicit path
	configPathFlag    string

	// Resolved values
	resolvedWorkspacePath string
	cfg                   *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mgp",
	Short: "Magpie - stable order and link integrity for plain-file workspaces",
	Long: `Magpie keeps order and identity stable in a plain-file workspace.

Files and folders are sequenced by numeric name prefixes (00010_intro.md);
attachments are named by a fingerprint of their content; arbitrary files can
carry an embedded identifier. Magpie renumbers, reorders, and relocates the
sequenced items safely, and repairs links whose targets have moved.

Named for the bird that collects things and remembers exactly where it put
them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that work without a workspace.
		switch cmd.Name() {
		case "version", "completion", "help":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		configPath := configPathFlag
		if configPath == "" {
			configPath = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fail(ErrConfigInvalid, err.Error(), "Check "+configPath)
		}
		ui.ConfigureTheme(cfg.UI.Accent)

		// Workspace management edits the config itself; it must work even
		// when the configured default points at a missing directory.
		if cmd.Parent() != nil && cmd.Parent().Name() == "workspace" {
			return nil
		}

		// Resolve workspace path: explicit path > named workspace > default.
		switch {
		case workspacePathFlag != "":
			resolvedWorkspacePath = workspacePathFlag
		case workspaceName != "":
			resolvedWorkspacePath, err = cfg.WorkspacePath(workspaceName)
			if err != nil {
				return fail(ErrWorkspaceNotFound,
					fmt.Sprintf("workspace '%s' not found in config", workspaceName),
					"Add it to "+configPath)
			}
		default:
			resolvedWorkspacePath, err = cfg.WorkspacePath("")
			if err != nil {
				// Ordinal commands operate on plain directories; fall
				// back to the current directory when nothing is
				// configured.
				resolvedWorkspacePath, err = os.Getwd()
				if err != nil {
					return fail(ErrWorkspaceNotSpecified, "no workspace specified",
						"Use --workspace-path, or set default_workspace in "+configPath)
				}
			}
		}

		if _, err := os.Stat(resolvedWorkspacePath); os.IsNotExist(err) {
			return fail(ErrWorkspaceNotFound,
				"workspace not found: "+resolvedWorkspacePath, "")
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		if isJSONOutput() {
			outputError(codeFor(err), err.Error(), nil, "")
		} else {
			fmt.Fprintln(os.Stderr, ui.Errorf("%v", err))
		}
	}
	return err
}

func getWorkspacePath() string { return resolvedWorkspacePath }

// excludeGlobs returns the configured exclusion patterns.
func excludeGlobs() []string {
	if cfg == nil {
		return nil
	}
	return cfg.Exclude
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workspaceName, "workspace", "", "named workspace from config")
	rootCmd.PersistentFlags().StringVar(&workspacePathFlag, "workspace-path", "", "explicit workspace root path")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "config file path (default ~/.config/magpie/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output machine-readable JSON")
}
