package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/fingerprint"
	"github.com/aidanlsb/magpie/internal/renametx"
	"github.com/aidanlsb/magpie/internal/ui"
)

var attachInto string

var attachCmd = &cobra.Command{
	Use:   "attach <file>",
	Short: "Rename a file to carry its content fingerprint",
	Long: `Attach fingerprints a file's content and renames it to the hash-bearing
form:

  photo.png  ->  photo.fp-9f86d081884c7d65...png

The fingerprint depends only on the bytes, so links to the attachment can be
repaired after it moves. A file already carrying its fingerprint is left
untouched. Pass --into to move the file into another directory at the same
time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		base := filepath.Base(path)

		if _, err := os.Stat(path); err != nil {
			return failErr(err, "")
		}

		fp, err := fingerprint.FromFile(path)
		if err != nil {
			return failErr(err, "")
		}

		if existing, ok := fingerprint.ParseName(base); ok && existing == fp {
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"path": path, "fingerprint": fp, "renamed": false})
			} else {
				fmt.Println(ui.Successf("%s already carries its fingerprint", base))
			}
			return nil
		}

		destDir := filepath.Dir(path)
		if attachInto != "" {
			destDir = attachInto
			if st, err := os.Stat(destDir); err != nil || !st.IsDir() {
				return fail(ErrTargetNotFound, "destination directory not found: "+destDir, "")
			}
		}

		// A stale embedded fingerprint gets replaced, not stacked.
		original := base
		if stem, _, ext, ok := fingerprint.SplitName(base); ok {
			original = stem + ext
		}
		target := filepath.Join(destDir, fingerprint.AttachmentName(original, fp))

		if _, err := os.Stat(target); err == nil && target != path {
			return fail(ErrFileExists, target+" already exists", "")
		}

		tx := renametx.New()
		if err := tx.Rename(path, target); err != nil {
			return fail(ErrRenameFailed, err.Error(), "")
		}

		link := markdownLink(filepath.Base(target))
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"path": target, "fingerprint": fp, "renamed": true, "link": link})
		} else {
			fmt.Println(ui.Successf("attached %s", ui.FilePath(target)))
			fmt.Println(ui.Hint("link with: " + link))
		}
		return nil
	},
}

// markdownLink renders the link text to embed in a document: an image link
// for common image extensions, a plain link otherwise. The path is relative
// to the linking document by convention; repair fixes it up after any move.
func markdownLink(name string) string {
	stem, _, ext, ok := fingerprint.SplitName(name)
	if !ok {
		stem = name
	}
	text := stem + ext
	u := url.URL{Path: name}
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
		return "![" + text + "](" + u.EscapedPath() + ")"
	}
	return "[" + text + "](" + u.EscapedPath() + ")"
}

func init() {
	attachCmd.Flags().StringVar(&attachInto, "into", "", "move the attachment into this directory")
	rootCmd.AddCommand(attachCmd)
}
