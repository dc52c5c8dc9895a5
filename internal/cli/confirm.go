package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/aidanlsb/magpie/internal/ui"
)

// confirm asks a yes/no question on the terminal. Anything but an explicit
// yes declines, and non-interactive or JSON runs always decline: a pipeline
// must never block on a prompt.
func confirm(question string) bool {
	if isJSONOutput() || !ui.IsInteractive() {
		return false
	}
	if question == "" {
		question = "Continue?"
	}
	fmt.Print(question + " " + ui.Hint("(y/N)") + " ")

	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(sc.Text())) {
	case "y", "yes":
		return true
	}
	return false
}
