package main

import (
	"os"

	"github.com/aidanlsb/magpie/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
