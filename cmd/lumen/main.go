package main

import (
	"os"

	"github.com/glabrego/lumen-cli/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
