package main

import (
	"os"

	"github.com/NamazuStudios/elements-formgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
