package main

import (
	"fmt"
	"os"

	"geodata/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "geoctl: %v\n", err)
		os.Exit(1)
	}
}
