package main

import (
	"os"

	"github.com/bocal-dev/bocal/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
