package main

import (
	"os"

	"github.com/Simplici0/homequote/cmd/quotectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
