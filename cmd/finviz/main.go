package main

import (
	"os"

	"github.com/MrJamesThe3rd/finviz/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
