package main

import (
	"fmt"
	"os"

	"github.com/MuhammadMouostafa/library-management-system/internal/cli"
	"github.com/MuhammadMouostafa/library-management-system/internal/config"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	root := cli.NewRootCommand(Version+" ("+Commit+")", config.NewConfig)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
