package main

import "github.com/claude/trainload/internal/cli"

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	cli.Execute(Version)
}
