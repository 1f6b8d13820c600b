// Package main is the entry point for the nwtest CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/nwtest/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
