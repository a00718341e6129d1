// Package main is the entry point for the gbif CLI binary.
package main

import (
	"os"

	"github.com/savantlab/gbif-records/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
