// Package main provides the gnkreport CLI application.
// gnkreport creates Kraken-style taxonomic reports from classification
// output.
package main

import (
	"github.com/gnames/gnkreport/cmd"
)

func main() {
	cmd.Execute()
}
