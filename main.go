package main

import (
	"os"

	"github.com/byterings/gprofile/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
