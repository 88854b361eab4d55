package main

import (
	"os"

	"creativestudio/cmd/studioctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
