package main

import (
	"os"

	"github.com/dxbquant/orb/cmd/orb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
