package main

import (
	"os"

	"github.com/bmjaya/printworks/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
