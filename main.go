package main

import (
	"os"

	"github.com/mindcare-ai/mindcare/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
