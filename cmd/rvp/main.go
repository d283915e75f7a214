package main

import (
	"os"

	"github.com/bnema/random-video-picker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
