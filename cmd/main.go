package main

import (
	"os"

	"github.com/avatarworks/mouthpiece/cmd/mouthpiece"
)

func main() {
	if err := mouthpiece.Execute(); err != nil {
		os.Exit(1)
	}
}
