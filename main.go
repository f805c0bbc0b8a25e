package main

import (
	"os"

	"github.com/abhisek/lingopro/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
