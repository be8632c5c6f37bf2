package main

import (
	"os"

	"github.com/MAPSWorks/osmpbf/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
