package main

import (
	"fmt"
	"os"

	"github.com/mstitov/stripemap/internal/bench/command"
)

func main() {
	if err := command.App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
