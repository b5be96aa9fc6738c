package main

import (
	"context"
	"fmt"
	"os"
)

const defaultVersion = "dev"

// Version information (set by the release pipeline)
var version = defaultVersion

func main() {
	initVersion()

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
