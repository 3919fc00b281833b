package main

import (
	"fmt"
	"os"

	"github.com/bjaus/steleto/cmd/steleto/app"
)

func main() {
	cmd := app.NewConvertCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
