package main

import (
	"fmt"
	"os"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "siteboost: %v\n", err)
		os.Exit(1)
	}
}
