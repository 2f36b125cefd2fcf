package main

import (
	"fmt"
	"os"

	"github.com/MJRobillard/q-learner-grid/cmd"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
