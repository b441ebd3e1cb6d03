package main

import (
	"fmt"
	"os"

	"github.com/emberlang/ember/cmd/ember/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ember:", err)
		os.Exit(1)
	}
}
