package main

import (
	"fmt"
	"os"

	"github.com/abhisek/blankcheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !cmd.Silent(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cmd.ExitCode(err))
	}
}
