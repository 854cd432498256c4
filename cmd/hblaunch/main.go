// Command hblaunch starts Hummingbot from a source checkout.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/psantana5/hblaunch/cmd/hblaunch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
