package main

import (
	"fmt"
	"os"

	"github.com/corpeningc/xmlmerge/cmd"
	"github.com/pkg/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
