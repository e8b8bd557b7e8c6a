package main

import (
	"os"

	"github.com/goc9000/nuri/cmd"
	"github.com/goc9000/nuri/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
