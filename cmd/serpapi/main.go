package main

import (
	"errors"
	"fmt"
	"os"

	serpapi "github.com/kitbuilder587/serpapi-go"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2
	ExitAPI     = 3
)

func main() {
	if err := execute(newRootCmd(defaultFactory)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, serpapi.ErrAPI):
		return ExitAPI
	case errors.Is(err, serpapi.ErrUsage), errors.Is(err, errBadParam):
		return ExitUsage
	default:
		return ExitGeneral
	}
}
