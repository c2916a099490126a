// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package main is the entry point for the routelint CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/api2spec/routelint/internal/cli"
)

func main() {
	err := cli.Execute()

	// Issues found is an exit status, not an error worth printing
	var exitErr *cli.ExitError
	if err != nil && (!errors.As(err, &exitErr) || exitErr.Err != nil) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.ExitCode(err))
}
