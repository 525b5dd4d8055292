// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package prompt implements asking input from command line.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/zeebo/errs"
)

// Error is the default error class for prompt package.
var Error = errs.Class("prompt")

// Confirm asks question on out until a yes or no answer is read from in.
// Running out of input counts as an error.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	scanner := bufio.NewScanner(in)
	for {
		if _, err := fmt.Fprint(out, question+" [y/n]: "); err != nil {
			return false, Error.Wrap(err)
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, Error.Wrap(err)
			}
			return false, Error.Wrap(io.ErrUnexpectedEOF)
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "yes", "y", "true":
			return true, nil
		case "no", "n", "false":
			return false, nil
		}
	}
}
