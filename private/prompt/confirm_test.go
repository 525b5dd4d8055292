// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package prompt_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/nftmeta/private/prompt"
)

func TestConfirm(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected bool
		asked    int
	}{
		{input: "y\n", expected: true, asked: 1},
		{input: " YES \n", expected: true, asked: 1},
		{input: "n\n", expected: false, asked: 1},
		{input: "maybe\n\nno\n", expected: false, asked: 3},
		{input: "what\ntrue", expected: true, asked: 2},
	} {
		var out bytes.Buffer
		ok, err := prompt.Confirm(strings.NewReader(tc.input), &out, "Continue?")
		require.NoError(t, err, tc.input)
		require.Equal(t, tc.expected, ok, tc.input)
		require.Equal(t, tc.asked, strings.Count(out.String(), "Continue? [y/n]: "), tc.input)
	}
}

func TestConfirmEOF(t *testing.T) {
	var out bytes.Buffer
	ok, err := prompt.Confirm(strings.NewReader("later\n"), &out, "Continue?")
	require.Error(t, err)
	require.True(t, prompt.Error.Has(err))
	require.False(t, ok)
}
