package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	cases := []struct {
		line     string
		row, col int
		ok       bool
	}{
		{"1 2", 1, 2, true},
		{"0,0", 0, 0, true},
		{"  2\t1 ", 2, 1, true},
		{"5 5", 5, 5, true},
		{"1", 0, 0, false},
		{"a b", 0, 0, false},
		{"1 2 3", 0, 0, false},
	}

	for _, tc := range cases {
		row, col, err := parseMove(tc.line)
		if !tc.ok {
			assert.ErrorIs(t, err, errBadInput, tc.line)
			continue
		}

		require.NoError(t, err, tc.line)
		assert.Equal(t, [2]int{tc.row, tc.col}, [2]int{row, col}, tc.line)
	}
}

func TestRun(t *testing.T) {
	t.Run("Two humans, X wins the top row", func(t *testing.T) {
		// Given: input with a typo and an occupied cell along the way
		in := strings.NewReader("0 0\nnope\n0 0\n1 0\n0 1\n1 1\n0 2\n")
		var out bytes.Buffer

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// When: the round is played
		err := run(ctx, options{logLevel: "warn"}, in, &out)

		// Then: errors are reported and the round ends with X winning
		require.NoError(t, err)
		assert.Contains(t, out.String(), errBadInput.Error())
		assert.Contains(t, out.String(), "cell is already occupied")
		assert.Contains(t, out.String(), "0  X | X | X\n")
		assert.True(t, strings.HasSuffix(out.String(), "X wins\n"))
	})

	t.Run("Computer against computer is a draw", func(t *testing.T) {
		var out bytes.Buffer

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := run(ctx, options{xAutomated: true, oAutomated: true, logLevel: "warn"}, strings.NewReader(""), &out)

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out.String(), "Draw\n"))
	})

	t.Run("Input ends before the round does", func(t *testing.T) {
		var out bytes.Buffer

		err := run(context.Background(), options{oAutomated: true, logLevel: "warn"}, strings.NewReader("1 1\n"), &out)

		require.NoError(t, err)
		assert.NotContains(t, out.String(), "wins")
	})
}

func TestInitLogger(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelWarn,
	}

	for name, level := range cases {
		logger := initLogger(name)

		assert.True(t, logger.Enabled(context.Background(), level), name)
		assert.False(t, logger.Enabled(context.Background(), level-1), name)
	}
}
