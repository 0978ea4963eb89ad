package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
	"github.com/rocketscienceinc/xo-engine/internal/eventloop"
	"github.com/rocketscienceinc/xo-engine/internal/render"
	"github.com/rocketscienceinc/xo-engine/internal/tictactoe"
)

var errBadInput = errors.New(`expected "row col", for example "1 2"`)

type options struct {
	xAutomated bool
	oAutomated bool
	delay      time.Duration
	logLevel   string
}

// main - plays a single round in the terminal.
func main() {
	var opts options
	flag.BoolVar(&opts.xAutomated, "x-cpu", false, "let the computer play X")
	flag.BoolVar(&opts.oAutomated, "o-cpu", true, "let the computer play O")
	flag.DurationVar(&opts.delay, "delay", 500*time.Millisecond, "pause before each computer move")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, in io.Reader, out io.Writer) error {
	logger := initLogger(opts.logLevel)
	term := render.NewTerminal(out)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := eventloop.New(logger)
	go loop.Run(ctx)

	var engine *tictactoe.Engine
	humanTurn := make(chan struct{}, 1)
	finished := make(chan *entity.GameState, 1)

	// show runs on the loop after the round starts and after every move
	show := func() {
		state := engine.State()
		if err := term.Write(state); err != nil {
			logger.Error("failed to render", "error", err)
		}

		switch {
		case state.IsFinished():
			finished <- state
		case !engine.CurrentPlayer().Automated:
			humanTurn <- struct{}{}
		}
	}

	err := loop.Do(ctx, func() error {
		engine = tictactoe.NewEngine(logger, loop, opts.delay,
			entity.NewPlayer(entity.PlayerA, opts.xAutomated),
			entity.NewPlayer(entity.PlayerB, opts.oAutomated),
		)
		engine.OnTurnComplete(func(_, _ int) { show() })

		show()
		engine.Start()

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to start round: %w", err)
	}

	scanner := bufio.NewScanner(in)

	for {
		select {
		case <-ctx.Done():
			return nil
		case state := <-finished:
			logger.Info("round finished", "won", state.Won, "winner", state.Winner, "turns", state.TurnCount)
			return nil
		case <-humanTurn:
			fmt.Fprint(out, "> ")

			if !scanner.Scan() {
				if err = scanner.Err(); err != nil {
					return fmt.Errorf("failed to read move: %w", err)
				}

				return nil
			}

			row, col, err := parseMove(scanner.Text())
			if err == nil {
				err = loop.Do(ctx, func() error { return engine.TryTurn(row, col) })
			}

			if err != nil {
				fmt.Fprintln(out, err)
				humanTurn <- struct{}{}
			}
		}
	}
}

func parseMove(line string) (int, int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	if len(fields) != 2 {
		return 0, 0, errBadInput
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, errBadInput
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, errBadInput
	}

	return row, col, nil
}

// initialize logger.
func initLogger(logLevel string) *slog.Logger {
	level := slog.LevelWarn

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
