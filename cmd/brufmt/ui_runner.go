package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"brufmt/internal/driver"
	"brufmt/internal/ui"
)

type formatOutcome struct {
	results []driver.FormatResult
	err     error
}

func runFormatWithUI(ctx context.Context, title string, files []string, opts driver.Options) ([]driver.FormatResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan formatOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Sink = driver.ChannelSink{Ch: events}
		res, err := driver.FormatFiles(ctx, files, optsCopy)
		outcomeCh <- formatOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	go func() {
		for range events {
		}
	}()

	var outcome formatOutcome
	select {
	case outcome = <-outcomeCh:
	default:
		// the view was closed early (ctrl+c), stop the sweep
		cancel()
		outcome = <-outcomeCh
	}
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
