package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"crane/internal/driver"
	"crane/internal/source"
	"crane/internal/ui"
)

type parseDirOutcome struct {
	fs      *source.FileSet
	results []driver.ParseDirResult
	err     error
}

// runParseDirWithUI runs driver.ParseDir while a Bubble Tea program renders per-file progress to out.
func runParseDirWithUI(ctx context.Context, out io.Writer, title, dir string, opts driver.Options) (*source.FileSet, []driver.ParseDirResult, error) {
	files, err := driver.ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan parseDirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = ui.Observer(events)
		fs, results, err := driver.ParseDir(ctx, dir, optsCopy)
		outcomeCh <- parseDirOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// после выхода программы (в том числе по Ctrl+C) события дочитываются, чтобы воркеры не встали
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
