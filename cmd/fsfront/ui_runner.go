package main

import (
	"context"
	"os"

	"fsfront/internal/buildpipeline"
	"fsfront/internal/driver"
	"fsfront/internal/ui"
)

type compileOutcome struct {
	result driver.Result
	err    error
}

// runWithUI runs compile in the background and shows its progress until
// the event stream is closed.
func runWithUI(ctx context.Context, title string, files []string, next buildpipeline.ProgressSink, compile func(buildpipeline.ProgressSink) (driver.Result, error)) (driver.Result, error) {
	events := make(chan buildpipeline.Event, 256)
	uiEvents := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		sink := buildpipeline.FuncSink(func(evt buildpipeline.Event) {
			if next != nil {
				next.OnEvent(evt)
			}
			events <- evt
		})
		res, err := compile(sink)
		outcomeCh <- compileOutcome{result: res, err: err}
		close(events)
	}()
	// the view may stop early; keep draining so compile never blocks
	go func() {
		defer close(uiEvents)
		for evt := range events {
			select {
			case uiEvents <- evt:
			default:
			}
		}
	}()

	uiErr := ui.Run(ctx, os.Stdout, title, files, uiEvents)
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
