package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/mattn/go-isatty"
)

// WithSpinner shows title next to a spinner while fn runs. In CI or without
// a terminal the title is printed once to stderr instead. Once ctx is
// cancelled the context error is returned, after fn has finished.
func WithSpinner(ctx context.Context, title string, fn func(context.Context) error) error {
	if !spinnerEnabled() {
		fmt.Fprintln(os.Stderr, title)
		err := fn(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}

	done := make(chan struct{})
	err := spinner.New().
		Context(ctx).
		Type(spinner.Dots).
		Title(" " + title).
		ActionWithErr(func(ctx context.Context) error {
			defer close(done)
			return fn(ctx)
		}).
		Run()
	if err != nil && ctx.Err() == nil {
		// The spinner can stop on its own interrupt before the action ends.
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func spinnerEnabled() bool {
	return !IsCI() && isatty.IsTerminal(os.Stdout.Fd())
}
