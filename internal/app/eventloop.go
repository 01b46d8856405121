package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dshills/liveset/internal/filesource"
)

// Run processes commands from the input and file change notifications until
// the input ends, a quit command arrives, or ctx is cancelled. It returns
// ErrQuit after a quit command.
//
// Run is the only writer: watchers and the input reader just hand work to it.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changed := make(chan *filesource.Source)
	for _, path := range app.paths() {
		fs := app.files[path]
		signals, err := fs.Watch(ctx)
		if err != nil {
			app.logger.Warn("not watching %s: %v", path, err)
			continue
		}
		go forward(ctx, fs, signals, changed)
	}

	lines := make(chan string)
	go readLines(ctx, app.opts.Input, lines)

	for {
		select {
		case <-ctx.Done():
			return nil

		case fs := <-changed:
			if err := app.reloadFile(fs); err != nil {
				fmt.Fprintf(app.out, "error: %v\n", err)
			}

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := app.Execute(line)
			if errors.Is(err, ErrQuit) {
				return err
			}
			if err != nil {
				fmt.Fprintf(app.out, "error: %v\n", err)
			}
		}
	}
}

// forward turns change signals for fs into reload requests.
func forward(ctx context.Context, fs *filesource.Source, signals <-chan struct{}, out chan<- *filesource.Source) {
	for range signals {
		select {
		case out <- fs:
		case <-ctx.Done():
			return
		}
	}
}

// readLines sends each input line to out and closes it at end of input.
func readLines(ctx context.Context, r io.Reader, out chan<- string) {
	defer close(out)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}
