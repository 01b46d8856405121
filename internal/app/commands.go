package app

import (
	"fmt"
	"strings"
)

const helpText = `commands:
  use NAME       show another source
  sources        list sources
  show           print the current records
  reload [NAME]  re-read a source's file, or all files
  stats          print counters
  check          verify the event stream seen so far
  help           print this help
  quit           exit
`

// Execute runs a single command line.
func (app *Application) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, args := fields[0], fields[1:]
	err := app.execute(cmd, args)
	app.metrics.RecordCommand(err)
	if err != nil && err != ErrQuit {
		return &CommandError{Command: cmd, Err: err}
	}
	return err
}

func (app *Application) execute(cmd string, args []string) error {
	switch cmd {
	case "use":
		if len(args) != 1 {
			return fmt.Errorf("%w: use NAME", ErrUsage)
		}
		return app.Use(args[0])

	case "sources":
		for _, name := range app.Names() {
			marker := " "
			if name == app.active {
				marker = "*"
			}
			fmt.Fprintf(app.out, "%s %s\n", marker, name)
		}
		return nil

	case "show":
		app.view.Render(app.out)
		return nil

	case "reload":
		if len(args) > 1 {
			return fmt.Errorf("%w: reload [NAME]", ErrUsage)
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return app.Reload(name)

	case "stats":
		app.printStats()
		return nil

	case "check":
		if err := app.view.Err(); err != nil {
			return err
		}
		fmt.Fprintln(app.out, "ok")
		return nil

	case "help":
		fmt.Fprint(app.out, helpText)
		return nil

	case "quit", "exit":
		return ErrQuit

	default:
		return ErrUnknownCommand
	}
}

func (app *Application) printStats() {
	m := app.metrics.Snapshot()
	c := app.container.Stats()

	fmt.Fprintf(app.out, "active: %s\n", app.active)
	fmt.Fprintf(app.out, "records: %d\n", len(app.view.Items()))
	fmt.Fprintf(app.out, "batches: %d (%d events delivered)\n", c.Batches, c.EventsDelivered)
	fmt.Fprintf(app.out, "swaps: %d\n", m.Swaps)
	fmt.Fprintf(app.out, "reloads: %d (%d failed, avg %s)\n", m.Reloads, m.ReloadErrors, m.ReloadAvg)
	fmt.Fprintf(app.out, "commands: %d (%d failed)\n", m.Commands, m.CommandErrors)
	for _, path := range app.paths() {
		s := app.files[path].Stats()
		fmt.Fprintf(app.out, "file %s: %d records, %d loads, %d failures\n", path, s.Items, s.Loads, s.Failures)
	}
}
