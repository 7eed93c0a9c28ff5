package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/treetop-tui/treetop/pkg/config"
)

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm builds a form, switching to accessible mode when stdin is not a
// terminal so the wizard still works in scripts and CI.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...)
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// runInitWizard walks through the main configuration choices and writes
// the result to the user config file.
func runInitWizard() error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	indent := strconv.Itoa(cfg.Display.Indent)
	truncateAt := strconv.Itoa(cfg.Display.TruncateAt)

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(
					huh.NewOption("Auto-detect", "auto"),
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).
				Value(&cfg.Theme),
			huh.NewInput().
				Title("Indent width (cells per tree level)").
				Value(&indent).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Label truncation budget (characters)").
				Value(&truncateAt).
				Validate(validatePositiveInt),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show node comments as a second row?").
				Value(&cfg.Display.ShowComments),
			huh.NewConfirm().
				Title("Reload the document when it changes on disk?").
				Value(&cfg.Watch.Enabled),
			huh.NewInput().
				Title("Default document path (blank to discover in cwd)").
				Value(&cfg.Document.DefaultPath),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	// Validated above, so these cannot fail.
	cfg.Display.Indent, _ = strconv.Atoi(indent)
	cfg.Display.TruncateAt, _ = strconv.Atoi(truncateAt)

	if err := config.Save(cfg); err != nil {
		return err
	}

	dir, _ := config.Dir()
	fmt.Printf("Configuration written to %s\n", dir)
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}
