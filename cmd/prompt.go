package cmd

import "github.com/pterm/pterm"

// Prompter asks the user for input. ptermPrompter is the terminal
// implementation; tests substitute a scripted one.
type Prompter interface {
	Input(text string) (string, error)
	Select(text string, options []string) (string, error)
	Confirm(text string) (bool, error)
}

type ptermPrompter struct{}

func (ptermPrompter) Input(text string) (string, error) {
	return pterm.DefaultInteractiveTextInput.Show(text)
}

func (ptermPrompter) Select(text string, options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.WithOptions(options).WithMaxHeight(len(options)).Show(text)
}

func (ptermPrompter) Confirm(text string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.Show(text)
}
