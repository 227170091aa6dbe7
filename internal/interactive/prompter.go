// Package interactive implements the TTY prompts: contract selection
// when a compilation yields several candidates, and version entry when
// no pin is available. Selection logic is kept behind the Prompter
// interface so it stays testable without a terminal.
package interactive

import (
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// Prompter abstracts interactive prompt operations for testing.
type Prompter interface {
	// SelectFromList displays an interactive list and returns the
	// selected index and value. Returns promptui.ErrInterrupt when the
	// user cancels.
	SelectFromList(label string, items []string, cursorPos *int) (int, string, error)

	// InputText prompts for free text entry.
	InputText(label string) (string, error)
}

// PromptuiAdapter implements Prompter using promptui.
type PromptuiAdapter struct{}

// NewPromptuiAdapter creates the production prompter.
func NewPromptuiAdapter() *PromptuiAdapter {
	return &PromptuiAdapter{}
}

// SelectFromList implements Prompter using promptui.Select.
func (p *PromptuiAdapter) SelectFromList(label string, items []string, cursorPos *int) (int, string, error) {
	cursor := 0
	if cursorPos != nil {
		cursor = *cursorPos
	}

	templates := &promptui.SelectTemplates{
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "✓ {{ . | green }}",
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		Size:      10,
		CursorPos: cursor,
		Templates: templates,
	}
	return prompt.Run()
}

// InputText implements Prompter using promptui.Prompt.
func (p *PromptuiAdapter) InputText(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
	}
	return prompt.Run()
}

// IsTerminalInteractive reports whether stdin is a TTY. Prompts read
// from stdin, so piped or CI invocations must fall back to flags.
func IsTerminalInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
