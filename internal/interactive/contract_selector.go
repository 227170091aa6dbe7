package interactive

import (
	"fmt"
	"sort"

	"github.com/altuslabsxyz/solbuild/internal/output"
	"github.com/altuslabsxyz/solbuild/internal/solc"
)

// Choice is one selectable contract.
type Choice struct {
	File string
	Name string
}

func (c Choice) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.File)
}

// ContractSelector resolves which contract a build should target when
// the user didn't say.
type ContractSelector struct {
	prompter    Prompter
	logger      *output.Logger
	interactive bool
}

// NewContractSelector creates a selector. Interactivity is probed once
// at construction time.
func NewContractSelector(prompter Prompter, logger *output.Logger) *ContractSelector {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &ContractSelector{
		prompter:    prompter,
		logger:      logger,
		interactive: IsTerminalInteractive(),
	}
}

// Select picks one contract. A single candidate is returned without
// prompting; several candidates open a list prompt, which requires a
// TTY.
func (s *ContractSelector) Select(choices []Choice) (*Choice, error) {
	if len(choices) == 0 {
		return nil, fmt.Errorf("compilation produced no contracts")
	}

	sort.Slice(choices, func(i, j int) bool {
		if choices[i].File != choices[j].File {
			return choices[i].File < choices[j].File
		}
		return choices[i].Name < choices[j].Name
	})

	if len(choices) == 1 {
		s.logger.Debug("Single contract %s, skipping selection", choices[0])
		return &choices[0], nil
	}

	if !s.interactive {
		return nil, fmt.Errorf("multiple contracts available, pass --contract or --all (non-interactive session)")
	}

	items := make([]string, len(choices))
	for i, c := range choices {
		items[i] = c.String()
	}
	index, _, err := s.prompter.SelectFromList("Select contract to build:", items, nil)
	if err != nil {
		return nil, fmt.Errorf("contract selection cancelled: %w", err)
	}
	return &choices[index], nil
}

// InputVersion prompts for a compiler version and validates that the
// entry contains one.
func InputVersion(prompter Prompter) (string, error) {
	raw, err := prompter.InputText("Enter solc version (e.g. 0.8.19)")
	if err != nil {
		return "", fmt.Errorf("version entry cancelled: %w", err)
	}
	version, ok := solc.ExtractVersion(raw)
	if !ok {
		return "", fmt.Errorf("no solc version in %q", raw)
	}
	return version, nil
}
