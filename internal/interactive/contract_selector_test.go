package interactive

import (
	"errors"
	"strings"
	"testing"
)

// mockPrompter is a test double for the Prompter interface so selection
// logic runs without a real terminal.
type mockPrompter struct {
	selectIndex  int
	selectErr    error
	selectCalled bool
	selectLabel  string
	selectItems  []string

	inputText   string
	inputErr    error
	inputCalled bool
}

func (m *mockPrompter) SelectFromList(label string, items []string, cursorPos *int) (int, string, error) {
	m.selectCalled = true
	m.selectLabel = label
	m.selectItems = items

	if m.selectErr != nil {
		return 0, "", m.selectErr
	}
	return m.selectIndex, items[m.selectIndex], nil
}

func (m *mockPrompter) InputText(label string) (string, error) {
	m.inputCalled = true
	if m.inputErr != nil {
		return "", m.inputErr
	}
	return m.inputText, nil
}

func TestChoiceString(t *testing.T) {
	c := Choice{File: "contracts/Token.sol", Name: "Token"}
	want := "Token (contracts/Token.sol)"
	if got := c.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSelectNoChoices(t *testing.T) {
	selector := NewContractSelector(&mockPrompter{}, nil)

	_, err := selector.Select(nil)
	if err == nil {
		t.Fatal("expected error for empty choice list")
	}
}

func TestSelectSingleChoiceSkipsPrompt(t *testing.T) {
	mock := &mockPrompter{}
	selector := NewContractSelector(mock, nil)
	selector.interactive = true

	choice, err := selector.Select([]Choice{{File: "A.sol", Name: "Foo"}})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if choice.Name != "Foo" || choice.File != "A.sol" {
		t.Errorf("unexpected choice: %+v", choice)
	}
	if mock.selectCalled {
		t.Error("single candidate should not open a prompt")
	}
}

func TestSelectMultipleNonInteractive(t *testing.T) {
	selector := NewContractSelector(&mockPrompter{}, nil)
	selector.interactive = false

	choices := []Choice{
		{File: "A.sol", Name: "Foo"},
		{File: "B.sol", Name: "Bar"},
	}
	_, err := selector.Select(choices)
	if err == nil {
		t.Fatal("expected error without a TTY")
	}
	if !strings.Contains(err.Error(), "--contract") {
		t.Errorf("error should point at --contract, got: %v", err)
	}
}

func TestSelectPromptsSorted(t *testing.T) {
	mock := &mockPrompter{selectIndex: 2}
	selector := NewContractSelector(mock, nil)
	selector.interactive = true

	choices := []Choice{
		{File: "src/Vault.sol", Name: "Vault"},
		{File: "src/Token.sol", Name: "Token"},
		{File: "lib/Math.sol", Name: "Math"},
	}
	choice, err := selector.Select(choices)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if !mock.selectCalled {
		t.Fatal("expected a prompt for multiple candidates")
	}
	wantItems := []string{
		"Math (lib/Math.sol)",
		"Token (src/Token.sol)",
		"Vault (src/Vault.sol)",
	}
	if len(mock.selectItems) != len(wantItems) {
		t.Fatalf("expected %d items, got %d", len(wantItems), len(mock.selectItems))
	}
	for i, want := range wantItems {
		if mock.selectItems[i] != want {
			t.Errorf("item %d: expected %q, got %q", i, want, mock.selectItems[i])
		}
	}

	// Index 2 of the sorted list is Vault.
	if choice.Name != "Vault" {
		t.Errorf("expected Vault, got %s", choice.Name)
	}
}

func TestSelectCancelled(t *testing.T) {
	mock := &mockPrompter{selectErr: errors.New("^C")}
	selector := NewContractSelector(mock, nil)
	selector.interactive = true

	choices := []Choice{
		{File: "A.sol", Name: "Foo"},
		{File: "B.sol", Name: "Bar"},
	}
	_, err := selector.Select(choices)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !strings.Contains(err.Error(), "cancelled") {
		t.Errorf("expected cancellation in error, got: %v", err)
	}
}

func TestInputVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare version", "0.8.19", "0.8.19", false},
		{"v prefix", "v0.8.19", "0.8.19", false},
		{"commit suffix", "0.8.17+commit.8df45f5f", "0.8.17", false},
		{"surrounding text", "use solc 0.7.6 please", "0.7.6", false},
		{"no version", "latest", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockPrompter{inputText: tt.input}
			got, err := InputVersion(mock)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("InputVersion failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestInputVersionCancelled(t *testing.T) {
	mock := &mockPrompter{inputErr: errors.New("^C")}
	_, err := InputVersion(mock)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !mock.inputCalled {
		t.Error("expected the prompt to run")
	}
}
