// Package artifacts post-processes normalized compilation results:
// typed ABI summaries, bytecode sanity checks, and bundle files.
package artifacts

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Summary is the derived view of one contract ABI: the 4-byte selector
// of every external method and the topic hash of every event, keyed by
// canonical signature. Selector encoding matches the methodIdentifiers
// field of Foundry artifacts.
type Summary struct {
	MethodIdentifiers map[string]string `json:"methodIdentifiers,omitempty"`
	EventTopics       map[string]string `json:"eventTopics,omitempty"`
}

// Summarize parses a raw ABI document and derives its summary. An empty
// or absent ABI yields an empty summary.
func Summarize(rawABI json.RawMessage) (*Summary, error) {
	summary := &Summary{}
	if len(rawABI) == 0 || bytes.Equal(rawABI, []byte("null")) {
		return summary, nil
	}

	parsed, err := abi.JSON(bytes.NewReader(rawABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	if len(parsed.Methods) > 0 {
		summary.MethodIdentifiers = make(map[string]string, len(parsed.Methods))
		for _, method := range parsed.Methods {
			summary.MethodIdentifiers[method.Sig] = hex.EncodeToString(method.ID)
		}
	}
	if len(parsed.Events) > 0 {
		summary.EventTopics = make(map[string]string, len(parsed.Events))
		for _, event := range parsed.Events {
			summary.EventTopics[event.Sig] = event.ID.Hex()
		}
	}
	return summary, nil
}
