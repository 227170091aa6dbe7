// Package solcjson defines the standard JSON input and output documents
// understood by the Solidity compiler's single-shot --standard-json mode.
//
// The settings object is kept loosely typed on purpose: callers (and
// framework build-info files) carry arbitrary compiler options such as
// optimizer, evmVersion, viaIR or libraries, and all of them must survive
// serialization untouched so that the content digest and the recorded
// input document stay faithful to what the compiler actually received.
package solcjson

import (
	"encoding/json"
	"fmt"
)

// LanguageSolidity is the language tag for Solidity sources.
const LanguageSolidity = "Solidity"

// Input is the standard JSON input document for one compilation.
// Immutable once hashed: the pipeline serializes it exactly once and
// derives both the cache key and the recorded input file from those bytes.
type Input struct {
	Language string            `json:"language"`
	Sources  map[string]Source `json:"sources"`
	Settings Settings          `json:"settings,omitempty"`
}

// Source carries the literal content of one source file.
type Source struct {
	Content string `json:"content"`
}

// Settings is the compiler settings object. Known sub-objects
// (outputSelection, remappings) are accessed through typed helpers;
// everything else is opaque and preserved as-is.
type Settings map[string]any

// NewInput assembles an input document from raw source contents.
func NewInput(sources map[string]string, settings Settings) *Input {
	in := &Input{
		Language: LanguageSolidity,
		Sources:  make(map[string]Source, len(sources)),
		Settings: settings,
	}
	for path, content := range sources {
		in.Sources[path] = Source{Content: content}
	}
	return in
}

// Validate checks the document invariants: at least one source, and
// non-empty content for every source entry.
func (in *Input) Validate() error {
	if len(in.Sources) == 0 {
		return &EmptySourceError{}
	}
	for path, src := range in.Sources {
		if src.Content == "" {
			return &EmptySourceError{Path: path}
		}
	}
	return nil
}

// Encode returns the canonical serialization of the input document.
// encoding/json sorts map keys, so two inputs with the same semantic
// content always encode to the same bytes regardless of construction
// order. The cache key and the recorded input file both derive from
// this serialization.
func (in *Input) Encode() ([]byte, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode compiler input: %w", err)
	}
	return data, nil
}

// ParseInput decodes a standard JSON input document.
func ParseInput(data []byte) (*Input, error) {
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse compiler input: %w", err)
	}
	return &in, nil
}

// Remappings returns the settings' import remappings, if any.
func (s Settings) Remappings() []string {
	raw, ok := s["remappings"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// SetRemappings stores import remappings in the settings.
func (s Settings) SetRemappings(remappings []string) {
	s["remappings"] = remappings
}

// EmptySourceError reports a source entry with no content, or an input
// document with no sources at all.
type EmptySourceError struct {
	Path string
}

func (e *EmptySourceError) Error() string {
	if e.Path == "" {
		return "compiler input has no sources"
	}
	return fmt.Sprintf("source %s has empty content", e.Path)
}
