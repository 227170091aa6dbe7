package cache

import "testing"

func TestDigestDeterministic(t *testing.T) {
	doc := []byte(`{"language":"Solidity","sources":{}}`)

	key1 := Digest(doc)
	key2 := Digest(doc)
	key3 := Digest([]byte(`{"language":"Solidity","sources":{"a":{}}}`))

	if key1 != key2 {
		t.Error("same input should produce same digest")
	}
	if key1 == key3 {
		t.Error("different inputs should produce different digests")
	}
	if !isValidKey(key1) {
		t.Errorf("digest is not a valid cache key: %s", key1)
	}
}

func TestDigestKnownVector(t *testing.T) {
	// SHA-256 of the empty string.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Digest(nil); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestIsValidKey(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		valid bool
	}{
		{"digest output", Digest([]byte("x")), true},
		{"too short", "abc123", false},
		{"uppercase hex", "E3B0C44298FC1C149AFBF4C8996FB92427AE41E4649B934CA495991B7852B855", false},
		{"non-hex chars", "g3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", false},
		{"path traversal", "../../../../../../../../../../etc/passwd0000000000000000000000000", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidKey(tt.key); got != tt.valid {
				t.Errorf("isValidKey(%q) = %v, want %v", tt.key, got, tt.valid)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	key := Digest([]byte("doc"))

	name := Filename(KindInput, key)
	want := "compile_config_" + key + ".json"
	if name != want {
		t.Errorf("expected %s, got %s", want, name)
	}

	kind, parsed, ok := parseFilename(name)
	if !ok {
		t.Fatalf("parseFilename rejected %s", name)
	}
	if kind != KindInput || parsed != key {
		t.Errorf("round trip mismatch: kind=%s key=%s", kind, parsed)
	}
}

func TestParseFilenameRejectsJunk(t *testing.T) {
	junk := []string{
		"notes.txt",
		"compile_config_short.json",
		"compile_" + Digest(nil) + ".json",
		Digest(nil) + ".lock",
		".compile_output-tmp123",
	}
	for _, name := range junk {
		if _, _, ok := parseFilename(name); ok {
			t.Errorf("parseFilename accepted %q", name)
		}
	}
}
