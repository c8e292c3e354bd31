package infer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Sex is the inferred sex of the sequenced individual.
type Sex string

const (
	Male    Sex = "male"
	Female  Sex = "female"
	Unknown Sex = "" // inconclusive
)

func (s Sex) String() string {
	if s == Unknown {
		return "unknown"
	}
	return string(s)
}

// jsonValue maps Unknown to JSON null.
func (s Sex) jsonValue() any {
	if s == Unknown {
		return nil
	}
	return string(s)
}

// MarshalVerdict renders the single-key verdict object. The output is
// deterministic: identical inputs produce byte-identical JSON.
func MarshalVerdict(s Sex) ([]byte, error) {
	b, err := json.MarshalIndent(map[string]any{"Gender": s.jsonValue()}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal verdict: %w", err)
	}
	return append(b, '\n'), nil
}

// WriteVerdict writes the verdict artifact, creating parent directories
// as needed. A file is written even when the verdict is Unknown.
func WriteVerdict(path string, s Sex) error {
	b, err := MarshalVerdict(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("write verdict: %w", err)
	}
	return nil
}
