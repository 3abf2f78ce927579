package io

import (
	"bytes"
	"os"
)

// ReadSequence reads a DNA sequence from a file.
// Line breaks and surrounding whitespace are dropped.
func ReadSequence(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		out = append(out, bytes.TrimSpace(line)...)
	}
	return out, nil
}
