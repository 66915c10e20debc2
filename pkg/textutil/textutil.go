// Package textutil provides byte-level text utilities: binary detection,
// line counting, and line extraction for report snippets.
package textutil

import (
	"bytes"
	"strings"
)

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// CountLines returns the number of newline-delimited lines in data.
// A non-empty buffer without a trailing newline counts the last partial line.
// Returns 0 for empty data.
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	lines := bytes.Count(data, []byte{'\n'})

	if data[len(data)-1] != '\n' {
		lines++
	}

	return lines
}

// CountBlankLines returns the number of lines in data that are empty or
// contain only whitespace.
func CountBlankLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	blank := 0

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			blank++
		}
	}

	// A trailing newline produces one empty split entry that is not a line.
	if data[len(data)-1] == '\n' {
		blank--
	}

	return blank
}

// Line returns the 1-based line n of data with surrounding whitespace
// trimmed, or "" when n is out of range.
func Line(data []byte, n int) string {
	if n < 1 || len(data) == 0 {
		return ""
	}

	lines := bytes.Split(data, []byte{'\n'})
	if n > len(lines) {
		return ""
	}

	return strings.TrimSpace(string(lines[n-1]))
}
