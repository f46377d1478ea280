// Package encoding provides text encoding utilities for BRender resources and
// the plain-text data files that ship next to them.
package encoding

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Windows1252ToUTF8 converts legacy 8-bit text to a UTF-8 string.
// Valid UTF-8 (including plain ASCII) is returned unchanged.
func Windows1252ToUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToWindows1252 converts a UTF-8 string back to its 8-bit form.
// Returns the original bytes if a rune has no Windows-1252 equivalent.
func UTF8ToWindows1252(s string) []byte {
	result, _, err := transform.Bytes(charmap.Windows1252.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// NormalizePath converts DOS separators and lowercases a resource path
// for case-insensitive comparison.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ToLower(path)
}
