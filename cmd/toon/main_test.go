package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/d1ced/toon"
)

func TestResolveInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.toon")
	if err := os.WriteFile(path, []byte("a: 1"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := resolveInput(path)
	if err != nil || string(data) != "a: 1" {
		t.Errorf("file input: %q, %v", data, err)
	}

	// a non-existing path that is no URL is taken literally
	data, err = resolveInput("tags[2]: a,b")
	if err != nil || string(data) != "tags[2]: a,b" {
		t.Errorf("literal input: %q, %v", data, err)
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		have string
		want toon.Delimiter
		ok   bool
	}{
		{"comma", toon.Comma, true},
		{"tab", toon.Tab, true},
		{"pipe", toon.Pipe, true},
		{"semicolon", toon.Comma, false},
	}
	for _, test := range tests {
		got, err := parseDelimiter(test.have)
		if (err == nil) != test.ok || got != test.want {
			t.Errorf("parseDelimiter(%q) = %v, %v", test.have, got, err)
		}
	}
}
