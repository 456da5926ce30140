package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteClassMap(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "classes.yaml")
	err := writeClassMap(fname, map[string][]string{
		"item10": {"c0000001"},
		"item2":  {"c0000002", "c0000003"},
		"item1":  {},
	})
	if err != nil {
		t.Fatalf("writeClassMap() error = %v", err)
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	want := "item1: []\nitem2: [c0000002, c0000003]\nitem10: [c0000001]\n"
	if string(data) != want {
		t.Errorf("got\n%s\nwant\n%s", data, want)
	}
}
