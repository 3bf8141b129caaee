package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetwd(t *testing.T) {
	root := Getwd()

	// tests run from the package directory; Getwd must still land on the
	// module root so relative asset paths resolve
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
		t.Errorf("Getwd() = %q, expected a directory containing go.mod: %v", root, err)
	}
	if filepath.Base(root) == "core" {
		t.Errorf("Getwd() = %q, expected the module root, not the package directory", root)
	}
}

func TestCleanString(t *testing.T) {
	if got := CleanString("  Hello "); got != "Hello" {
		t.Errorf("CleanString() = %q, expected %q", got, "Hello")
	}
	if got := CleanString("  Hello ", true); got != "hello" {
		t.Errorf("CleanString(lower) = %q, expected %q", got, "hello")
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(3.14159); got != 3.14 {
		t.Errorf("Round2(3.14159) = %v, expected 3.14", got)
	}
	if got := Round2(0.125); got != 0.13 {
		t.Errorf("Round2(0.125) = %v, expected 0.13", got)
	}
	if got := Round2(-0.125); got != -0.13 {
		t.Errorf("Round2(-0.125) = %v, expected -0.13", got)
	}
}
