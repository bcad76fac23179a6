package helper

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandUserPath(t *testing.T) {
	got, err := ExpandUserPath("~/reports")
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(got, "~") {
		t.Fatal("tilde should be expanded, got ", got)
	}
	if filepath.Base(got) != "reports" {
		t.Fatal("trailing path segment lost: ", got)
	}
}

func TestExpandUserPathPassthrough(t *testing.T) {
	got, err := ExpandUserPath("/var/log/datbolt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/var/log/datbolt" {
		t.Fatal("absolute paths should pass through: ", got)
	}
}
