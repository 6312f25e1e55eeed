package uuid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("expected valid UUID, got %q", id)
	}
	if id[14] != '7' {
		t.Errorf("expected version 7, got %q", id)
	}
}

func TestNewIsTimeOrdered(t *testing.T) {
	a := New()
	b := New()
	if strings.Compare(a[:13], b[:13]) > 0 {
		t.Errorf("expected %s to sort before %s", a, b)
	}
}

func TestIsValid(t *testing.T) {
	if IsValid("not-a-uuid") {
		t.Error("expected invalid")
	}
	if IsValid("") {
		t.Error("expected empty string to be invalid")
	}
}
