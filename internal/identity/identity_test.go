package identity

import (
	"bytes"
	"testing"
)

func TestDeriveDeterministic(t *testing.T) {
	a := Derive([]byte("TestAccount1"))
	b := Derive([]byte("TestAccount1"))

	if a != b {
		t.Errorf("Derive not deterministic: %s != %s", a, b)
	}
}

func TestDeriveDistinctPhrases(t *testing.T) {
	phrases := []string{"Cash", "TSWE", "TRET", "TGBT", "TCBT", "TestAccount1", ""}

	seen := make(map[Identifier]string)
	for _, p := range phrases {
		id := Derive([]byte(p))
		if prev, ok := seen[id]; ok {
			t.Errorf("Derive(%q) collides with Derive(%q)", p, prev)
		}
		seen[id] = p
	}
}

func TestDeriveNotAllZero(t *testing.T) {
	id := Derive([]byte("Cash"))

	var zero Identifier
	if id == zero {
		t.Error("Derive returned all-zero identifier")
	}
	if !bytes.Equal(id.Bytes(), id[:]) {
		t.Error("Bytes() does not match array contents")
	}
}

func TestStringLength(t *testing.T) {
	id := Derive([]byte("Cash"))
	if len(id.String()) != Size*2 {
		t.Errorf("String() length = %d, want %d", len(id.String()), Size*2)
	}
}
