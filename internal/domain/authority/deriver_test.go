// internal/domain/authority/deriver_test.go
package authority

import (
	"errors"
	"strings"
	"testing"
)

func TestDeriveIsPure(t *testing.T) {
	a, err := Derive("gaming_items_v1", DefaultProgramID)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	b, err := Derive("gaming_items_v1", DefaultProgramID)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if a != b {
		t.Fatalf("derivation is not stable: %v vs %v", a, b)
	}
}

func TestDeriveDistinctSeeds(t *testing.T) {
	seeds := []string{"a", "b", "ab", "a_b", "gaming_items_v1", "gaming_items_v2", "GAMING_ITEMS_V1"}
	seen := make(map[string]string)
	for _, s := range seeds {
		a, err := Derive(s, DefaultProgramID)
		if err != nil {
			t.Fatalf("Derive(%q): %v", s, err)
		}
		addr := a.Address.ToBase58()
		if prev, ok := seen[addr]; ok {
			t.Fatalf("collision: seeds %q and %q both derive %s", prev, s, addr)
		}
		seen[addr] = s
	}
}

func TestDeriveRejectsInvalidSeeds(t *testing.T) {
	cases := []string{
		"",
		strings.Repeat("x", MaxSeedLength+1),
		"has space",
		"has-dash",
		"emoji❤",
	}
	for _, s := range cases {
		if _, err := Derive(s, DefaultProgramID); !errors.Is(err, ErrInvalidSeed) {
			t.Errorf("Derive(%q) = %v, want ErrInvalidSeed", s, err)
		}
	}
}

func TestSeedAtMaxLengthIsValid(t *testing.T) {
	s := strings.Repeat("x", MaxSeedLength)
	if _, err := Derive(s, DefaultProgramID); err != nil {
		t.Fatalf("Derive(%q): %v", s, err)
	}
}

func TestConfirmRoundTrip(t *testing.T) {
	const seed = "gaming_items_v1"
	a, err := Derive(seed, DefaultProgramID)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if !Confirm(a.Proof(seed), a.Address, DefaultProgramID) {
		t.Fatal("re-derivation does not confirm its own authority")
	}
}

func TestConfirmRejectsWrongInputs(t *testing.T) {
	const seed = "gaming_items_v1"
	a, err := Derive(seed, DefaultProgramID)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	other, err := Derive("other_collection", DefaultProgramID)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	if Confirm(Proof{Seed: "other_collection", Factor: other.Factor}, a.Address, DefaultProgramID) {
		t.Error("proof for another seed confirmed a foreign authority")
	}
	if Confirm(Proof{Seed: seed, Factor: a.Factor + 1}, a.Address, DefaultProgramID) {
		t.Error("tampered factor still confirmed")
	}
	if Confirm(Proof{Seed: "not a seed!", Factor: a.Factor}, a.Address, DefaultProgramID) {
		t.Error("invalid seed in proof confirmed")
	}
}
