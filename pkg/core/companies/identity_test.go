package companies

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestDeriveID_Deterministic(t *testing.T) {
	names := []string{"APPLE INC", "OKTA, INC.", "", "Société Générale"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			a, b := DeriveID(name), DeriveID(name)
			if a != b {
				t.Errorf("expected identical ids for %q, got %s and %s", name, a, b)
			}
			if len(a) != 64 {
				t.Errorf("expected 64 hex chars, got %d", len(a))
			}
		})
	}
}

func TestDeriveID_DistinctNames(t *testing.T) {
	seen := make(map[string]string)
	for _, name := range []string{"APPLE INC", "APPLE INC.", "apple inc", "OKTA, INC.", "ACME INC"} {
		id := DeriveID(name)
		if prev, ok := seen[id]; ok {
			t.Fatalf("collision between %q and %q", prev, name)
		}
		seen[id] = name
	}
}

func TestDeriveID_MatchesPlainSHA256ForASCII(t *testing.T) {
	sum := sha256.Sum256([]byte("APPLE INC"))
	want := hex.EncodeToString(sum[:])
	if got := DeriveID("APPLE INC"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestDeriveID_NormalizesComposedForms(t *testing.T) {
	composed := "Soci\u00e9t\u00e9"
	decomposed := "Socie\u0301te\u0301"
	if DeriveID(composed) != DeriveID(decomposed) {
		t.Error("expected NFC-equivalent names to share an id")
	}
}
