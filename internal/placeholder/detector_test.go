package placeholder_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/placeholder"
)

func newDetector() *placeholder.Detector {
	return placeholder.NewDetector(placeholder.Options{
		Families: []string{"Spiel des Jahres", "Kennerspiel des Jahres"},
	})
}

func TestMatch(t *testing.T) {
	d := newDetector()
	tests := []struct {
		name   string
		reason placeholder.Reason
		ok     bool
	}{
		{"2023 Spiel des Jahres", placeholder.ReasonYearPrefix, true},
		{"2023 Kennerspiel des Jahres Nominee", placeholder.ReasonYearPrefix, true},
		{"Spiel des Jahres Winner", placeholder.ReasonSimilar, true},
		{"jahres des SPIEL", placeholder.ReasonSimilar, true},
		{"Spiel des Jahres 2019 Empfehlungsliste Recommended", placeholder.ReasonSignal, true},
		{"Sky Team", "", false},
		{"2023 Sky Team", "", false},
		{"Spiel", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := d.Match(tt.name)
			if ok != tt.ok || reason != tt.reason {
				t.Fatalf("Match(%q) = %q, %v; want %q, %v", tt.name, reason, ok, tt.reason, tt.ok)
			}
		})
	}
}

func TestMatchWithoutFamilies(t *testing.T) {
	d := placeholder.NewDetector(placeholder.Options{})
	if _, ok := d.Match("2023 Spiel des Jahres"); ok {
		t.Fatal("detector without families must not flag anything")
	}
}

func TestAddFamiliesDeduplicates(t *testing.T) {
	d := newDetector()
	d.AddFamilies(" spiel  des JAHRES ", "Kinderspiel des Jahres", "")
	want := []string{"Spiel des Jahres", "Kennerspiel des Jahres", "Kinderspiel des Jahres"}
	if diff := cmp.Diff(want, d.Families()); diff != "" {
		t.Fatalf("Families mismatch (-want +got):\n%s", diff)
	}
	if !d.IsPlaceholder(honor.Game{ID: 1, Name: "2022 Kinderspiel des Jahres"}) {
		t.Fatal("expected learned family to be detected")
	}
}

func TestObservedFamilies(t *testing.T) {
	games := []honor.Game{
		{ID: 1, Honors: []honor.Record{{AwardType: "Spiel des Jahres"}, {AwardType: "As d'Or"}}},
		{ID: 2, Honors: []honor.Record{{AwardType: "spiel des jahres"}, {AwardType: " "}}},
	}
	want := []string{"Spiel des Jahres", "As d'Or"}
	if diff := cmp.Diff(want, placeholder.ObservedFamilies(games)); diff != "" {
		t.Fatalf("ObservedFamilies mismatch (-want +got):\n%s", diff)
	}
}

func TestWithFamiliesLeavesReceiverUnchanged(t *testing.T) {
	d := newDetector()
	wider := d.WithFamilies("Kinderspiel des Jahres", "spiel des jahres")

	want := []string{"Spiel des Jahres", "Kennerspiel des Jahres"}
	if diff := cmp.Diff(want, d.Families()); diff != "" {
		t.Fatalf("receiver families changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Spiel des Jahres", "Kennerspiel des Jahres", "Kinderspiel des Jahres"}, wider.Families()); diff != "" {
		t.Fatalf("copy families mismatch (-want +got):\n%s", diff)
	}
	game := honor.Game{ID: 1, Name: "2022 Kinderspiel des Jahres"}
	if d.IsPlaceholder(game) {
		t.Fatal("receiver must not know the added family")
	}
	if !wider.IsPlaceholder(game) {
		t.Fatal("copy must detect the added family")
	}
}
