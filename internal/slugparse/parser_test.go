package slugparse_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/robleto/MeepleGo-sub002/internal/slugparse"
)

func TestParseExtractsYearAndTitle(t *testing.T) {
	parser := slugparse.New(slugparse.Options{})

	tests := []struct {
		slug      string
		wantYear  int
		wantOK    bool
		wantTitle string
	}{
		{"2024-spiel-des-jahres-winner", 2024, true, "Spiel des Jahres Winner"},
		{"2019-as-dor-winner", 2019, true, "As d'Or Winner"},
		{"2020-jeu-de-lannee", 2020, true, "Jeu de l'Année"},
		{"2011-the-game-of-the-year_nominee", 2011, true, "The Game of the Year Nominee"},
		{"spiel-des-jahres", 0, false, "Spiel des Jahres"},
		{"1969-early-award", 0, false, "1969 Early Award"},
		{"2031-future-award", 0, false, "2031 Future Award"},
		{"20245-not-a-year", 0, false, "20245 Not a Year"},
		{"2024", 2024, true, ""},
		{"", 0, false, ""},
		{"  1999-golden-geek  ", 1999, true, "Golden Geek"},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			got := parser.Parse(tt.slug)
			if got.HasYear != tt.wantOK || got.Year != tt.wantYear {
				t.Fatalf("year = (%d, %v), want (%d, %v)", got.Year, got.HasYear, tt.wantYear, tt.wantOK)
			}
			if got.TitlePart != tt.wantTitle {
				t.Fatalf("title = %q, want %q", got.TitlePart, tt.wantTitle)
			}
		})
	}
}

func TestParseRespectsConfiguredRange(t *testing.T) {
	parser := slugparse.New(slugparse.Options{MinYear: 2000, MaxYear: 2010})
	if _, ok := parser.Year("1999-x"); ok {
		t.Fatal("expected 1999 to be outside the configured range")
	}
	if year, ok := parser.Year("2005-x"); !ok || year != 2005 {
		t.Fatalf("Year = (%d, %v), want (2005, true)", year, ok)
	}
}

func TestTitleUsesCustomTables(t *testing.T) {
	parser := slugparse.New(slugparse.Options{
		Substitutions:  map[string]string{"spiel": "SPIEL", "deutscher spiele preis": "Deutscher Spiele Preis"},
		LowercaseWords: []string{"x"},
	})
	if got := parser.Title("deutscher-spiele-preis-x-spiel"); got != "Deutscher Spiele Preis x SPIEL" {
		t.Fatalf("Title = %q", got)
	}
	if got := parser.Title("x-marks"); got != "X Marks" {
		t.Fatalf("leading lowercase word should be capitalized, got %q", got)
	}
}

func TestParseNeverPanics(t *testing.T) {
	parser := slugparse.New(slugparse.Options{})
	inputs := []string{
		"---", "____", "\x00\xff", "2024-", "2024--", "é", "12", strings.Repeat("-a", 500), "٢٠٢٤-arabic-digits",
	}
	for _, input := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Parse(%q) panicked: %v", input, r)
				}
			}()
			_ = parser.Parse(input)
		}()
	}
}

func TestParseYearPrefixAcrossRange(t *testing.T) {
	parser := slugparse.New(slugparse.Options{})
	suffixes := []string{"", "-x", "-spiel-des-jahres-winner", "_golden-geek-nominee", " as-dor"}
	for year := 1900; year <= 2099; year++ {
		inRange := year >= slugparse.DefaultMinYear && year <= slugparse.DefaultMaxYear
		for _, suffix := range suffixes {
			slug := fmt.Sprintf("%d%s", year, suffix)
			got := parser.Parse(slug)
			if got.HasYear != inRange {
				t.Fatalf("Parse(%q).HasYear = %v, want %v", slug, got.HasYear, inRange)
			}
			if inRange && got.Year != year {
				t.Fatalf("Parse(%q).Year = %d, want %d", slug, got.Year, year)
			}
			if five := fmt.Sprintf("%d5%s", year, suffix); parser.Parse(five).HasYear {
				t.Fatalf("Parse(%q) took a five-digit prefix as a year", five)
			}
		}
	}
}
