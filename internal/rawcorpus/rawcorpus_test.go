package rawcorpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/slugparse"
)

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"array", `[{"id":"a","slug":"2024-x"},{"id":"b","slug":"2023-y"}]`, []string{"a", "b"}},
		{"jsonl", "{\"id\":\"a\"}\n{\"id\":\"b\"}\n\n{\"id\":\"c\"}\n", []string{"a", "b", "c"}},
		{"wrapper", `{"honors":[{"id":"w1"},{"id":"w2"}]}`, []string{"w1", "w2"}},
		{"single object", `{"id":"only"}`, []string{"only"}},
		{"empty", "  \n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode returned error: %v", err)
			}
			var ids []string
			for _, e := range entries {
				ids = append(ids, e.ID)
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Fatalf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{`[{"id":}]`, "{\"id\":\"a\"}\n{broken", `"just a string"`} {
		if _, err := Decode([]byte(input)); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestDecodeGameAliases(t *testing.T) {
	entries, err := Decode([]byte(`[{"id":"h1","boardgames":[{"externalGameId":379043,"name":" Sky Team "},{"id":12,"name":"Other"}]}]`))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	want := []honor.BoardgameRef{{ID: 379043, Name: "Sky Team"}, {ID: 12, Name: "Other"}}
	if diff := cmp.Diff(want, entries[0].Boardgames); diff != "" {
		t.Fatalf("boardgames mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDirReadsFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.jsonl":    "{\"id\":\"b1\"}\n{\"id\":\"b2\"}\n",
		"a.json":     `[{"id":"a1"}]`,
		"notes.txt":  "ignored",
		"c-old.json": `{"honors":[{"id":"c1"}]}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	entries, err := LoadPath(dir)
	if err != nil {
		t.Fatalf("LoadPath returned error: %v", err)
	}
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	if diff := cmp.Diff([]string{"a1", "b1", "b2", "c1"}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadReportsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("[oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := LoadPath(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func intPtr(v int) *int { return &v }

func TestCheckerPrepare(t *testing.T) {
	checker := NewChecker(slugparse.New(slugparse.Options{}))
	games := []honor.BoardgameRef{{ID: 379043, Name: "Sky Team"}}

	tests := []struct {
		name     string
		entry    honor.RawEntry
		wantYear int
		reason   string
	}{
		{
			name:     "year from slug",
			entry:    honor.RawEntry{Slug: "2024-spiel-des-jahres-winner", AwardSet: "2024 Spiel des Jahres", Boardgames: games},
			wantYear: 2024,
		},
		{
			name:     "explicit year wins over slug",
			entry:    honor.RawEntry{Slug: "2024-spiel-des-jahres-winner", Year: intPtr(2023), AwardSet: "2023 Spiel des Jahres", Boardgames: games},
			wantYear: 2023,
		},
		{
			name:   "no year anywhere",
			entry:  honor.RawEntry{Slug: "spiel-des-jahres", AwardSet: "Spiel des Jahres", Boardgames: games},
			reason: ReasonMissingYear,
		},
		{
			name:   "year out of range",
			entry:  honor.RawEntry{Slug: "x", Year: intPtr(1850), AwardSet: "1850 Fair", Boardgames: games},
			reason: ReasonYearOutOfRange,
		},
		{
			name:   "blank award set",
			entry:  honor.RawEntry{Slug: "2020-x", AwardSet: "  ", Boardgames: games},
			reason: ReasonMissingAwardSet,
		},
		{
			name:   "missing year beats missing award set",
			entry:  honor.RawEntry{Slug: "x", Boardgames: games},
			reason: ReasonMissingYear,
		},
		{
			name:   "no games",
			entry:  honor.RawEntry{Slug: "2020-x", AwardSet: "2020 X"},
			reason: ReasonNoGames,
		},
		{
			name:   "zero game id",
			entry:  honor.RawEntry{Slug: "2020-x", AwardSet: "2020 X", Boardgames: []honor.BoardgameRef{{Name: "Ghost"}}},
			reason: ReasonInvalidGame,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, _, reason := checker.Prepare(tt.entry)
			if reason != tt.reason {
				t.Fatalf("reason = %q, want %q", reason, tt.reason)
			}
			if tt.reason == "" && entry.YearValue() != tt.wantYear {
				t.Fatalf("year = %d, want %d", entry.YearValue(), tt.wantYear)
			}
		})
	}
}
