package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/pipeline"
)

const skyTeam int64 = 379043

func skyTeamEntry() honor.RawEntry {
	return honor.RawEntry{
		ID:         "104050",
		Slug:       "2024-spiel-des-jahres-winner",
		AwardSet:   "Spiel des Jahres",
		Position:   "Winner",
		Boardgames: []honor.BoardgameRef{{ID: skyTeam, Name: "Sky Team"}},
	}
}

func showGame(t *testing.T, env *cliTestEnv, id string) honor.Game {
	t.Helper()
	out, _, err := runCLI(t, []string{"game", "show", id, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("game show: %v", err)
	}
	var game honor.Game
	if err := json.Unmarshal([]byte(out), &game); err != nil {
		t.Fatalf("decode game: %v\n%s", err, out)
	}
	return game
}

func TestRebuildWritesHonors(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, honor.Game{ID: skyTeam, Name: "Sky Team"})
	input := env.writeInput(t, skyTeamEntry())

	out, _, err := runCLI(t, []string{"rebuild", "--input", input, "--verify"}, env.configPath)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	requireContains(t, out, "Rebuild summary")
	requireContains(t, out, "Integrity: OK")

	game := showGame(t, env, "379043")
	if len(game.Honors) != 1 {
		t.Fatalf("expected one honor, got %+v", game.Honors)
	}
	rec := game.Honors[0]
	if rec.Category != honor.CategoryWinner || rec.Year != 2024 || rec.Name != "2024 Spiel des Jahres" {
		t.Fatalf("unexpected honor: %+v", rec)
	}

	out, _, err = runCLI(t, []string{"rebuild", "--input", input, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	var summary pipeline.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if summary.Unchanged != 1 || summary.Updated != 0 {
		t.Fatalf("expected unchanged second run, got %+v", summary)
	}
}

func TestRebuildDryRunDoesNotWrite(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, honor.Game{ID: skyTeam, Name: "Sky Team"})
	input := env.writeInput(t, skyTeamEntry())

	out, _, err := runCLI(t, []string{"rebuild", "--input", input, "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("rebuild --dry-run: %v", err)
	}
	requireContains(t, out, "(dry run)")

	if game := showGame(t, env, "379043"); len(game.Honors) != 0 {
		t.Fatalf("dry run stored honors: %+v", game.Honors)
	}
}

func TestRebuildRequiresInput(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"rebuild"}, env.configPath); err == nil {
		t.Fatal("expected error without --input")
	}
}

func TestVerifyFailOnViolations(t *testing.T) {
	env := setupCLITestEnv(t)
	at := time.Date(2021, 7, 19, 0, 0, 0, 0, time.UTC)
	winner := func(id string) []honor.Record {
		return []honor.Record{{
			Year:      2021,
			AwardType: "Spiel des Jahres",
			Category:  honor.CategoryWinner,
			Source:    honor.SourceScrape,
			HonorID:   id,
			Name:      "2021 Spiel des Jahres",
			CreatedAt: at,
		}}
	}
	env.seed(t,
		honor.Game{ID: 1, Name: "MicroMacro: Crime City", Honors: winner("a")},
		honor.Game{ID: 2, Name: "Zombie Teenz Evolution", Honors: winner("b")},
	)

	out, _, err := runCLI(t, []string{"verify"}, env.configPath)
	if err != nil {
		t.Fatalf("verify without fail flag: %v", err)
	}
	requireContains(t, out, "winner-count")

	_, _, err = runCLI(t, []string{"verify", "--fail-on-violations"}, env.configPath)
	if !errors.Is(err, errViolations) {
		t.Fatalf("expected errViolations, got %v", err)
	}
}

func TestResolveCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	at := time.Date(2023, 7, 16, 0, 0, 0, 0, time.UTC)
	rec := func(category honor.Category, id string) honor.Record {
		return honor.Record{Year: 2023, AwardType: "Spiel des Jahres", Category: category, HonorID: id, Name: "2023 Spiel des Jahres", Source: honor.SourceScrape, CreatedAt: at}
	}
	env.seed(t, honor.Game{ID: 7, Name: "Dorfromantik", Honors: []honor.Record{
		rec(honor.CategorySpecial, "s"),
		rec(honor.CategoryWinner, "w"),
	}})

	out, _, err := runCLI(t, []string{"resolve", "--game", "7"}, env.configPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	requireContains(t, out, "Resolve summary")

	game := showGame(t, env, "7")
	if len(game.Honors) != 1 || game.Honors[0].Category != honor.CategoryWinner {
		t.Fatalf("expected only the winner to remain, got %+v", game.Honors)
	}
}

func TestParseCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"parse", "2024-spiel-des-jahres-winner", "--award-set", "Spiel des Jahres", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var results []parseResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode parse output: %v\n%s", err, out)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	got := results[0]
	if got.Year != 2024 || got.Category != "Winner" || got.Signal != "slug" || got.Name != "2024 Spiel des Jahres" {
		t.Fatalf("unexpected parse result: %+v", got)
	}
}

func TestPlaceholdersDelete(t *testing.T) {
	env := setupCLITestEnv(t)
	at := time.Date(2023, 7, 16, 0, 0, 0, 0, time.UTC)
	env.seed(t,
		honor.Game{ID: 1, Name: "2023 Spiel des Jahres", Honors: []honor.Record{{Year: 2023, AwardType: "Spiel des Jahres", Category: honor.CategoryWinner, Name: "2023 Spiel des Jahres", Source: honor.SourceScrape, CreatedAt: at}}},
		honor.Game{ID: 2, Name: "Dorfromantik"},
	)

	out, _, err := runCLI(t, []string{"placeholders"}, env.configPath)
	if err != nil {
		t.Fatalf("placeholders: %v", err)
	}
	requireContains(t, out, "1 placeholder(s)")

	out, _, err = runCLI(t, []string{"placeholders", "--delete"}, env.configPath)
	if err != nil {
		t.Fatalf("placeholders --delete: %v", err)
	}
	requireContains(t, out, "1 deleted")

	if _, _, err := runCLI(t, []string{"game", "show", "1"}, env.configPath); err == nil {
		t.Fatal("expected deleted placeholder to be gone")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Store backend: sqlite")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireFile(t, target)

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
}
