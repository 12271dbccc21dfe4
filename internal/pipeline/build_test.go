package pipeline_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/robleto/MeepleGo-sub002/internal/classify"
	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/pipeline"
)

var runAt = time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func TestBuildOneRecordPerDistinctGame(t *testing.T) {
	entry := honor.RawEntry{
		ID:       "77",
		Slug:     "2024-kennerspiel-des-jahres-nominee",
		Title:    "2024 Kennerspiel des Jahres Nominee",
		AwardSet: "Kennerspiel des Jahres",
		Year:     intPtr(2024),
		Boardgames: []honor.BoardgameRef{
			{ID: 10, Name: "Daybreak"},
			{ID: 11, Name: "The Guild of Merchant Explorers"},
			{ID: 10, Name: "Daybreak"},
			{ID: 0, Name: "broken"},
		},
	}
	c := classify.Classification{
		AwardType: "Kennerspiel des Jahres",
		Category:  honor.CategoryNominee,
		Result:    "Nominee",
	}

	got := pipeline.Build(entry, c, runAt, honor.SourceScrape)
	record := honor.Record{
		Year:        2024,
		AwardType:   "Kennerspiel des Jahres",
		Category:    honor.CategoryNominee,
		Result:      "Nominee",
		Source:      honor.SourceScrape,
		HonorID:     "77",
		Name:        "2024 Kennerspiel des Jahres",
		Description: "2024 Kennerspiel des Jahres Nominee",
		Slug:        "2024-kennerspiel-des-jahres-nominee",
		CreatedAt:   runAt,
	}
	want := []pipeline.Built{
		{GameID: 10, GameName: "Daybreak", Record: record},
		{GameID: 11, GameName: "The Guild of Merchant Explorers", Record: record},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Build mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildAppendsSubcategoryToName(t *testing.T) {
	entry := honor.RawEntry{ID: "5", AwardSet: "Golden Geek", Year: intPtr(2019), Boardgames: []honor.BoardgameRef{{ID: 1}}}
	c := classify.Classification{AwardType: "Golden Geek", Category: honor.CategoryWinner, Subcategory: "Best Party Game"}
	got := pipeline.Build(entry, c, runAt, "manual")
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Record.Name != "2019 Golden Geek Best Party Game" {
		t.Fatalf("unexpected name %q", got[0].Record.Name)
	}
	if got[0].Record.Source != "manual" {
		t.Fatalf("unexpected source %q", got[0].Record.Source)
	}
}

func TestGroupKeepsFirstSeenOrder(t *testing.T) {
	rec := func(id string) honor.Record { return honor.Record{HonorID: id} }
	built := []pipeline.Built{
		{GameID: 3, Record: rec("a")},
		{GameID: 1, GameName: "One", Record: rec("b")},
		{GameID: 3, GameName: "Three", Record: rec("c")},
	}
	got := pipeline.Group(built)
	want := []pipeline.GameBatch{
		{ID: 3, Name: "Three", Records: []honor.Record{rec("a"), rec("c")}},
		{ID: 1, Name: "One", Records: []honor.Record{rec("b")}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Group mismatch (-want +got):\n%s", diff)
	}
}
