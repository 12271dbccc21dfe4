package pipeline_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/pipeline"
)

func sdj(year int, category honor.Category, id string, created time.Time) honor.Record {
	return honor.Record{
		Year:      year,
		AwardType: "Spiel des Jahres",
		Category:  category,
		HonorID:   id,
		Name:      honor.DisplayName(year, "Spiel des Jahres", ""),
		Source:    honor.SourceScrape,
		CreatedAt: created,
	}
}

func TestMergeReplacesInPlace(t *testing.T) {
	earlier := runAt.Add(-48 * time.Hour)
	stored := sdj(2023, honor.CategoryNominee, "9", earlier)
	stored.Validated = true
	other := sdj(2022, honor.CategoryWinner, "8", earlier)

	incoming := sdj(2023, honor.CategoryWinner, "9", runAt)
	added := sdj(2024, honor.CategoryNominee, "10", runAt)

	got := pipeline.Merge([]honor.Record{stored, other}, []honor.Record{incoming, added})

	replaced := incoming
	replaced.CreatedAt = earlier
	replaced.Validated = true
	want := []honor.Record{replaced, other, added}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	existing := []honor.Record{sdj(2021, honor.CategoryNominee, "1", runAt.Add(-time.Hour))}
	incoming := []honor.Record{
		sdj(2021, honor.CategoryWinner, "1", runAt),
		sdj(2022, honor.CategoryNominee, "2", runAt),
	}
	once := pipeline.Merge(existing, incoming)
	twice := pipeline.Merge(once, incoming)
	if !honor.Equal(once, twice) {
		t.Fatalf("second merge changed the result:\n%s", cmp.Diff(once, twice))
	}
}

func TestMergeInBatchDuplicateKeepsHigherCategory(t *testing.T) {
	incoming := []honor.Record{
		sdj(2020, honor.CategoryWinner, "4", runAt),
		sdj(2020, honor.CategorySpecial, "4", runAt),
	}
	got := pipeline.Merge(nil, incoming)
	if len(got) != 1 || got[0].Category != honor.CategoryWinner {
		t.Fatalf("expected single winner, got %+v", got)
	}
}

func TestMergeKeepsIDLessRecordsApartByName(t *testing.T) {
	a := honor.Record{Year: 2019, AwardType: "Golden Geek", Category: honor.CategoryWinner, Name: "2019 Golden Geek Best Party Game"}
	b := honor.Record{Year: 2019, AwardType: "Golden Geek", Category: honor.CategoryWinner, Name: "2019 Golden Geek Best Family Game"}
	got := pipeline.Merge([]honor.Record{a}, []honor.Record{b})
	if len(got) != 2 {
		t.Fatalf("expected both records, got %+v", got)
	}
}

func TestMergeEmpty(t *testing.T) {
	if got := pipeline.Merge(nil, nil); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestMergeDropsStaleStoredDuplicates(t *testing.T) {
	earlier := runAt.Add(-72 * time.Hour)
	special := sdj(2023, honor.CategorySpecial, "h1", earlier)
	staleWinner := sdj(2023, honor.CategoryWinner, "h1", earlier)
	staleWinner.Validated = true
	other := sdj(2022, honor.CategoryNominee, "h2", earlier)
	otherDup := sdj(2022, honor.CategoryWinner, "h2", earlier)

	incoming := sdj(2023, honor.CategorySpecial, "h1", runAt)
	got := pipeline.Merge([]honor.Record{special, staleWinner, other, otherDup}, []honor.Record{incoming})

	replaced := incoming
	replaced.CreatedAt = earlier
	replaced.Validated = true
	// Keys without incoming data are left for the resolver.
	want := []honor.Record{replaced, other, otherDup}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Merge mismatch (-want +got):\n%s", diff)
	}
	if again := pipeline.Merge(got, []honor.Record{incoming}); !cmp.Equal(got, again) {
		t.Fatalf("second merge changed the collection:\n%s", cmp.Diff(got, again))
	}
}
