package verify

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robleto/MeepleGo-sub002/internal/awardrules"
	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/placeholder"
)

func rec(year int, award string, category honor.Category) honor.Record {
	return honor.Record{
		Year:      year,
		AwardType: award,
		Category:  category,
		Name:      honor.DisplayName(year, award, ""),
		Source:    honor.SourceScrape,
	}
}

func game(id int64, records ...honor.Record) honor.Game {
	return honor.Game{ID: id, Name: "Game", Honors: records}
}

func defaultVerifier(matcher PlaceholderMatcher) *Verifier {
	return New(awardrules.NewSet(true, awardrules.Defaults()...), matcher)
}

func TestVerifyCleanCorpus(t *testing.T) {
	games := []honor.Game{
		game(1, rec(2021, "Spiel des Jahres", honor.CategoryWinner)),
		game(2, rec(2021, "Spiel des Jahres", honor.CategoryNominee)),
		game(3, rec(2021, "Spiel des Jahres", honor.CategoryNominee)),
	}
	report := defaultVerifier(nil).Verify(games)
	if !report.OK() {
		t.Fatalf("expected no violations, got %+v", report.Violations)
	}
	if report.Games != 3 || report.Records != 3 || report.Groups != 1 {
		t.Fatalf("unexpected totals: %+v", report)
	}
}

func TestVerifyWinnerCount(t *testing.T) {
	games := []honor.Game{
		game(10, rec(2021, "Spiel des Jahres", honor.CategoryWinner)),
		game(11, rec(2021, "spiel des  jahres", honor.CategoryWinner)),
	}
	report := defaultVerifier(nil).Verify(games)
	want := []Violation{{
		Year:      2021,
		AwardType: "Spiel des Jahres",
		Rule:      RuleWinnerCount,
		Detail:    "2",
		Count:     2,
		Limit:     1,
		GameIDs:   []int64{10, 11},
	}}
	if diff := cmp.Diff(want, report.Violations); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
}

func TestVerifyWinnerCountRespectsWinnerFrom(t *testing.T) {
	games := []honor.Game{
		game(1, rec(2009, "Kennerspiel des Jahres", honor.CategoryNominee)),
		game(2, rec(2012, "Kennerspiel des Jahres", honor.CategoryNominee)),
	}
	report := defaultVerifier(nil).Verify(games)
	counts := report.CountByRule()
	if counts[RuleWinnerCount] != 1 {
		t.Fatalf("expected one winner-count violation, got %+v", report.Violations)
	}
	if report.Violations[0].Year != 2012 || report.Violations[0].Detail != "0" {
		t.Fatalf("unexpected violation: %+v", report.Violations[0])
	}
}

func TestVerifyNomineeCap(t *testing.T) {
	games := []honor.Game{game(1, rec(2020, "Spiel des Jahres", honor.CategoryWinner))}
	for id := int64(2); id <= 5; id++ {
		games = append(games, game(id, rec(2020, "Spiel des Jahres", honor.CategoryNominee)))
	}
	report := defaultVerifier(nil).Verify(games)
	if len(report.Violations) != 1 {
		t.Fatalf("expected one violation, got %+v", report.Violations)
	}
	got := report.Violations[0]
	if got.Rule != RuleNomineeCap || got.Count != 4 || got.Limit != 3 {
		t.Fatalf("unexpected violation: %+v", got)
	}
	if diff := cmp.Diff([]int64{2, 3, 4, 5}, got.GameIDs); diff != "" {
		t.Fatalf("game ids mismatch (-want +got):\n%s", diff)
	}
}

func TestVerifyEarlyEraDisallowsNominees(t *testing.T) {
	games := []honor.Game{
		game(1, rec(1995, "Spiel des Jahres", honor.CategoryWinner)),
		game(2, rec(1995, "Spiel des Jahres", honor.CategoryNominee)),
	}
	report := defaultVerifier(nil).Verify(games)
	if report.CountByRule()[RuleNomineeCap] != 1 {
		t.Fatalf("expected nominee-cap violation, got %+v", report.Violations)
	}
}

func TestVerifyUnknownFamilyUsesDefault(t *testing.T) {
	games := []honor.Game{
		game(1, rec(2018, "Golden Geek", honor.CategoryWinner)),
		game(2, rec(2018, "Golden Geek", honor.CategoryWinner)),
	}
	if report := New(awardrules.NewSet(false), nil).Verify(games); !report.OK() {
		t.Fatalf("expected no violations without single-winner default, got %+v", report.Violations)
	}
	if report := New(awardrules.NewSet(true), nil).Verify(games); report.CountByRule()[RuleWinnerCount] != 1 {
		t.Fatalf("expected winner-count violation, got %+v", report.Violations)
	}
}

func TestVerifyInvalidRecords(t *testing.T) {
	games := []honor.Game{game(7,
		rec(0, "Spiel des Jahres", honor.CategoryWinner),
		rec(2020, " ", honor.CategoryWinner),
		rec(2020, "Spiel des Jahres", honor.CategoryUnknown),
	)}
	report := New(awardrules.NewSet(false), nil).Verify(games)
	if report.CountByRule()[RuleInvalidRecord] != 3 {
		t.Fatalf("expected three invalid-record violations, got %+v", report.Violations)
	}
	if report.Groups != 0 {
		t.Fatalf("invalid records must not form groups, got %d", report.Groups)
	}
}

type namedPlaceholders map[int64]bool

func (n namedPlaceholders) IsPlaceholder(game honor.Game) bool { return n[game.ID] }

func TestVerifyPlaceholderGames(t *testing.T) {
	games := []honor.Game{
		game(1, rec(2021, "Spiel des Jahres", honor.CategoryWinner)),
		{ID: 99, Name: "2021 Spiel des Jahres Winner"},
	}
	report := defaultVerifier(namedPlaceholders{99: true}).Verify(games)
	if len(report.Violations) != 1 {
		t.Fatalf("expected one violation, got %+v", report.Violations)
	}
	got := report.Violations[0]
	if got.Rule != RulePlaceholderGame || len(got.GameIDs) != 1 || got.GameIDs[0] != 99 {
		t.Fatalf("unexpected violation: %+v", got)
	}
}

func TestVerifySortsViolations(t *testing.T) {
	games := []honor.Game{
		game(1, rec(2022, "Spiel des Jahres", honor.CategoryWinner)),
		game(2, rec(2022, "Spiel des Jahres", honor.CategoryWinner)),
		game(3, rec(2020, "Spiel des Jahres", honor.CategoryWinner)),
		game(4, rec(2020, "Spiel des Jahres", honor.CategoryWinner)),
		game(5, rec(2019, "Kinderspiel des Jahres", honor.CategoryWinner)),
		game(6, rec(2019, "Kinderspiel des Jahres", honor.CategoryWinner)),
	}
	report := defaultVerifier(nil).Verify(games)
	var got []string
	for _, v := range report.Violations {
		got = append(got, honor.GroupKey{AwardType: v.AwardType, Year: v.Year}.String())
	}
	want := []string{
		"2019 Kinderspiel des Jahres",
		"2020 Spiel des Jahres",
		"2022 Spiel des Jahres",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestNilReport(t *testing.T) {
	var r *Report
	if !r.OK() || len(r.CountByRule()) != 0 {
		t.Fatal("nil report should be OK and empty")
	}
}

func TestVerifyReportsUnreadableCollections(t *testing.T) {
	games := []honor.Game{
		game(1, rec(2021, "Spiel des Jahres", honor.CategoryWinner)),
		{ID: 8, Name: "Broken", Unreadable: "corrupt honors collection: unexpected end of JSON input"},
	}
	report := defaultVerifier(nil).Verify(games)
	if report.Games != 2 || report.Records != 1 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if len(report.Violations) != 1 {
		t.Fatalf("expected one violation, got %+v", report.Violations)
	}
	got := report.Violations[0]
	if got.Rule != RuleInvalidRecord || got.Count != 1 || !cmp.Equal(got.GameIDs, []int64{8}) {
		t.Fatalf("unexpected violation: %+v", got)
	}
}

func TestVerifyDoesNotWidenSharedDetector(t *testing.T) {
	d := placeholder.NewDetector(placeholder.Options{})
	games := []honor.Game{
		game(1, rec(2021, "Kinderspiel des Jahres", honor.CategoryWinner)),
		{ID: 99, Name: "2021 Kinderspiel des Jahres"},
	}
	v := defaultVerifier(d)
	for run := 0; run < 2; run++ {
		report := v.Verify(games)
		if report.CountByRule()[RulePlaceholderGame] != 1 {
			t.Fatalf("run %d: expected the placeholder to be flagged, got %+v", run, report.Violations)
		}
		if got := d.Families(); len(got) != 0 {
			t.Fatalf("run %d: shared detector widened to %v", run, got)
		}
	}
}
