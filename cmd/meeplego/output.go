package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/robleto/MeepleGo-sub002/internal/pipeline"
	"github.com/robleto/MeepleGo-sub002/internal/verify"
)

var errViolations = errors.New("integrity violations found")

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorize(value string, enabled bool, colors ...text.Color) string {
	if !enabled {
		return value
	}
	return text.Colors(colors).Sprint(value)
}

func renderRunSummary(w io.Writer, s *pipeline.Summary, color bool) {
	title := "Rebuild summary"
	if s.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintf(w, "%s  run %s\n", colorize(title, color, text.Bold), s.RunID)
	rows := [][]string{
		{"Entries", strconv.Itoa(s.Entries)},
		{"Skipped", strconv.Itoa(s.Skipped)},
		{"Records built", strconv.Itoa(s.Records)},
		{"Games", strconv.Itoa(s.Games)},
		{"Updated", strconv.Itoa(s.Updated)},
		{"Unchanged", strconv.Itoa(s.Unchanged)},
		{"Created", strconv.Itoa(s.Created)},
		{"Missing", strconv.Itoa(s.Missing)},
		{"Failed", strconv.Itoa(len(s.Failed))},
		{"Duplicates removed", strconv.Itoa(s.Duplicates)},
		{"Specials suppressed", strconv.Itoa(s.SuppressedSpecials)},
		{"Duration", s.Duration.Round(time.Millisecond).String()},
	}
	printTable(w, []column{{"Metric", false}, {"Value", true}}, rows)

	if len(s.SkipReasons) > 0 {
		reasons := make([]string, 0, len(s.SkipReasons))
		for reason := range s.SkipReasons {
			reasons = append(reasons, reason)
		}
		slices.Sort(reasons)
		skipRows := make([][]string, 0, len(reasons))
		for _, reason := range reasons {
			skipRows = append(skipRows, []string{reason, strconv.Itoa(s.SkipReasons[reason])})
		}
		printTable(w, []column{{"Skip reason", false}, {"Entries", true}}, skipRows)
	}
	renderFailures(w, s.Failed, color)
	if s.Report != nil {
		renderReport(w, s.Report, color)
	}
}

func renderFailures(w io.Writer, failed []pipeline.GameFailure, color bool) {
	if len(failed) == 0 {
		return
	}
	fmt.Fprintln(w, colorize(fmt.Sprintf("%d game(s) failed", len(failed)), color, text.FgRed))
	rows := make([][]string, 0, len(failed))
	for _, f := range failed {
		rows = append(rows, []string{strconv.FormatInt(f.GameID, 10), f.Operation, strconv.Itoa(f.Attempts), f.Error})
	}
	printTable(w, []column{{"Game", true}, {"Operation", false}, {"Attempts", true}, {"Error", false}}, rows)
}

func renderReport(w io.Writer, r *verify.Report, color bool) {
	fmt.Fprintf(w, "Verified %d games, %d records, %d award groups\n", r.Games, r.Records, r.Groups)
	if r.OK() {
		fmt.Fprintln(w, colorize("Integrity: OK", color, text.FgGreen))
		return
	}
	fmt.Fprintln(w, colorize(fmt.Sprintf("Integrity: %d violation(s)", len(r.Violations)), color, text.FgRed))
	rows := make([][]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		year := ""
		if v.Year != 0 {
			year = strconv.Itoa(v.Year)
		}
		rows = append(rows, []string{v.AwardType, year, v.Rule, v.Detail, formatIDs(v.GameIDs)})
	}
	printTable(w, []column{{"Award", false}, {"Year", true}, {"Rule", false}, {"Detail", false}, {"Games", false}}, rows)
}

func renderResolveSummary(w io.Writer, s *pipeline.ResolveSummary, color bool) {
	title := "Resolve summary"
	if s.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintf(w, "%s  run %s\n", colorize(title, color, text.Bold), s.RunID)
	rows := [][]string{
		{"Games", strconv.Itoa(s.Games)},
		{"Updated", strconv.Itoa(s.Updated)},
		{"Unchanged", strconv.Itoa(s.Unchanged)},
		{"Failed", strconv.Itoa(len(s.Failed))},
		{"Duplicates removed", strconv.Itoa(s.Duplicates)},
		{"Specials suppressed", strconv.Itoa(s.SuppressedSpecials)},
	}
	printTable(w, []column{{"Metric", false}, {"Value", true}}, rows)
	if len(s.Changes) > 0 {
		changeRows := make([][]string, 0, len(s.Changes))
		for _, c := range s.Changes {
			changeRows = append(changeRows, []string{
				strconv.FormatInt(c.GameID, 10),
				c.Name,
				strconv.Itoa(len(c.Before)),
				strconv.Itoa(len(c.After)),
			})
		}
		printTable(w, []column{{"Game", true}, {"Name", false}, {"Before", true}, {"After", true}}, changeRows)
	}
	renderFailures(w, s.Failed, color)
}

func formatIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ", ")
}

// runOutcome turns a finished run into the command's exit status.
func runOutcome(failed []pipeline.GameFailure, report *verify.Report, failOnViolations bool) error {
	if len(failed) > 0 {
		return fmt.Errorf("%d game(s) failed; see the failure report", len(failed))
	}
	if failOnViolations && !report.OK() {
		return fmt.Errorf("%w: %d", errViolations, len(report.Violations))
	}
	return nil
}
