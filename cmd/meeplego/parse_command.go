package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robleto/MeepleGo-sub002/internal/app"
	"github.com/robleto/MeepleGo-sub002/internal/honor"
)

type parseResult struct {
	Slug        string `json:"slug"`
	Year        int    `json:"year,omitempty"`
	Title       string `json:"title"`
	AwardType   string `json:"award_type"`
	Category    string `json:"category"`
	Signal      string `json:"signal"`
	Result      string `json:"result,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	Name        string `json:"name,omitempty"`
}

func newParseCommand(ctx *commandContext) *cobra.Command {
	var (
		position string
		awardSet string
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "parse SLUG...",
		Short: "Show how slugs are parsed and classified",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			parser := app.NewParser(cfg)
			classifier := app.NewClassifier(cfg)

			results := make([]parseResult, 0, len(args))
			for _, slug := range args {
				parsed := parser.Parse(slug)
				set := strings.TrimSpace(awardSet)
				if set == "" {
					set = parsed.TitlePart
				}
				entry := honor.RawEntry{Slug: slug, Position: position, AwardSet: set}
				if parsed.HasYear {
					year := parsed.Year
					entry.Year = &year
				}
				res := parseResult{Slug: slug, Year: parsed.Year, Title: parsed.TitlePart}
				c, err := classifier.Classify(entry, parsed)
				if err == nil {
					res.AwardType = c.AwardType
					res.Category = c.Category.String()
					res.Signal = string(c.Signal)
					res.Result = c.Result
					res.Subcategory = c.Subcategory
					if parsed.HasYear {
						res.Name = honor.DisplayName(parsed.Year, c.AwardType, c.Subcategory)
					}
				} else {
					res.Category = honor.CategoryUnknown.String()
				}
				results = append(results, res)
			}

			if jsonOut {
				return writeJSON(cmd, results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				year := ""
				if r.Year != 0 {
					year = strconv.Itoa(r.Year)
				}
				rows = append(rows, []string{r.Slug, year, r.Title, r.Category, r.Signal, r.Subcategory})
			}
			printTable(cmd.OutOrStdout(), []column{{"Slug", false}, {"Year", true}, {"Title", false}, {"Category", false}, {"Signal", false}, {"Subcategory", false}}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&position, "position", "", "Position text to classify alongside the slug")
	cmd.Flags().StringVar(&awardSet, "award-set", "", "Award set name (defaults to the slug title)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output results as JSON")
	return cmd
}
