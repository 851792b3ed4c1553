package main

import (
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/david/funding-applicator/internal/engine"
	"github.com/david/funding-applicator/internal/ingest"
	"github.com/david/funding-applicator/internal/models"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: inspect_report <report.json> [sort]")
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	report, err := ingest.ParseReport(raw)
	if err != nil {
		log.Fatal(err)
	}

	sortBy := ingest.SortEasiest
	if len(os.Args) > 2 {
		sortBy = os.Args[2]
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Source", "Provider", "Type", "Amount", "Deadline", "Difficulty", "Sections"})

	for _, opp := range ingest.SortOpportunities(report.Opportunities, sortBy) {
		sections := engine.Segment(opp.RequirementsText, opp, models.Profile{})
		t.AppendRow(table.Row{
			opp.Index,
			opp.SourceName,
			opp.ProviderName,
			opp.SourceType,
			engine.FormatAmountRange(opp),
			opp.DeadlineType,
			opp.Difficulty,
			len(sections),
		})
	}
	t.Render()
}
