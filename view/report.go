package view

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"carscout/models"
	"carscout/pipeline"
)

// Deal table column labels, in display order.
var dealHeaders = table.Row{
	"Deal Δ ($)", "Price", "Miles", "Year/Model/Trim",
	"Transmission", "Colors (Ext / Int)", "Top Options", "Source",
}

// PrintDealTable renders the ranked listings as a terminal table.
// Underpriced deals (positive delta) show green, overpriced red.
func PrintDealTable(rows []models.DisplayRow) {
	if len(rows) == 0 {
		fmt.Println("(no listings)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(dealHeaders)

	t.SetColumnConfigs([]table.ColumnConfig{
		{
			Name: "Deal Δ ($)",
			Transformer: func(val interface{}) string {
				s, _ := val.(string)
				switch {
				case strings.HasPrefix(s, "+"):
					return text.FgGreen.Sprint(s)
				case strings.HasPrefix(s, "-"):
					return text.FgRed.Sprint(s)
				}
				return s
			},
		},
	})

	for _, r := range rows {
		t.AppendRow(table.Row{
			r.DealDelta, r.Price, r.Miles, r.YearModelTrim,
			r.Transmission, r.Colors, r.TopOptions, r.Source,
		})
	}

	t.Render()
	fmt.Printf("(%d listings)\n", len(rows))
}

// PrintMarketSummary shows median adjusted prices per market bucket.
func PrintMarketSummary(medians map[pipeline.GroupKey]int) {
	if len(medians) == 0 {
		return
	}

	keys := make([]pipeline.GroupKey, 0, len(medians))
	for k := range medians {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Model != keys[j].Model {
			return keys[i].Model < keys[j].Model
		}
		if keys[i].Transmission != keys[j].Transmission {
			return keys[i].Transmission < keys[j].Transmission
		}
		return keys[i].MileageBand < keys[j].MileageBand
	})

	thin := strings.Repeat("─", 54)
	fmt.Printf("\n\033[1;33m  Median Fair Value by Group\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, k := range keys {
		label := fmt.Sprintf("%s / %s / %s mi", k.Model, k.Transmission, k.MileageBand)
		fmt.Printf("  %-42s \033[1;32m$%d\033[0m\n", label, medians[k])
	}
	fmt.Println()
}
