package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/erain9/ordercache/pkg/core"
	"github.com/fatih/color"
)

type reportLine struct {
	securityID string
	buys       int
	sells      int
	matched    uint64
}

func buildReport(cache *core.Cache) []reportLine {
	lines := map[string]*reportLine{}
	for _, order := range cache.GetAllOrders() {
		line, ok := lines[order.SecurityID()]
		if !ok {
			line = &reportLine{securityID: order.SecurityID()}
			lines[order.SecurityID()] = line
		}
		if order.Side() == core.Buy {
			line.buys++
		} else {
			line.sells++
		}
	}

	out := make([]reportLine, 0, len(lines))
	for _, securityID := range cache.Securities() {
		line := lines[securityID]
		line.matched = cache.GetMatchingSizeForSecurity(securityID)
		out = append(out, *line)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].securityID < out[j].securityID
	})
	return out
}

// writeReport prints the matching size of every security in the cache
func writeReport(w io.Writer, cache *core.Cache) error {
	cyan := color.New(color.FgCyan).SprintfFunc()
	green := color.New(color.FgGreen).SprintfFunc()
	red := color.New(color.FgRed).SprintfFunc()

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cyan("Security"), cyan("Buys"), cyan("Sells"), cyan("Matched"))
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", "--------", "----", "-----", "-------")

	for _, line := range buildReport(cache) {
		matched := red("%d", line.matched)
		if line.matched > 0 {
			matched = green("%d", line.matched)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", line.securityID, line.buys, line.sells, matched)
	}

	fmt.Fprintf(tw, "\n%d orders\t\t\t\n", cache.Len())
	return tw.Flush()
}
