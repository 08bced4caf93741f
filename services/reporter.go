package services

import (
	"fmt"
	"io"
	"strings"

	"recipebox/models"
)

// PrintSeedReport formats the run summary for the terminal
func PrintSeedReport(w io.Writer, report *models.SeedReport) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("RECIPE SEED SUMMARY", 55))
	fmt.Fprintf(w, "╚%s╝\n", border)

	fmt.Fprintf(w, "\n PIPELINE\n%s\n", thin)
	fmt.Fprintf(w, "  Raw records fetched     : %d\n", report.RawRecords)
	fmt.Fprintf(w, "  Usable after normalize  : %d\n", report.UsableRecipes)
	fmt.Fprintf(w, "  Unique titles           : %d\n", report.UniqueRecipes)
	fmt.Fprintf(w, "  Written                 : %d\n", report.Written)

	fmt.Fprintf(w, "\n SOURCES\n%s\n", thin)
	for _, s := range []models.Strategy{models.StrategySearch, models.StrategyCategory, models.StrategyArea} {
		fmt.Fprintf(w, "  %-10s fetched %4d   failed branches %d\n", s, report.Fetched[s], report.FailedBranches[s])
	}

	if len(report.ByCategory) > 0 {
		fmt.Fprintf(w, "\n RECIPES PER CATEGORY\n%s\n", thin)
		for _, c := range sortedCategories(report.ByCategory) {
			bar := strings.Repeat("▓", c.count)
			fmt.Fprintf(w, "  %-25s %3d  %s\n", truncate(c.name, 24)+":", c.count, bar)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
