package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/appengine-ltd/fungi/internal/game"
	"github.com/appengine-ltd/fungi/internal/parser"
	"github.com/appengine-ltd/fungi/internal/settings"
)

type docFile struct {
	Name    string
	Title   string
	Content string
}

func main() {
	var configPath, root string
	flag.StringVar(&configPath, "config", "", "settings YAML to document instead of the defaults")
	flag.StringVar(&root, "out", filepath.Join("docs", "reference"), "output directory")
	flag.Parse()

	tbl, err := settings.Load(configPath)
	if err != nil {
		fatal(err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		fatal(err)
	}

	files := []docFile{
		generateSpeciesDoc(tbl),
		generateEconomyDoc(tbl),
		generateCommandsDoc(parser.New()),
	}
	for _, f := range files {
		path := filepath.Join(root, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	index := generateIndex(files)
	indexPath := filepath.Join(root, "README.md")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s\n", indexPath)
}

func generateIndex(files []docFile) string {
	var b strings.Builder
	b.WriteString("# Reference\n\n")
	b.WriteString("Generated from the current settings table using `go run ./cmd/docsgen`.\n\n")
	for _, f := range files {
		b.WriteString(fmt.Sprintf("- [%s](./%s)\n", f.Title, f.Name))
	}
	return b.String()
}

func generateSpeciesDoc(tbl settings.Table) docFile {
	sum := tbl.FrequencySum()

	var b strings.Builder
	b.WriteString("# Species\n\n")
	b.WriteString(fmt.Sprintf("Total species: **%d**. An empty slot stays empty with probability %s.\n\n",
		len(tbl.Mushrooms), formatPercent(tbl.EmptySlotFrequency/sum)))
	b.WriteString("| Name | Value | Frequency | Spawn chance | Obstacle | Worth at stage 1 / 2 / 3 |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, sp := range tbl.Mushrooms {
		worth := "-"
		if !tbl.IsObstacle(sp.Name) {
			parts := make([]string, 0, game.MaxStage)
			for stage := game.MinStage; stage <= game.MaxStage; stage++ {
				parts = append(parts, formatFloat(singleWorth(tbl, sp, stage)))
			}
			worth = strings.Join(parts, " / ")
		}
		b.WriteString("| ")
		b.WriteString(escape(sp.Name))
		b.WriteString(" | ")
		b.WriteString(formatFloat(sp.Value))
		b.WriteString(" | ")
		b.WriteString(formatFloat(sp.Frequency))
		b.WriteString(" | ")
		b.WriteString(formatPercent(sp.Frequency / sum))
		b.WriteString(" | ")
		b.WriteString(yesNo(tbl.IsObstacle(sp.Name)))
		b.WriteString(" | ")
		b.WriteString(worth)
		b.WriteString(" |\n")
	}
	return docFile{Name: "species.md", Title: "Species", Content: b.String()}
}

// singleWorth is what one mushroom adds to the inventory before bonuses and
// multipliers.
func singleWorth(tbl settings.Table, sp settings.Species, stage int) float64 {
	s := float64(stage)
	return sp.Value*s + math.Pow(s-1, tbl.StageBonusExponent)
}

func generateEconomyDoc(tbl settings.Table) docFile {
	var b strings.Builder
	b.WriteString("# Economy\n\n")
	b.WriteString(fmt.Sprintf("Starting gold **%s**, capped at **%s** when selling. Each advance costs **%s**.\n\n",
		formatFloat(tbl.StartingGold), formatFloat(tbl.MaxGoldCap), formatFloat(tbl.AdvanceCost)))
	b.WriteString(fmt.Sprintf("An empty slot is repopulated with probability %s per advance.\n\n", formatPercent(tbl.RepopulationFactor)))

	b.WriteString("## Pickup cost\n\n")
	b.WriteString("| Stage | Cost |\n| --- | --- |\n")
	var slot game.Slot
	for stage := game.MinStage; stage <= game.MaxStage; stage++ {
		slot.Set("x", stage)
		cost := slot.PickupCost(tbl.PickupCost, tbl.PickupPenalty, tbl.PickupPenaltyExponent)
		b.WriteString(fmt.Sprintf("| %d | %s |\n", stage, formatFloat(cost)))
	}

	b.WriteString("\n## Selling\n\n")
	b.WriteString("| Rule | Effect |\n| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Stage bonus | + (stage-1)^%s per mushroom |\n", formatFloat(tbl.StageBonusExponent)))
	b.WriteString(fmt.Sprintf("| All the same species | x%s |\n", formatFloat(tbl.SameTypeMultiplier)))
	b.WriteString(fmt.Sprintf("| All the same stage | x%s |\n", formatFloat(tbl.SameStageMultiplier)))
	b.WriteString(fmt.Sprintf("| Full bag of distinct species | +%s before multipliers |\n", formatFloat(tbl.TricolorBonus)))
	return docFile{Name: "economy.md", Title: "Economy", Content: b.String()}
}

func generateCommandsDoc(p *parser.Parser) docFile {
	var b strings.Builder
	b.WriteString("# Commands\n\n")
	b.WriteString("Typed after `:` in the terminal client. Typos within a couple of letters are corrected.\n\n")
	b.WriteString("| Command | Aliases | Takes |\n| --- | --- | --- |\n")
	for _, c := range p.Commands() {
		takes := ""
		if c.MinArgs > 0 {
			takes = "slot number or mushroom name"
		}
		b.WriteString("| ")
		b.WriteString(escape(c.Canonical))
		b.WriteString(" | ")
		b.WriteString(escape(strings.Join(c.Aliases, ", ")))
		b.WriteString(" | ")
		b.WriteString(takes)
		b.WriteString(" |\n")
	}
	return docFile{Name: "commands.md", Title: "Commands", Content: b.String()}
}

func formatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}

func escape(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "|", "\\|")
	v = strings.ReplaceAll(v, "\n", "<br>")
	return v
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
