package telemetry

import (
	"fmt"
	"io"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats describes one column of a batch of games.
type Stats struct {
	Mean   float64
	StdDev float64
	Median float64
	P90    float64
	Min    float64
	Max    float64
}

type Summary struct {
	Games    int
	Outcomes map[string]int
	Gold     Stats
	Turns    Stats
	Sales    Stats
}

func Summarize(records []GameRecord) Summary {
	s := Summary{Games: len(records), Outcomes: make(map[string]int)}
	if len(records) == 0 {
		return s
	}
	gold := make([]float64, len(records))
	turns := make([]float64, len(records))
	sales := make([]float64, len(records))
	for i, r := range records {
		gold[i] = r.FinalGold
		turns[i] = float64(r.Turns)
		sales[i] = float64(r.Sales)
		s.Outcomes[r.Outcome]++
	}
	s.Gold = describe(gold)
	s.Turns = describe(turns)
	s.Sales = describe(sales)
	return s
}

func describe(xs []float64) Stats {
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	st := Stats{
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
	}
	if len(sorted) > 1 {
		st.StdDev = stat.StdDev(sorted, nil)
	}
	return st
}

func (s Summary) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "games: %d\n", s.Games); err != nil {
		return err
	}
	for _, outcome := range []string{OutcomeNoLegalMoves, OutcomeTurnLimit, OutcomeCancelled} {
		if n := s.Outcomes[outcome]; n > 0 {
			if _, err := fmt.Fprintf(w, "  %-15s %d\n", outcome, n); err != nil {
				return err
			}
		}
	}
	rows := []struct {
		name string
		st   Stats
	}{
		{"final gold", s.Gold},
		{"turns", s.Turns},
		{"sales", s.Sales},
	}
	if _, err := fmt.Fprintf(w, "%-11s %9s %9s %9s %9s %9s %9s\n", "", "mean", "stddev", "median", "p90", "min", "max"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-11s %9.1f %9.1f %9.1f %9.1f %9.1f %9.1f\n",
			r.name, r.st.Mean, r.st.StdDev, r.st.Median, r.st.P90, r.st.Min, r.st.Max); err != nil {
			return err
		}
	}
	return nil
}
