package models

import (
	"sort"
	"time"
)

// Chart specification handed to the rendering side. The aggregator only
// shapes data; it never draws.

type ChartPoint struct {
	Date   time.Time `json:"date"`
	Valeur float64   `json:"valeur"`
}

type ChartSeries struct {
	Nom    string       `json:"nom"`
	Points []ChartPoint `json:"points"`
}

type ChartSlice struct {
	Nom   string  `json:"nom"`
	Total float64 `json:"total"`
}

type ChartSpec struct {
	Titre  string        `json:"titre"`
	Kind   ChartKind     `json:"kind"`
	Series []ChartSeries `json:"series,omitempty"`
	Slices []ChartSlice  `json:"slices,omitempty"`
}

// BuildChartSpec groups the filtered KPIs by the selected names.
// line/bar: one time-ordered series per name.
// pie: one slice per name holding the sum of current values; names summing
// to zero are omitted.
func BuildChartSpec(titre string, kind ChartKind, names []string, kpis []*KPI) ChartSpec {
	spec := ChartSpec{Titre: titre, Kind: kind}

	byName := make(map[string][]*KPI, len(names))
	for _, k := range kpis {
		byName[k.Nom] = append(byName[k.Nom], k)
	}

	switch kind {
	case ChartKindLine, ChartKindBar:
		for _, nom := range names {
			subset := byName[nom]
			sort.SliceStable(subset, func(i, j int) bool {
				return subset[i].Date.Before(subset[j].Date)
			})
			points := make([]ChartPoint, 0, len(subset))
			for _, k := range subset {
				points = append(points, ChartPoint{Date: k.Date, Valeur: k.ValeurActuelle})
			}
			spec.Series = append(spec.Series, ChartSeries{Nom: nom, Points: points})
		}
	case ChartKindPie:
		for _, nom := range names {
			var total float64
			for _, k := range byName[nom] {
				total += k.ValeurActuelle
			}
			if total == 0 {
				continue
			}
			spec.Slices = append(spec.Slices, ChartSlice{Nom: nom, Total: total})
		}
	}
	return spec
}
