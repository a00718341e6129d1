package epochs

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/savantlab/gbif-records/pkg/table"
)

// Errors returned by the diversity computation.
var (
	// ErrNoData is returned for an empty table, or when no row carries both
	// a grouping key and a species.
	ErrNoData = errors.New("no data to compute diversity over")

	// ErrNoGroupKey is returned when no grouping column is given.
	ErrNoGroupKey = errors.New("no grouping key given")

	// ErrUnknownColumn is returned when a grouping column is not present in
	// the table.
	ErrUnknownColumn = errors.New("invalid grouping key")
)

// DiversityScore is the Simpson's diversity index of one group.
//
// Defined is false when the computed index is exactly zero: a group holding a
// single species reports "no diversity data" rather than a literal zero, the
// domain convention distinguishing insufficient data from measured evenness.
type DiversityScore struct {
	Group   string
	Index   float64
	Defined bool
}

// GroupSeparator joins the values of a multi-column grouping key.
const GroupSeparator = " / "

// SimpsonDiversity groups records by one or more columns and computes
// Simpson's diversity per group: 1 minus the sum over species of the squared
// proportion of individuals belonging to that species. Rows missing any
// grouping column or the species column are excluded and form no group.
// Scores are returned sorted by group label.
func (r *Result) SimpsonDiversity(by ...string) ([]DiversityScore, error) {
	if len(by) == 0 {
		return nil, ErrNoGroupKey
	}
	if r.Table.Len() == 0 {
		return nil, ErrNoData
	}
	for _, col := range by {
		if !r.Table.HasColumn(col) {
			return nil, fmt.Errorf("%w: column %q not in table", ErrUnknownColumn, col)
		}
	}

	// species counts per group
	groups := make(map[string]map[string]int)
	for i := 0; i < r.Table.Len(); i++ {
		row := r.Table.Row(i)

		species := row[table.ColumnSpecies]
		if table.IsMissing(species) {
			continue
		}

		parts := make([]string, 0, len(by))
		missing := false
		for _, col := range by {
			v := row[col]
			if table.IsMissing(v) {
				missing = true
				break
			}
			parts = append(parts, table.FormatValue(v))
		}
		if missing {
			continue
		}

		group := strings.Join(parts, GroupSeparator)
		if groups[group] == nil {
			groups[group] = make(map[string]int)
		}
		groups[group][table.FormatValue(species)]++
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: every row is missing the grouping key or species", ErrNoData)
	}

	scores := make([]DiversityScore, 0, len(groups))
	for group, counts := range groups {
		index := simpson(counts)
		scores = append(scores, DiversityScore{
			Group:   group,
			Index:   index,
			Defined: index != 0,
		})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].Group < scores[j].Group })
	return scores, nil
}

// simpson computes 1 - sum((count/total)^2) over the species counts of one
// group.
func simpson(counts map[string]int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		sum += p * p
	}
	return 1 - sum
}
