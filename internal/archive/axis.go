package archive

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// AxisItem is one value along a generation axis.
type AxisItem struct {
	No   string
	Name string
}

// Axis is the ordered item list of one schema assigned to a fond.
type Axis struct {
	SchemaNo string
	Items    []AxisItem
}

// YearAxis returns one item per calendar year from the year of created to
// the year of now, both read in now's location. It always holds at least the
// creation year, even when now precedes it.
func YearAxis(created, now time.Time) Axis {
	first := created.In(now.Location()).Year()
	last := now.Year()
	if last < first {
		last = first
	}

	items := make([]AxisItem, 0, last-first+1)
	for y := first; y <= last; y++ {
		s := strconv.Itoa(y)
		items = append(items, AxisItem{No: s, Name: s})
	}
	return Axis{SchemaNo: ProtectedSchemaNo, Items: items}
}

// ItemAxis builds the axis of a user schema from its stored items, ordered
// by sort order and then by id.
func ItemAxis(schema *Schema, items []*SchemaItem) Axis {
	sorted := make([]*SchemaItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].ID < sorted[j].ID
	})

	axis := Axis{SchemaNo: schema.SchemaNo, Items: make([]AxisItem, 0, len(sorted))}
	for _, it := range sorted {
		axis.Items = append(axis.Items, AxisItem{No: it.ItemNo, Name: it.ItemName})
	}
	return axis
}

// CartesianProduct folds axes left to right. The first axis varies slowest.
// No axes yield no tuples; an empty axis empties the product.
func CartesianProduct[T any](axes [][]T) [][]T {
	if len(axes) == 0 {
		return nil
	}

	product := [][]T{{}}
	for _, axis := range axes {
		next := make([][]T, 0, len(product)*len(axis))
		for _, prefix := range product {
			for _, v := range axis {
				tuple := make([]T, len(prefix), len(prefix)+1)
				copy(tuple, prefix)
				next = append(next, append(tuple, v))
			}
		}
		product = next
	}
	return product
}

// SeriesCandidate is a series the product says should exist.
type SeriesCandidate struct {
	SeriesNo string
	Name     string
}

// SeriesSeparator joins item numbers and names in series identifiers.
const SeriesSeparator = "-"

// Candidates expands axes into the series numbers and names they imply.
func Candidates(axes []Axis) []SeriesCandidate {
	lists := make([][]AxisItem, len(axes))
	for i, a := range axes {
		lists[i] = a.Items
	}

	tuples := CartesianProduct(lists)
	out := make([]SeriesCandidate, 0, len(tuples))
	for _, tuple := range tuples {
		nos := make([]string, len(tuple))
		names := make([]string, len(tuple))
		for i, it := range tuple {
			nos[i] = it.No
			names[i] = it.Name
		}
		out = append(out, SeriesCandidate{
			SeriesNo: strings.Join(nos, SeriesSeparator),
			Name:     strings.Join(names, SeriesSeparator),
		})
	}
	return out
}
