package archive

import (
	"reflect"
	"testing"
	"time"
)

func TestCartesianProduct(t *testing.T) {
	tests := []struct {
		name string
		axes [][]string
		want [][]string
	}{
		{name: "no axes", axes: nil, want: nil},
		{name: "single axis", axes: [][]string{{"a", "b"}}, want: [][]string{{"a"}, {"b"}}},
		{
			name: "first axis varies slowest",
			axes: [][]string{{"2020", "2021"}, {"HR", "FIN"}},
			want: [][]string{{"2020", "HR"}, {"2020", "FIN"}, {"2021", "HR"}, {"2021", "FIN"}},
		},
		{name: "empty axis empties product", axes: [][]string{{"a", "b"}, {}}, want: [][]string{}},
		{
			name: "three axes",
			axes: [][]string{{"1"}, {"x", "y"}, {"p"}},
			want: [][]string{{"1", "x", "p"}, {"1", "y", "p"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CartesianProduct(tt.axes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CartesianProduct() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCartesianProduct_Size(t *testing.T) {
	axes := [][]int{{1, 2, 3}, {1, 2}, {1, 2, 3, 4}}
	if got := len(CartesianProduct(axes)); got != 24 {
		t.Errorf("len(CartesianProduct()) = %d, want 24", got)
	}
}

func TestCartesianProduct_TuplesDoNotAlias(t *testing.T) {
	got := CartesianProduct([][]string{{"a"}, {"x", "y", "z"}})
	got[0][1] = "changed"
	if got[1][1] != "y" || got[2][1] != "z" {
		t.Errorf("tuples share storage: %v", got)
	}
}

func years(a Axis) []string {
	out := make([]string, len(a.Items))
	for i, it := range a.Items {
		out[i] = it.No
	}
	return out
}

func TestYearAxis(t *testing.T) {
	utc := time.UTC
	east := time.FixedZone("UTC+8", 8*60*60)

	tests := []struct {
		name    string
		created time.Time
		now     time.Time
		want    []string
	}{
		{
			name:    "same year",
			created: time.Date(2024, 3, 1, 0, 0, 0, 0, utc),
			now:     time.Date(2024, 11, 1, 0, 0, 0, 0, utc),
			want:    []string{"2024"},
		},
		{
			name:    "spans years",
			created: time.Date(2020, 6, 1, 0, 0, 0, 0, utc),
			now:     time.Date(2021, 1, 1, 0, 0, 0, 0, utc),
			want:    []string{"2020", "2021"},
		},
		{
			name:    "clock before creation keeps creation year",
			created: time.Date(2024, 6, 1, 0, 0, 0, 0, utc),
			now:     time.Date(2023, 6, 1, 0, 0, 0, 0, utc),
			want:    []string{"2024"},
		},
		{
			name:    "creation year read in the clock's zone",
			created: time.Date(2020, 12, 31, 20, 0, 0, 0, utc),
			now:     time.Date(2021, 6, 1, 0, 0, 0, 0, east),
			want:    []string{"2021"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := YearAxis(tt.created, tt.now)
			if a.SchemaNo != ProtectedSchemaNo {
				t.Errorf("SchemaNo = %q, want %q", a.SchemaNo, ProtectedSchemaNo)
			}
			if got := years(a); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("YearAxis() = %v, want %v", got, tt.want)
			}
			for _, it := range a.Items {
				if it.Name != it.No {
					t.Errorf("item %q has name %q, want the year", it.No, it.Name)
				}
			}
		})
	}
}

func TestItemAxis_Order(t *testing.T) {
	schema := &Schema{SchemaNo: "Dept"}
	items := []*SchemaItem{
		{Audit: Audit{ID: 3}, ItemNo: "IT", ItemName: "IT", SortOrder: 1},
		{Audit: Audit{ID: 1}, ItemNo: "HR", ItemName: "Human Resources", SortOrder: 0},
		{Audit: Audit{ID: 2}, ItemNo: "FIN", ItemName: "Finance", SortOrder: 1},
	}

	a := ItemAxis(schema, items)
	want := []AxisItem{{"HR", "Human Resources"}, {"FIN", "Finance"}, {"IT", "IT"}}
	if !reflect.DeepEqual(a.Items, want) {
		t.Errorf("ItemAxis() = %v, want %v", a.Items, want)
	}
	if items[0].ItemNo != "IT" {
		t.Error("ItemAxis() reordered its input")
	}
}

func TestCandidates(t *testing.T) {
	axes := []Axis{
		{SchemaNo: "Year", Items: []AxisItem{{"2020", "2020"}, {"2021", "2021"}}},
		{SchemaNo: "Dept", Items: []AxisItem{{"HR", "Human Resources"}, {"FIN", "Finance"}}},
	}

	got := Candidates(axes)
	want := []SeriesCandidate{
		{"2020-HR", "2020-Human Resources"},
		{"2020-FIN", "2020-Finance"},
		{"2021-HR", "2021-Human Resources"},
		{"2021-FIN", "2021-Finance"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates() = %v, want %v", got, want)
	}

	if got := Candidates(nil); len(got) != 0 {
		t.Errorf("Candidates(nil) = %v, want none", got)
	}
}
