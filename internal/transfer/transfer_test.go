package transfer

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"fondspod/internal/archive"
)

func sampleTree() []*archive.ClassificationNode {
	return []*archive.ClassificationNode{
		{Code: "A", Name: "Administration", Active: true, Children: []*archive.ClassificationNode{
			{Code: "A1", Name: "Board", Active: true},
			{Code: "A2", Name: "Personnel", Active: false},
		}},
		{Code: "B", Name: "Business", Active: true},
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, format := range []Format{JSON, YAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, format, sampleTree()); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if !strings.Contains(buf.String(), "is_active") {
				t.Errorf("encoded output lacks is_active:\n%s", buf.String())
			}

			got, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, sampleTree()) {
				t.Errorf("Decode() = %+v, want %+v", got, sampleTree())
			}
		})
	}
}

func TestDecode_MissingActiveMeansActive(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{JSON, `[{"code":"A","name":"Administration","children":[{"code":"A1","name":"Board"}]}]`},
		{YAML, "- code: A\n  name: Administration\n  children:\n    - code: A1\n      name: Board\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(got) != 1 || !got[0].Active || len(got[0].Children) != 1 || !got[0].Children[0].Active {
				t.Errorf("Decode() = %+v, want active A with active child", got)
			}
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"malformed json", JSON, `[{"code":`},
		{"missing code", JSON, `[{"name":"x"}]`},
		{"missing child name", YAML, "- code: A\n  name: A\n  children:\n    - code: A1\n"},
		{"unknown format", Format("xml"), `<a/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.input), tt.format); err == nil {
				t.Error("Decode() expected error")
			}
		})
	}
}

func TestDecode_EmptyYAML(t *testing.T) {
	got, err := Decode(strings.NewReader(""), YAML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Decode() = %v, want empty", got)
	}
}

func TestFormats(t *testing.T) {
	for in, want := range map[string]Format{"json": JSON, "YAML": YAML, ".yml": YAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Error("ParseFormat(csv) expected error")
	}

	for path, want := range map[string]Format{"tree.yaml": YAML, "tree.json": JSON, "tree": JSON} {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
