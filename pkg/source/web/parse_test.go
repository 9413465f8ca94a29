package web

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/utitree/pkg/source"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<h1>System-Declared Uniform Type Identifiers</h1>
<table>
  <thead><tr><th>UTI</th><th>Conforms to</th><th>Tags</th></tr></thead>
  <tbody>
    <tr><td>public.item</td><td>-</td><td></td></tr>
    <tr><td>public.data</td><td>public.item</td><td></td></tr>
    <tr><td>public.content</td><td>-</td><td></td></tr>
    <tr><td>public.text</td><td>public.data<br/>public.content</td><td></td></tr>
    <tr><td>public.jpeg&nbsp;(jpeg)</td><td>public.image</td><td>.jpg</td></tr>
    <tr><td>com.apple.quicktime-movie</td><td>public.movie, public.mpeg4</td><td>.mov</td></tr>
  </tbody>
</table>
<table><tr><td>ignored</td><td>-</td></tr></table>
</body></html>`

func TestParse(t *testing.T) {
	rel, err := Parse(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := map[string][]string{
		"public.item":               {},
		"public.data":               {"public.item"},
		"public.content":            {},
		"public.text":               {"public.content", "public.data"},
		"public.jpeg":               {"public.image"},
		"com.apple.quicktime-movie": {"public.movie", "public.mpeg-4"},
	}
	if diff := cmp.Diff(want, rel.Plain()); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_BadRow(t *testing.T) {
	page := `<table>
<tr><td>public.item</td><td>-</td></tr>
<tr><td>not an identifier!</td><td>-</td></tr>
</table>`
	_, err := Parse(strings.NewReader(page))
	var perr *source.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse() error = %v, want *source.ParseError", err)
	}
	if perr.Row != 2 || perr.Text != "not an identifier!" {
		t.Errorf("ParseError = %+v, want row 2 naming the cell", perr)
	}
}

func TestParse_NoTable(t *testing.T) {
	_, err := Parse(strings.NewReader("<html><body><p>moved</p></body></html>"))
	if !errors.Is(err, errNoTable) {
		t.Errorf("Parse() error = %v, want errNoTable", err)
	}
}

func TestParseNode(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"public.data", "public.data", false},
		{"public.jpeg (jpeg)", "public.jpeg", false},
		{"public.jpeg\u00a0(jpeg)", "public.jpeg", false},
		{"public.jpeg(jpeg)", "", true},
		{"  public.text\n", "public.text", false},
		{"com.apple.ical.ics\u200b", "com.apple.ical.ics", false},
		{"two words", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseNode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseParents(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"-", nil},
		{" - ", nil},
		{"public.data", []string{"public.data"}},
		{"public.data, public.content", []string{"public.data", "public.content"}},
		{"public.movie\npublic.mpeg4", []string{"public.movie", "public.mpeg-4"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParseParents(tt.in)); diff != "" {
			t.Errorf("ParseParents(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
