package web

import (
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matzehuels/utitree/pkg/relation"
	"github.com/matzehuels/utitree/pkg/source"
)

var (
	nodeRegex   = regexp.MustCompile(`^([\w.-]+)( \(\w+\))?$`)
	parentRegex = regexp.MustCompile(`[\w.-]+`)

	errNoTable  = errors.New("no table found")
	errNoMatch  = errors.New("not an identifier")
	errTooShort = errors.New("row has fewer than two cells")
)

// parentFixes rewrites known misspellings in the published table.
var parentFixes = map[string]string{
	"public.mpeg4": "public.mpeg-4",
}

// Parse reads an HTML document and returns the relation held in its first
// table. Header rows are skipped; any other row that does not parse fails
// the whole document with a [source.ParseError] naming the row.
func Parse(r io.Reader) (relation.Relation, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, &source.ParseError{Source: "web", Err: err}
	}
	table := findFirst(doc, atom.Table)
	if table == nil {
		return nil, &source.ParseError{Source: "web", Err: errNoTable}
	}

	rel := relation.New()
	row := 0
	for _, tr := range rows(table) {
		cells, header := cellTexts(tr)
		if header || len(cells) == 0 {
			continue
		}
		row++
		if len(cells) < 2 {
			return nil, &source.ParseError{Source: "web", Row: row, Text: strings.Join(cells, " | "), Err: errTooShort}
		}
		name, err := ParseNode(cells[0])
		if err != nil {
			return nil, &source.ParseError{Source: "web", Row: row, Text: cells[0], Err: err}
		}
		rel.Add(name, ParseParents(cells[1])...)
	}
	return rel, nil
}

// ParseNode extracts the identifier from a column 1 cell.
func ParseNode(text string) (string, error) {
	m := nodeRegex.FindStringSubmatch(clean(text))
	if m == nil {
		return "", errNoMatch
	}
	return m[1], nil
}

// ParseParents extracts the parent identifiers from a column 2 cell.
func ParseParents(text string) []string {
	text = clean(text)
	if text == "-" {
		return nil
	}
	parents := parentRegex.FindAllString(text, -1)
	for i, p := range parents {
		if fixed, ok := parentFixes[p]; ok {
			parents[i] = fixed
		}
	}
	return parents
}

// clean keeps printable ASCII, turns any whitespace (including
// non-breaking spaces) into a single space and trims the result.
func clean(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

// rows returns the tr elements of table in document order, skipping
// nested tables.
func rows(table *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				out = append(out, c)
			case atom.Thead, atom.Tbody, atom.Tfoot:
				walk(c)
			}
		}
	}
	walk(table)
	return out
}

// cellTexts returns the text of each cell in tr and whether the row is a
// header row.
func cellTexts(tr *html.Node) ([]string, bool) {
	var cells []string
	header := false
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Th:
			header = true
			cells = append(cells, text(c))
		case atom.Td:
			cells = append(cells, text(c))
		}
	}
	return cells, header
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && (n.DataAtom == atom.Br || n.DataAtom == atom.P):
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
