package leaderboard

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Table is the rendered, display-ready form of a leaderboard.
type Table struct {
	Header []string
	Body   [][]string
}

// Render maps rows and columns to a Table. It keeps the given order and has
// no side effects, so re-rendering the same input yields an equal Table.
func Render(rows []Row, columns []ColumnSpec) Table {
	t := Table{
		Header: make([]string, len(columns)),
		Body:   make([][]string, len(rows)),
	}
	for i, col := range columns {
		t.Header[i] = col.Header()
	}
	for r, row := range rows {
		cells := make([]string, len(columns))
		for c, col := range columns {
			cells[c] = FormatValue(row.Get(col.Key))
		}
		t.Body[r] = cells
	}
	return t
}

// WriteHTML writes the table as a styled HTML fragment: a <style> element, the
// table, and the continue button when showContinue is set.
func WriteHTML(w io.Writer, t Table, styles string, showContinue bool) error {
	nodes := []*html.Node{
		element(atom.Style, nil, text(styles)),
		tableNode(t),
	}
	if showContinue {
		nodes = append(nodes, element(atom.Button, []html.Attribute{{Key: "class", Val: "jspsych-btn"}}, text(ContinueLabel)))
	}
	for _, n := range nodes {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

func tableNode(t Table) *html.Node {
	headerRow := element(atom.Tr, nil)
	for _, h := range t.Header {
		headerRow.AppendChild(element(atom.Th, nil, text(h)))
	}

	body := element(atom.Tbody, nil)
	for _, cells := range t.Body {
		tr := element(atom.Tr, nil)
		for _, c := range cells {
			tr.AppendChild(element(atom.Td, nil, text(c)))
		}
		body.AppendChild(tr)
	}

	return element(atom.Table, []html.Attribute{{Key: "class", Val: TableClass}},
		element(atom.Thead, nil, headerRow),
		body,
	)
}

func element(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
