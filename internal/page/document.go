// Package page parses folio documents and lays them out for the terminal.
//
// A document is markdown with a few conventions:
//
//	# Title
//	Intro paragraphs.
//
//	## Section {#id .reveal .nonav}   page section; .reveal animates entrance,
//	                                  .nonav keeps it out of the navigation
//	## Details {#details .dialog}     dialog; its ### headings are its sections
//
// Links with the copy: scheme copy their target, dialog: links open a
// dialog, and #id links scroll to a page section.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrEmpty is returned when a document has no content.
var ErrEmpty = errors.New("document is empty")

// Section is a headed block of content.
type Section struct {
	ID     string
	Title  string
	Reveal bool
	NoNav  bool
	blocks []ast.Node
}

// Label returns the navigation label: the heading text, or the id in title
// case when the heading is empty.
func (s Section) Label() string {
	if strings.TrimSpace(s.Title) != "" {
		return s.Title
	}
	words := strings.NewReplacer("-", " ", "_", " ").Replace(s.ID)
	return cases.Title(language.English).String(words)
}

// Dialog is a document part displayed on demand above the page.
type Dialog struct {
	ID       string
	Title    string
	Sections []Section

	intro  []ast.Node
	source []byte
}

// Document is a parsed page.
type Document struct {
	Title    string
	Sections []Section
	Dialogs  []Dialog

	intro  []ast.Node
	source []byte
}

// Dialog returns the dialog with id.
func (d *Document) Dialog(id string) (*Dialog, bool) {
	for i := range d.Dialogs {
		if d.Dialogs[i].ID == id {
			return &d.Dialogs[i], true
		}
	}
	return nil, false
}

// NavSections returns the sections that appear in page navigation.
func (d *Document) NavSections() []Section {
	out := make([]Section, 0, len(d.Sections))
	for _, s := range d.Sections {
		if !s.NoNav {
			out = append(out, s)
		}
	}
	return out
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, err)
	}
	return doc, nil
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
	)
}

// Parse builds a Document from markdown source.
func Parse(src []byte) (*Document, error) {
	if len(bytes.TrimSpace(src)) == 0 {
		return nil, ErrEmpty
	}
	src = bytes.Clone(src)
	root := newMarkdown().Parser().Parse(text.NewReader(src))

	doc := &Document{source: src}
	var section *Section
	var dialog *Dialog
	var dialogSection *Section

	flush := func() {
		if dialogSection != nil {
			dialog.Sections = append(dialog.Sections, *dialogSection)
			dialogSection = nil
		}
		if dialog != nil {
			doc.Dialogs = append(doc.Dialogs, *dialog)
			dialog = nil
		}
		if section != nil {
			doc.Sections = append(doc.Sections, *section)
			section = nil
		}
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			id := attr(h, "id")
			classes := strings.Fields(attr(h, "class"))
			title := plainText(h, src)

			switch {
			case h.Level == 1 && doc.Title == "" && section == nil && dialog == nil:
				doc.Title = title
				continue
			case h.Level == 2 && hasClass(classes, "dialog"):
				flush()
				dialog = &Dialog{ID: id, Title: title, source: src}
				continue
			case h.Level == 2:
				flush()
				section = &Section{
					ID:     id,
					Title:  title,
					Reveal: hasClass(classes, "reveal"),
					NoNav:  hasClass(classes, "nonav"),
				}
				continue
			case h.Level == 3 && dialog != nil:
				if dialogSection != nil {
					dialog.Sections = append(dialog.Sections, *dialogSection)
				}
				dialogSection = &Section{ID: id, Title: title, NoNav: hasClass(classes, "nonav")}
				continue
			}
		}

		switch {
		case dialogSection != nil:
			dialogSection.blocks = append(dialogSection.blocks, n)
		case dialog != nil:
			dialog.intro = append(dialog.intro, n)
		case section != nil:
			section.blocks = append(section.blocks, n)
		default:
			doc.intro = append(doc.intro, n)
		}
	}
	flush()

	if doc.Title == "" && len(doc.Sections) == 0 && len(doc.intro) == 0 && len(doc.Dialogs) == 0 {
		return nil, ErrEmpty
	}
	return doc, nil
}

func attr(n ast.Node, name string) string {
	v, ok := n.AttributeString(name)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func hasClass(classes []string, want string) bool {
	for _, c := range classes {
		if c == want {
			return true
		}
	}
	return false
}

// plainText concatenates the text content of n's inline descendants.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
