package page

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

const sample = `# Jane Doe

Designer and developer.

## About {#about .reveal}

I build [tools](https://example.com) for people.

## Work {#work .reveal}

- Project one
- Project two, see [details](dialog:project)

## Contact

[Email me](copy:hello@example.com) or jump back to [about](#about).

## Colophon {.nonav}

Set in monospace.

## Project details {#project .dialog}

A short intro.

### Overview

Overview text.

### Results {#results}

Results text.
`

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func plainOpts(width int) Options {
	return Options{Width: width, Palette: PlainPalette(), Focus: NoFocus}
}

func TestParse_Structure(t *testing.T) {
	doc := parseSample(t)

	if doc.Title != "Jane Doe" {
		t.Fatalf("Title = %q", doc.Title)
	}
	var ids []string
	for _, s := range doc.Sections {
		ids = append(ids, s.ID)
	}
	if got := strings.Join(ids, ","); got != "about,work,contact,colophon" {
		t.Fatalf("section ids = %s", got)
	}
	if !doc.Sections[0].Reveal || !doc.Sections[1].Reveal || doc.Sections[2].Reveal {
		t.Fatalf("reveal flags = %+v", doc.Sections)
	}
	if !doc.Sections[3].NoNav {
		t.Fatalf("colophon should be excluded from navigation")
	}
	if n := len(doc.NavSections()); n != 3 {
		t.Fatalf("NavSections = %d, want 3", n)
	}

	dlg, ok := doc.Dialog("project")
	if !ok {
		t.Fatalf("dialog project not found")
	}
	if dlg.Title != "Project details" || len(dlg.Sections) != 2 {
		t.Fatalf("dialog = %+v", dlg)
	}
	if dlg.Sections[0].ID != "overview" || dlg.Sections[1].ID != "results" {
		t.Fatalf("dialog sections = %s, %s", dlg.Sections[0].ID, dlg.Sections[1].ID)
	}
	if _, ok := doc.Dialog("missing"); ok {
		t.Fatalf("Dialog(missing) reported ok")
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse([]byte("  \n\n")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Parse(blank) error = %v, want ErrEmpty", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.md")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Title != "Jane Doe" {
		t.Fatalf("Title = %q", doc.Title)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Fatalf("Load(missing) returned nil error")
	}
}

func TestSection_LabelFallsBackToID(t *testing.T) {
	s := Section{ID: "getting-started"}
	if got := s.Label(); got != "Getting Started" {
		t.Fatalf("Label = %q, want Getting Started", got)
	}
	s.Title = "Intro"
	if got := s.Label(); got != "Intro" {
		t.Fatalf("Label = %q, want Intro", got)
	}
}

func TestRender_AnchorsCoverSections(t *testing.T) {
	doc := parseSample(t)
	l := doc.Render(plainOpts(60))

	if len(l.Anchors) != len(doc.Sections) {
		t.Fatalf("anchors = %d, want %d", len(l.Anchors), len(doc.Sections))
	}
	for i, a := range l.Anchors {
		if a.Height <= 0 {
			t.Fatalf("anchor %s has height %d", a.Key, a.Height)
		}
		if heading := ansi.Strip(l.Lines[a.Top]); heading != doc.Sections[i].Label() {
			t.Fatalf("anchor %s starts at %q", a.Key, heading)
		}
		if i > 0 {
			prev := l.Anchors[i-1]
			if a.Top < prev.Top+prev.Height {
				t.Fatalf("anchor %s overlaps %s", a.Key, prev.Key)
			}
		}
	}
	last := l.Anchors[len(l.Anchors)-1]
	if last.Top+last.Height != len(l.Lines) {
		t.Fatalf("last anchor ends at %d, layout has %d lines", last.Top+last.Height, len(l.Lines))
	}
	if _, ok := l.Anchor("contact"); !ok {
		t.Fatalf("Anchor(contact) missing")
	}
}

func TestRender_Links(t *testing.T) {
	doc := parseSample(t)
	l := doc.Render(plainOpts(60))

	want := []struct {
		kind   LinkKind
		target string
		label  string
	}{
		{LinkExternal, "https://example.com", "tools"},
		{LinkDialog, "project", "details"},
		{LinkCopy, "hello@example.com", "Email me"},
		{LinkAnchor, "about", "about"},
	}
	if len(l.Links) != len(want) {
		t.Fatalf("links = %+v", l.Links)
	}
	for i, w := range want {
		got := l.Links[i]
		if got.Kind != w.kind || got.Target != w.target || got.Label != w.label {
			t.Fatalf("link %d = %+v, want %+v", i, got.Link, w)
		}
		if !strings.Contains(ansi.Strip(l.Lines[got.Line]), w.label) {
			t.Fatalf("link %q placed on line %q", w.label, l.Lines[got.Line])
		}
	}

	work, _ := l.Anchor("work")
	if line := l.Links[1].Line; line < work.Top || line >= work.Top+work.Height {
		t.Fatalf("details link on line %d, outside work %+v", line, work)
	}
	if got := l.LinksOn(l.Links[2].Line); len(got) != 2 {
		t.Fatalf("LinksOn(contact line) = %v, want both contact links", got)
	}
}

func TestRender_WrapsToWidth(t *testing.T) {
	src := "## Long\n\n" + strings.Repeat("lorem ipsum dolor ", 20) + "\n"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	l := doc.Render(plainOpts(24))
	if len(l.Lines) < 10 {
		t.Fatalf("expected wrapped paragraph, got %d lines", len(l.Lines))
	}
	for _, line := range l.Lines {
		if w := ansi.StringWidth(line); w > 24 {
			t.Fatalf("line %q has width %d", line, w)
		}
	}
}

func TestRender_ConcealKeepsGeometry(t *testing.T) {
	doc := parseSample(t)
	open := doc.Render(plainOpts(60))
	opts := plainOpts(60)
	opts.Concealed = func(id string) bool { return id == "work" }
	hidden := doc.Render(opts)

	if len(open.Lines) != len(hidden.Lines) {
		t.Fatalf("concealing changed line count: %d vs %d", len(open.Lines), len(hidden.Lines))
	}
	for i := range open.Anchors {
		if open.Anchors[i] != hidden.Anchors[i] {
			t.Fatalf("anchor %d moved: %+v vs %+v", i, open.Anchors[i], hidden.Anchors[i])
		}
	}
}

func TestDialog_Render(t *testing.T) {
	doc := parseSample(t)
	dlg, _ := doc.Dialog("project")
	l := dlg.Render(plainOpts(40))

	if ansi.Strip(l.Lines[0]) != "A short intro." {
		t.Fatalf("first dialog line = %q", l.Lines[0])
	}
	if len(l.Anchors) != 2 || l.Anchors[0].Key != "overview" || l.Anchors[1].Key != "results" {
		t.Fatalf("dialog anchors = %+v", l.Anchors)
	}
	if strings.Contains(l.Content(), "Project details") {
		t.Fatalf("dialog body should not repeat its title")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		dest   string
		kind   LinkKind
		target string
	}{
		{"copy:a%20b", LinkCopy, "a b"},
		{"copy:", LinkCopy, "label"},
		{"dialog:faq", LinkDialog, "faq"},
		{"#top", LinkAnchor, "top"},
		{"https://x.dev", LinkExternal, "https://x.dev"},
	}
	for _, tc := range cases {
		got := Classify(tc.dest, "label")
		if got.Kind != tc.kind || got.Target != tc.target {
			t.Fatalf("Classify(%q) = %+v, want %v %q", tc.dest, got, tc.kind, tc.target)
		}
	}
}
