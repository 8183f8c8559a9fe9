package markdown

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/palomera/studyd/internal/model"
)

func seqParser() *Parser {
	n := 0
	return &Parser{NewID: func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}}
}

func TestParseEmptyInput(t *testing.T) {
	got := seqParser().Parse("")
	if got.Title != "Untitled Checklist" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
	if len(got.Sections) != 0 || got.TotalCompleted != 0 || got.TotalItems != 0 {
		t.Fatalf("expected empty parse result, got %+v", got)
	}
}

func TestParseTitleIsSticky(t *testing.T) {
	got := seqParser().Parse("# First Title\n\n# Second Title\n")
	if got.Title != "First Title" {
		t.Fatalf("expected first heading to win, got %q", got.Title)
	}
}

func TestParseTitleEmoji(t *testing.T) {
	got := seqParser().Parse("# 📚 Study Plan\n")
	if got.Emoji != "📚" {
		t.Fatalf("unexpected emoji: %q", got.Emoji)
	}
	if got.Title != "Study Plan" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
}

func TestParseSectionsAndCounts(t *testing.T) {
	md := `# Plan

## 🔬 Biology
*Chapters 1 through 3*
- [x] Read chapter 1
- [ ] Read chapter 2

## History
- [ ] Outline essay
`
	got := seqParser().Parse(md)
	if len(got.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(got.Sections))
	}

	bio := got.Sections[0]
	if bio.Title != "Biology" || bio.Emoji != "🔬" {
		t.Fatalf("unexpected section heading: %+v", bio)
	}
	if bio.Description != "Chapters 1 through 3" {
		t.Fatalf("unexpected description: %q", bio.Description)
	}
	if bio.CompletedCount != 1 || bio.TotalCount != 2 {
		t.Fatalf("unexpected bio counts: %d/%d", bio.CompletedCount, bio.TotalCount)
	}
	if got.TotalCompleted != 1 || got.TotalItems != 3 {
		t.Fatalf("unexpected totals: %d/%d", got.TotalCompleted, got.TotalItems)
	}
}

func TestParseEmptySectionIncluded(t *testing.T) {
	got := seqParser().Parse("## Empty\n\n## Full\n- [ ] One\n")
	if len(got.Sections) != 2 {
		t.Fatalf("expected empty section to be kept, got %d sections", len(got.Sections))
	}
	if got.Sections[0].TotalCount != 0 {
		t.Fatalf("unexpected count on empty section: %d", got.Sections[0].TotalCount)
	}
}

func TestParseCheckboxBeforeSectionDropped(t *testing.T) {
	got := seqParser().Parse("- [ ] Orphan task\n\n## Tasks\n- [ ] Kept\n")
	if got.TotalItems != 1 {
		t.Fatalf("expected orphan checkbox to be dropped, got %d items", got.TotalItems)
	}
}

func TestParseNestingReconstruction(t *testing.T) {
	md := `## Tasks
- [ ] Parent
    - [ ] Child one
    - [x] Child two
- [ ] Sibling
`
	got := seqParser().Parse(md)
	items := got.Sections[0].Items
	if len(items) != 2 {
		t.Fatalf("expected 2 top-level items, got %d", len(items))
	}
	if len(items[0].Children) != 2 {
		t.Fatalf("expected 2 children under parent, got %d", len(items[0].Children))
	}
	if len(items[1].Children) != 0 {
		t.Fatalf("expected no children under sibling, got %d", len(items[1].Children))
	}
	if items[0].Children[0].Level != 1 || !items[0].Children[1].Completed {
		t.Fatalf("unexpected child state: %+v", items[0].Children)
	}
	// Nested items still count toward the section totals.
	if got.Sections[0].TotalCount != 4 || got.Sections[0].CompletedCount != 1 {
		t.Fatalf("unexpected counts: %d/%d", got.Sections[0].CompletedCount, got.Sections[0].TotalCount)
	}
}

func TestParseSkippedIndentFallsBackToRoot(t *testing.T) {
	md := "## Tasks\n" + "        - [ ] Deep orphan\n"
	got := seqParser().Parse(md)
	items := got.Sections[0].Items
	if len(items) != 1 {
		t.Fatalf("expected orphan to attach at section root, got %d items", len(items))
	}
	if items[0].Level != 2 {
		t.Fatalf("level should keep its parsed value, got %d", items[0].Level)
	}
}

func TestParseDeepNesting(t *testing.T) {
	md := `## Tasks
- [ ] Level zero
    - [ ] Level one
        - [ ] Level two
`
	got := seqParser().Parse(md)
	root := got.Sections[0].Items[0]
	if len(root.Children) != 1 || len(root.Children[0].Children) != 1 {
		t.Fatalf("expected a three-deep chain, got %+v", root)
	}
}

func TestParseTimeEstimates(t *testing.T) {
	cases := []struct {
		line    string
		text    string
		minutes int
	}{
		{"- [ ] Task (~25m)", "Task", 25},
		{"- [ ] Task (~2h)", "Task", 120},
		{"- [ ] Task (~1h30m)", "Task", 90},
		{"- [ ] Task (~45 min)", "Task", 45},
		{"- [ ] Task (~10 minutes)", "Task", 10},
		{"- [ ] Task (~5m) then (~10m)", "Task then (~10m)", 5},
	}
	for _, tc := range cases {
		got := seqParser().Parse("## S\n" + tc.line + "\n")
		item := got.Sections[0].Items[0]
		if item.Text != tc.text {
			t.Fatalf("%q: unexpected text %q", tc.line, item.Text)
		}
		if item.TimeEstimate != tc.minutes {
			t.Fatalf("%q: unexpected estimate %d", tc.line, item.TimeEstimate)
		}
	}
}

func TestParseSectionTimeEstimateSum(t *testing.T) {
	got := seqParser().Parse("## S\n- [ ] A (~25m)\n- [ ] B (~1h)\n")
	if got.Sections[0].TotalTimeEstimate != 85 {
		t.Fatalf("unexpected section estimate: %d", got.Sections[0].TotalTimeEstimate)
	}
}

func TestParsePriorityMarkers(t *testing.T) {
	cases := []struct {
		line     string
		text     string
		priority model.Priority
	}{
		{"- [ ] Task !!!", "Task", model.PriorityHigh},
		{"- [ ] Task !!", "Task", model.PriorityMedium},
		{"- [ ] Task !", "Task", model.PriorityLow},
		{"- [ ] Task [HIGH]", "Task", model.PriorityHigh},
		{"- [ ] Task [medium]", "Task", model.PriorityMedium},
		{"- [ ] Task [low]", "Task", model.PriorityLow},
		{"- [ ] Plain task", "Plain task", model.PriorityNone},
	}
	for _, tc := range cases {
		got := seqParser().Parse("## S\n" + tc.line + "\n")
		item := got.Sections[0].Items[0]
		if item.Text != tc.text || item.Priority != tc.priority {
			t.Fatalf("%q: got text=%q priority=%q", tc.line, item.Text, item.Priority)
		}
	}
}

func TestParseEstimateBeforePriority(t *testing.T) {
	got := seqParser().Parse("## S\n- [ ] Review notes (~30m) !!\n")
	item := got.Sections[0].Items[0]
	if item.TimeEstimate != 30 || item.Priority != model.PriorityMedium || item.Text != "Review notes" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestParseStripsInlineMarkers(t *testing.T) {
	got := seqParser().Parse("## S\n- [ ] Read **chapter** on `goroutines`\n")
	if got.Sections[0].Items[0].Text != "Read chapter on goroutines" {
		t.Fatalf("unexpected text: %q", got.Sections[0].Items[0].Text)
	}
}

func TestParseUppercaseCheckmark(t *testing.T) {
	got := seqParser().Parse("## S\n- [X] Done task\n")
	if !got.Sections[0].Items[0].Completed {
		t.Fatal("expected [X] to be completed")
	}
}

func TestParseDeterministicModuloIDs(t *testing.T) {
	md := "# Plan\n## S\n- [ ] A\n    - [x] B\n- [ ] C !!\n"
	first := seqParser().Parse(md)
	second := seqParser().Parse(md)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("parse is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestExportRoundTrip(t *testing.T) {
	md := `# 📚 Study Plan

## 🔬 Biology
*Cell structure*
- [x] Read chapter 1 (~25m)
- [ ] Summarize notes !!
    - [ ] Diagram the cell (~1h30m)

## History
- [ ] Outline essay !!!
`
	parsed := seqParser().Parse(md)
	cl := model.Checklist{
		Title:    parsed.Title,
		Emoji:    parsed.Emoji,
		Sections: parsed.Sections,
	}
	reparsed := seqParser().Parse(Export(cl))

	if !reflect.DeepEqual(parsed, reparsed) {
		t.Fatalf("export round trip mismatch:\n%+v\n%+v", parsed, reparsed)
	}
}
