// Package markdown parses the studyd checklist dialect: a `#` title,
// `##` section headings, `*italic*` section descriptions and `- [ ]`
// checkbox items with 4-space indentation per nesting level. Inline
// `(~25m)` time annotations and `!`/`[high]` priority markers are lifted
// into structured fields.
package markdown

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/palomera/studyd/internal/model"
)

var (
	titlePattern       = regexp.MustCompile(`^#\s+(.*)$`)
	sectionPattern     = regexp.MustCompile(`^##\s+(.*)$`)
	descriptionPattern = regexp.MustCompile(`^\*([^*]+)\*\s*$`)
	checkboxPattern    = regexp.MustCompile(`^(\s*)-\s+\[([ xX])\]\s*(.*)$`)
	timePattern        = regexp.MustCompile(`\(~\s*(?:(\d+)\s*h(?:\s*(\d+)\s*m)?|(\d+)\s*(?:minutes|min|m))\s*\)`)
	bracketPriority    = regexp.MustCompile(`(?i)\[(high|medium|low)\]`)
	singleBang         = regexp.MustCompile(`(^|[^!])!($|[^!])`)
)

const indentPerLevel = 4

// Parser converts checklist markdown into a ParsedChecklist. NewID supplies
// ids for sections and items; tests inject a deterministic generator.
type Parser struct {
	NewID func() string
}

func New() *Parser {
	return &Parser{NewID: func() string { return uuid.New().String() }}
}

// Parse is a convenience wrapper using uuid-backed ids.
func Parse(input string) model.ParsedChecklist {
	return New().Parse(input)
}

// Parse scans the input line by line. It is total: lines that match no
// recognized pattern contribute nothing, and no input produces an error.
func (p *Parser) Parse(input string) model.ParsedChecklist {
	out := model.ParsedChecklist{Title: "Untitled Checklist", Sections: []model.TodoSection{}}
	titleSet := false

	var current *model.TodoSection
	var stack []*model.TodoItem

	closeSection := func() {
		if current == nil {
			return
		}
		out.TotalCompleted += current.CompletedCount
		out.TotalItems += current.TotalCount
		out.Sections = append(out.Sections, *current)
		current = nil
		stack = nil
	}

	lines := strings.Split(strings.ReplaceAll(input, "\r", ""), "\n")
	for _, line := range lines {
		if m := sectionPattern.FindStringSubmatch(line); m != nil {
			closeSection()
			emoji, title := extractEmoji(strings.TrimSpace(m[1]))
			current = &model.TodoSection{
				ID:    p.NewID(),
				Title: title,
				Emoji: emoji,
				Items: []model.TodoItem{},
			}
			continue
		}

		if m := titlePattern.FindStringSubmatch(line); m != nil {
			// Only the first top-level heading names the checklist.
			if !titleSet {
				emoji, title := extractEmoji(strings.TrimSpace(m[1]))
				out.Title = title
				out.Emoji = emoji
				titleSet = true
			}
			continue
		}

		if m := checkboxPattern.FindStringSubmatch(line); m != nil {
			if current == nil {
				// Checkbox before any section heading has nowhere to go.
				continue
			}
			item := p.parseItem(m[1], m[2], m[3])
			current.TotalCount++
			if item.Completed {
				current.CompletedCount++
			}
			current.TotalTimeEstimate += item.TimeEstimate
			stack = placeItem(current, stack, item)
			continue
		}

		if current != nil && len(current.Items) == 0 && current.Description == "" {
			if m := descriptionPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				current.Description = strings.TrimSpace(m[1])
			}
		}
	}
	closeSection()

	return out
}

func (p *Parser) parseItem(indent, mark, rest string) model.TodoItem {
	item := model.TodoItem{
		ID:        p.NewID(),
		Completed: strings.EqualFold(mark, "x"),
		Level:     len(indent) / indentPerLevel,
	}

	text := rest
	text, item.TimeEstimate = extractTimeEstimate(text)
	text, item.Priority = extractPriority(text)
	item.Text = cleanText(text)
	return item
}

// placeItem attaches item to the section tree and returns the updated
// ancestor stack. A level-0 item resets the stack; deeper items become
// children of the closest available ancestor. An item whose indentation
// skips levels past the stack falls back to the section root rather than
// inventing a synthetic parent.
func placeItem(section *model.TodoSection, stack []*model.TodoItem, item model.TodoItem) []*model.TodoItem {
	if item.Level == 0 {
		section.Items = append(section.Items, item)
		return []*model.TodoItem{&section.Items[len(section.Items)-1]}
	}

	if item.Level < len(stack) {
		stack = stack[:item.Level]
	}
	if len(stack) == 0 {
		section.Items = append(section.Items, item)
		return []*model.TodoItem{&section.Items[len(section.Items)-1]}
	}

	parent := stack[len(stack)-1]
	parent.Children = append(parent.Children, item)
	return append(stack, &parent.Children[len(parent.Children)-1])
}

// extractTimeEstimate removes the first `(~...)` annotation from text and
// returns the estimate in minutes. Accepted forms: (~25m), (~2h),
// (~1h30m), (~25 min), (~25 minutes).
func extractTimeEstimate(text string) (string, int) {
	loc := timePattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, 0
	}

	minutes := 0
	if h := group(text, loc, 1); h != "" {
		n, _ := strconv.Atoi(h)
		minutes = n * 60
		if m := group(text, loc, 2); m != "" {
			n, _ = strconv.Atoi(m)
			minutes += n
		}
	} else if m := group(text, loc, 3); m != "" {
		n, _ := strconv.Atoi(m)
		minutes = n
	}

	return text[:loc[0]] + text[loc[1]:], minutes
}

func group(text string, loc []int, n int) string {
	if loc[2*n] < 0 {
		return ""
	}
	return text[loc[2*n]:loc[2*n+1]]
}

// extractPriority strips the first priority marker found. Exclamation
// runs take precedence: `!!!` high, `!!` medium, a lone `!` low. Bracket
// forms [high]/[medium]/[low] are equivalent alternates.
func extractPriority(text string) (string, model.Priority) {
	switch {
	case strings.Contains(text, "!!!"):
		return strings.Replace(text, "!!!", "", 1), model.PriorityHigh
	case strings.Contains(text, "!!"):
		return strings.Replace(text, "!!", "", 1), model.PriorityMedium
	case singleBang.MatchString(text):
		return strings.Replace(text, "!", "", 1), model.PriorityLow
	}

	if loc := bracketPriority.FindStringSubmatchIndex(text); loc != nil {
		p := model.Priority(strings.ToLower(text[loc[2]:loc[3]]))
		return text[:loc[0]] + text[loc[1]:], p
	}
	return text, model.PriorityNone
}

var spaceRun = regexp.MustCompile(`\s+`)

// cleanText strips bold and backtick markers and collapses the whitespace
// runs left behind by removed annotations.
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "`", "")
	text = spaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
