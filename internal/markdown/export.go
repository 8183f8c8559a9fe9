package markdown

import (
	"fmt"
	"strings"

	"github.com/palomera/studyd/internal/model"
)

// Export serializes a checklist back into the dialect Parse accepts, so an
// exported checklist re-imports with the same shape, flags and metadata.
func Export(cl model.Checklist) string {
	var b strings.Builder
	b.WriteString("# " + heading(cl.Emoji, cl.Title) + "\n")

	for _, section := range cl.Sections {
		b.WriteString("\n## " + heading(section.Emoji, section.Title) + "\n")
		if section.Description != "" {
			b.WriteString("*" + section.Description + "*\n")
		}
		for _, item := range section.Items {
			exportItem(&b, item, 0)
		}
	}
	return b.String()
}

func heading(emoji, title string) string {
	if emoji == "" {
		return title
	}
	return emoji + " " + title
}

func exportItem(b *strings.Builder, item model.TodoItem, depth int) {
	mark := " "
	if item.Completed {
		mark = "x"
	}
	line := strings.Repeat(" ", depth*indentPerLevel) + "- [" + mark + "] " + item.Text
	if item.TimeEstimate > 0 {
		line += " " + formatEstimate(item.TimeEstimate)
	}
	if marker := priorityMarker(item.Priority); marker != "" {
		line += " " + marker
	}
	b.WriteString(line + "\n")

	for _, child := range item.Children {
		exportItem(b, child, depth+1)
	}
}

func formatEstimate(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("(~%dh%dm)", h, m)
	case h > 0:
		return fmt.Sprintf("(~%dh)", h)
	default:
		return fmt.Sprintf("(~%dm)", m)
	}
}

func priorityMarker(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "!!!"
	case model.PriorityMedium:
		return "!!"
	case model.PriorityLow:
		return "!"
	default:
		return ""
	}
}
