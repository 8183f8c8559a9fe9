package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeImport Type = "import"
	TypeAdd    Type = "add"
	TypeGoal   Type = "goal"
	TypeStart  Type = "start"
	TypeShow   Type = "show"
	TypeDup    Type = "dup"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type ImportArgs struct {
	Path string
}

// AddArgs adds a task to the active checklist. Section is matched by
// title; empty means the first section.
type AddArgs struct {
	Text    string
	Section string
}

type GoalArgs struct {
	Cadence     string
	Mode        string
	Target      int
	Title       string
	ChecklistID string
}

type StartArgs struct {
	Minutes int
}

type ShowArgs struct {
	Subject string
}

// DupArgs duplicates a checklist. An empty ChecklistID means the active
// one.
type DupArgs struct {
	ChecklistID string
}

type Command struct {
	Type   Type
	Raw    string
	Import *ImportArgs
	Add    *AddArgs
	Goal   *GoalArgs
	Start  *StartArgs
	Show   *ShowArgs
	Dup    *DupArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeImport:
		return parseImport(input, args)
	case TypeAdd:
		return parseAdd(input, args)
	case TypeGoal:
		return parseGoal(input, args)
	case TypeStart:
		return parseStart(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeDup:
		return parseDup(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseImport(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "import requires a file path"}
	}
	path := strings.TrimSpace(strings.Join(args, " "))
	return Command{Type: TypeImport, Raw: raw, Import: &ImportArgs{Path: path}}, nil
}

func parseAdd(raw string, args []string) (Command, error) {
	section := ""
	var words []string
	for _, arg := range args {
		if strings.HasPrefix(strings.ToLower(arg), "sec:") {
			section = strings.TrimSpace(arg[len("sec:"):])
			continue
		}
		words = append(words, arg)
	}
	text := strings.TrimSpace(strings.Join(words, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text, Section: section}}, nil
}

func parseGoal(raw string, args []string) (Command, error) {
	if len(args) < 4 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goal requires cadence, mode, target and title"}
	}
	cadence := strings.ToLower(args[0])
	mode := strings.ToLower(args[1])
	target, err := strconv.Atoi(args[2])
	if err != nil || target < 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid goal target: %s", args[2])}
	}

	checklistID := ""
	var words []string
	for _, arg := range args[3:] {
		if strings.HasPrefix(strings.ToLower(arg), "cl:") {
			checklistID = strings.TrimSpace(arg[len("cl:"):])
			continue
		}
		words = append(words, arg)
	}
	title := strings.TrimSpace(strings.Join(words, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goal requires a title"}
	}
	return Command{Type: TypeGoal, Raw: raw, Goal: &GoalArgs{
		Cadence:     cadence,
		Mode:        mode,
		Target:      target,
		Title:       title,
		ChecklistID: checklistID,
	}}, nil
}

func parseStart(raw string, args []string) (Command, error) {
	minutes := 25
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid duration: %s", args[0])}
		}
		minutes = n
	}
	return Command{Type: TypeStart, Raw: raw, Start: &StartArgs{Minutes: minutes}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	switch subject {
	case "checklists", "timer", "stopwatch", "focus", "goals", "markdown":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown subject: %s", subject)}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
}

func parseDup(raw string, args []string) (Command, error) {
	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	return Command{Type: TypeDup, Raw: raw, Dup: &DupArgs{ChecklistID: id}}, nil
}
