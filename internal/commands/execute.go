package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Import func(ImportArgs) (Result, error)
	Add    func(AddArgs) (Result, error)
	Goal   func(GoalArgs) (Result, error)
	Start  func(StartArgs) (Result, error)
	Show   func(ShowArgs) (Result, error)
	Dup    func(DupArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeImport:
		if handlers.Import == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "import handler not configured"}
		}
		return handlers.Import(*cmd.Import)
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeGoal:
		if handlers.Goal == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "goal handler not configured"}
		}
		return handlers.Goal(*cmd.Goal)
	case TypeStart:
		if handlers.Start == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "start handler not configured"}
		}
		return handlers.Start(*cmd.Start)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "show handler not configured"}
		}
		return handlers.Show(*cmd.Show)
	case TypeDup:
		if handlers.Dup == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "dup handler not configured"}
		}
		return handlers.Dup(*cmd.Dup)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
