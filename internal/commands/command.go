package commands

import (
	"fmt"
	"strings"
	"unicode"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeEdit   Type = "edit"
	TypeDelete Type = "rm"
	TypeReload Type = "reload"
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

type AddArgs struct {
	Title string
}

type EditArgs struct {
	Ref   string
	Title string
}

type DeleteArgs struct {
	Ref string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Edit   *EditArgs
	Delete *DeleteArgs
}

var aliases = map[string]Type{
	"new":    TypeAdd,
	"rename": TypeEdit,
	"delete": TypeDelete,
	"del":    TypeDelete,
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
	if alias, ok := aliases[head]; ok {
		head = string(alias)
	}

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, afterFields(raw, 1))
	case TypeEdit:
		return parseEdit(input, args, afterFields(raw, 2))
	case TypeDelete:
		return parseDelete(input, args)
	case TypeReload:
		return Command{Type: TypeReload, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// afterFields returns s with its first n whitespace separated fields and the
// whitespace that follows them removed. The rest is returned verbatim.
func afterFields(s string, n int) string {
	for i := 0; i < n; i++ {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		end := strings.IndexFunc(s, unicode.IsSpace)
		if end < 0 {
			return ""
		}
		s = s[end:]
	}
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

func parseAdd(raw, title string) (Command, error) {
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseEdit(raw string, args []string, title string) (Command, error) {
	if len(args) < 2 || title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires a task ref and a title"}
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{Ref: args[0], Title: title}}, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "rm requires exactly one task ref"}
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Ref: args[0]}}, nil
}
