package graph

// Error codes surfaced in extensions.code.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeBadUserInput = "BAD_USER_INPUT"
)

// Error is a typed GraphQL error. The Extensions method is picked up by the
// graphql-go executor and merged into the error object sent to the client.
type Error struct {
	Message     string
	Code        string
	InvalidArgs interface{}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if e.InvalidArgs != nil {
		ext["invalidArgs"] = e.InvalidArgs
	}
	return ext
}

func errUnauthorized() *Error {
	return &Error{Message: "Unauthorized", Code: CodeUnauthorized}
}

// errBadUserInput carries the rejected input back for client display.
func errBadUserInput(message string, invalidArgs interface{}) *Error {
	return &Error{Message: message, Code: CodeBadUserInput, InvalidArgs: invalidArgs}
}
