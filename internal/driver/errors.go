package driver

import "fmt"

// MissingInputError is returned when an explicitly named input does not exist.
// No compiler invocation has happened when it is returned.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

// CompilerExitError reports a compiler process that ran but exited non-zero.
type CompilerExitError struct {
	Args []string
	Code int
}

func (e *CompilerExitError) Error() string {
	return fmt.Sprintf("compiler exited with status %d (args %v)", e.Code, e.Args)
}
