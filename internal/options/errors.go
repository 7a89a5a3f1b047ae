package options

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// OptionsError is an invalid or missing option, with its CUE source
// position when one is known.
type OptionsError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *OptionsError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldError(v cue.Value, path, msg string) *OptionsError {
	return &OptionsError{Field: path, Message: msg, Pos: v.Pos()}
}

func wrapFieldError(v cue.Value, path string, err error) *OptionsError {
	return &OptionsError{Field: path, Message: err.Error(), Pos: v.Pos()}
}

// formatCUEError converts the first CUE error into an OptionsError.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	return toOptionsError(errs[0])
}

func toOptionsError(e errors.Error) *OptionsError {
	oe := &OptionsError{Field: "cue", Message: e.Error()}
	if path := e.Path(); len(path) > 0 {
		oe.Field = joinPath(path)
	}
	if positions := errors.Positions(e); len(positions) > 0 {
		oe.Pos = positions[0]
	}
	return oe
}

func joinPath(path []string) string {
	out := path[0]
	for _, p := range path[1:] {
		out += "." + p
	}
	return out
}
