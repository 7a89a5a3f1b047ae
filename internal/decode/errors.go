package decode

import (
	"errors"
	"fmt"
)

// FitErrorCode categorizes fitting and scoring failures.
type FitErrorCode string

const (
	// ErrCodeSingleClass indicates a training set without both classes.
	ErrCodeSingleClass FitErrorCode = "SINGLE_CLASS"

	// ErrCodeSingular indicates a covariance or Hessian that could not be factorized.
	ErrCodeSingular FitErrorCode = "SINGULAR"

	// ErrCodeEmpty indicates an empty training or test set.
	ErrCodeEmpty FitErrorCode = "EMPTY"

	// ErrCodeUndefinedScore indicates a metric that is undefined for the test labels.
	ErrCodeUndefinedScore FitErrorCode = "UNDEFINED_SCORE"
)

// FitError reports a failure while fitting or scoring one classifier.
// Fold and Bin are -1 when not applicable.
type FitError struct {
	Code    FitErrorCode
	Message string
	Fold    int
	Bin     int
}

func (e *FitError) Error() string {
	switch {
	case e.Fold >= 0 && e.Bin >= 0:
		return fmt.Sprintf("%s: %s (fold=%d, bin=%d)", e.Code, e.Message, e.Fold, e.Bin)
	case e.Bin >= 0:
		return fmt.Sprintf("%s: %s (bin=%d)", e.Code, e.Message, e.Bin)
	case e.Fold >= 0:
		return fmt.Sprintf("%s: %s (fold=%d)", e.Code, e.Message, e.Fold)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newFitError(code FitErrorCode, format string, args ...any) *FitError {
	return &FitError{Code: code, Message: fmt.Sprintf(format, args...), Fold: -1, Bin: -1}
}

// atBin returns err annotated with a bin index when it is a FitError.
func atBin(err error, bin int) error {
	var fe *FitError
	if errors.As(err, &fe) && fe.Bin < 0 {
		cp := *fe
		cp.Bin = bin
		return &cp
	}
	return err
}

// atFold returns err annotated with a fold index when it is a FitError.
func atFold(err error, fold int) error {
	var fe *FitError
	if errors.As(err, &fe) && fe.Fold < 0 {
		cp := *fe
		cp.Fold = fold
		return &cp
	}
	return err
}

// IsFitError reports whether err is a FitError with the given code.
func IsFitError(err error, code FitErrorCode) bool {
	var fe *FitError
	if errors.As(err, &fe) {
		return fe.Code == code
	}
	return false
}
