package pathstore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNestedBatch reports a Batch call made while another batch is already
// open on the same store. Nested batches are a programmer error.
var ErrNestedBatch = errors.New("pathstore: batch already in progress")

// ErrNoEvaluator reports that no evaluator could be resolved for Watch.
var ErrNoEvaluator = errors.New("pathstore: evaluator not configured")

// WatchError captures evaluator metadata alongside the originating error.
type WatchError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *WatchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("pathstore: %s watch %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *WatchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var watchErr *WatchError
	if errors.As(err, &watchErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "pathstore:") {
		return err
	}
	return fmt.Errorf("pathstore: %s evaluator: %w", engine, err)
}

func wrapWatchError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}

	var watchErr *WatchError
	if errors.As(err, &watchErr) {
		if watchErr.Engine == "" {
			watchErr.Engine = engine
		}
		if watchErr.Expr == "" {
			watchErr.Expr = expr
		}
		return watchErr
	}

	return &WatchError{
		Engine: engine,
		Expr:   expr,
		Err:    err,
	}
}
