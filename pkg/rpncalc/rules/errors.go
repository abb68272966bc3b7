package rules

import (
	"errors"
	"fmt"
)

// Sentinel errors for engine operations.
var (
	// ErrRuleNotFound is returned when evaluating or removing an unknown rule.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrDuplicateRule is returned by Add when the name is already taken.
	ErrDuplicateRule = errors.New("rule already exists")

	// ErrEmptyName is returned when a rule has no name.
	ErrEmptyName = errors.New("rule name is empty")
)

// RuleError wraps a failure with the rule and the operation that failed.
type RuleError struct {
	Rule string
	Op   string // "add", "load", "evaluate"
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: %s: %v", e.Rule, e.Op, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
