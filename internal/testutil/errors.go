// Package testutil provides fakes and helpers shared by dsf tests.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for simulating failures in tests.
var (
	// ErrMockNetwork simulates an unreachable environment.
	ErrMockNetwork = errors.New("network error")

	// ErrMockQuery simulates a failed remote query.
	ErrMockQuery = errors.New("query failed")

	// ErrMockPrompt simulates a failing interactive prompt.
	ErrMockPrompt = errors.New("prompt failed")
)
