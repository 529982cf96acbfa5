package generator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoJSONObject means the response contains no '{'.
	ErrNoJSONObject = errors.New("no JSON object found in response")
	// ErrUnbalancedJSON means an object was opened but never closed.
	ErrUnbalancedJSON = errors.New("unbalanced JSON object in response")
	// ErrMissingSection is returned when a strategy lacks an expected section.
	ErrMissingSection = errors.New("strategy section missing")
)

// Stage identifies where a generation failed.
type Stage string

const (
	StageInvoke  Stage = "invoke"
	StageExtract Stage = "extract"
	StageParse   Stage = "parse"
	StageShape   Stage = "shape"
)

// ValidationError is returned before any model call when the request is incomplete.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Please fill all required fields"
	}
	if len(e.Fields) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (%s)", msg, strings.Join(e.Fields, ", "))
}

// GenerationError wraps a failed model call, extraction or parse. Raw holds
// the model response when one was received.
type GenerationError struct {
	Stage Stage
	Raw   string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Error parsing strategy: %s failed", e.Stage)
	}
	if e.Stage == StageInvoke {
		return fmt.Sprintf("Error generating strategy: %v", e.Err)
	}
	return fmt.Sprintf("Error parsing strategy: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// MissingSectionError names the absent section and matches ErrMissingSection.
type MissingSectionError struct {
	Section Section
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("strategy section missing: %q", string(e.Section))
}

func (e *MissingSectionError) Is(target error) bool { return target == ErrMissingSection }
