// Package evaluator classifies typed answers against an expected total.
package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Answer bounds. Two operands of 0..9 never sum past MaxAnswer.
const (
	MinAnswer = 0
	MaxAnswer = 18
)

// Verdict is the classification of a submission.
type Verdict int

const (
	Invalid Verdict = iota
	Correct
	Over
	Under
)

func (v Verdict) String() string {
	switch v {
	case Invalid:
		return "invalid"
	case Correct:
		return "correct"
	case Over:
		return "over"
	case Under:
		return "under"
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

// Result is the outcome of Evaluate. Submitted and Amount are zero for Invalid.
type Result struct {
	Verdict   Verdict
	Submitted int
	Amount    int
}

// Normalize trims raw, parses it as a number, floors it and clamps it to
// [MinAnswer, MaxAnswer]. ok is false for empty or non-numeric input.
func Normalize(raw string) (n int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	f = math.Floor(f)
	switch {
	case f < MinAnswer:
		return MinAnswer, true
	case f > MaxAnswer:
		return MaxAnswer, true
	}
	return int(f), true
}

// Sanitize is the on-change hook for the answer field. Empty input stays
// empty, non-numeric input is cleared and numbers become their clamped
// integer text.
func Sanitize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	n, ok := Normalize(raw)
	if !ok {
		return ""
	}
	return strconv.Itoa(n)
}

// Evaluate classifies raw against expected.
func Evaluate(raw string, expected int) Result {
	n, ok := Normalize(raw)
	if !ok {
		return Result{Verdict: Invalid}
	}
	return Compare(n, expected)
}

// Compare classifies an already normalized submission.
func Compare(submitted, expected int) Result {
	switch {
	case submitted == expected:
		return Result{Verdict: Correct, Submitted: submitted}
	case submitted > expected:
		return Result{Verdict: Over, Submitted: submitted, Amount: submitted - expected}
	default:
		return Result{Verdict: Under, Submitted: submitted, Amount: expected - submitted}
	}
}
