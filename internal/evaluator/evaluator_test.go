package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"7", 7, true},
		{"  7 ", 7, true},
		{"3.9", 3, true},
		{"-2", 0, true},
		{"-0.5", 0, true},
		{"25", 18, true},
		{"1e1", 10, true},
		{"+Inf", 18, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"7a", 0, false},
		{"NaN", 0, false},
		{"0x10", 0, false},
		{"1_0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "", Sanitize(""))
	assert.Equal(t, " ", Sanitize(" "))
	assert.Equal(t, "", Sanitize("x"))
	assert.Equal(t, "18", Sanitize("99"))
	assert.Equal(t, "4", Sanitize("4.5"))
	assert.Equal(t, "0", Sanitize("-3"))
	assert.Equal(t, "12", Sanitize("12"))
}

// Every submission in range yields exactly one verdict with the right amount.
func TestEvaluate_Totality(t *testing.T) {
	for expected := 0; expected <= 30; expected++ {
		for s := MinAnswer; s <= MaxAnswer; s++ {
			r := Compare(s, expected)
			switch {
			case s == expected:
				assert.Equal(t, Correct, r.Verdict)
				assert.Zero(t, r.Amount)
			case s > expected:
				assert.Equal(t, Over, r.Verdict)
				assert.Equal(t, s-expected, r.Amount)
			default:
				assert.Equal(t, Under, r.Verdict)
				assert.Equal(t, expected-s, r.Amount)
			}
			assert.Equal(t, s, r.Submitted)
		}
	}
}

func TestEvaluate_Scenarios(t *testing.T) {
	assert.Equal(t, Result{Verdict: Over, Submitted: 9, Amount: 2}, Evaluate("9", 7))
	assert.Equal(t, Result{Verdict: Under, Submitted: 4, Amount: 3}, Evaluate("4", 7))
	assert.Equal(t, Result{Verdict: Correct, Submitted: 7}, Evaluate(" 7 ", 7))
	assert.Equal(t, Result{Verdict: Invalid}, Evaluate("abc", 7))
	assert.Equal(t, Result{Verdict: Invalid}, Evaluate("", 7))
	// Clamped before comparison.
	assert.Equal(t, Result{Verdict: Over, Submitted: 18, Amount: 11}, Evaluate("40", 7))
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "invalid", Invalid.String())
	assert.Equal(t, "correct", Correct.String())
	assert.Equal(t, "over", Over.String())
	assert.Equal(t, "under", Under.String())
	assert.Equal(t, "verdict(9)", Verdict(9).String())
}
