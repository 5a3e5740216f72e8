// Package narration runs ordered speech/animation steps against a run token.
//
// A sequence is a flat slice of Steps executed strictly in order on the
// caller's goroutine. Every step that suspends (speech, waits, per-token
// pauses) is followed by a token check; once the token is superseded the
// sequence stops and produces no further effects. Visual effects go through
// runtoken.Controller.Apply so they cannot land after a concurrent Issue.
package narration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Narrator produces speech. Speak returns once the text was spoken or ctx was
// cancelled; it never fails. Implementations must not start speaking when ctx
// is already done.
type Narrator interface {
	Speak(ctx context.Context, text string)
	CancelOngoing()
}

// Mark is a temporary visual marking on tokens.
type Mark string

const (
	// MarkCounting is the group-wide emphasis shown while a group is spoken.
	MarkCounting Mark = "counting"
	// MarkHighlight is the single-token emphasis of a count-out.
	MarkHighlight Mark = "highlight"
	// MarkGhost flags tokens missing from a too-low answer.
	MarkGhost Mark = "ghost"
)

// Marker applies or clears marks on tokens by id.
type Marker interface {
	Mark(ids []uuid.UUID, mark Mark, on bool)
}

// Sleeper suspends for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration)
}

// TimerSleeper sleeps on a real timer.
type TimerSleeper struct{}

// Sleep implements Sleeper.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// SilentNarrator speaks nothing and returns immediately. Used when narration
// is disabled in config.
type SilentNarrator struct{}

// Speak implements Narrator.
func (SilentNarrator) Speak(context.Context, string) {}

// CancelOngoing implements Narrator.
func (SilentNarrator) CancelOngoing() {}
