package tui

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Subtitles is a narrator that shows each sentence on the scene for its
// reading time instead of speaking it.
type Subtitles struct {
	scene   *Scene
	wpm     int
	minHold time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewSubtitles returns a narrator writing to scene. A sentence stays up for
// its word count at wpm words per minute, never shorter than minHold.
func NewSubtitles(scene *Scene, wpm int, minHold time.Duration) *Subtitles {
	if wpm < 1 {
		wpm = 1
	}
	return &Subtitles{scene: scene, wpm: wpm, minHold: minHold}
}

// Hold is how long text stays on screen.
func (n *Subtitles) Hold(text string) time.Duration {
	words := len(strings.Fields(text))
	d := time.Duration(words) * time.Minute / time.Duration(n.wpm)
	if d < n.minHold {
		return n.minHold
	}
	return d
}

// Speak implements narration.Narrator.
// The context is checked under the lock so a concurrent CancelOngoing either
// clears this subtitle or keeps it from showing at all.
func (n *Subtitles) Speak(ctx context.Context, text string) {
	n.mu.Lock()
	if ctx.Err() != nil {
		n.mu.Unlock()
		return
	}
	if n.stop != nil {
		close(n.stop)
	}
	stop := make(chan struct{})
	n.stop = stop
	n.scene.setSubtitle(text)
	n.mu.Unlock()

	t := time.NewTimer(n.Hold(text))
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	case <-stop:
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stop == stop {
		n.stop = nil
		n.scene.setSubtitle("")
	}
}

// CancelOngoing implements narration.Narrator.
func (n *Subtitles) CancelOngoing() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stop != nil {
		close(n.stop)
		n.stop = nil
	}
	n.scene.setSubtitle("")
}
