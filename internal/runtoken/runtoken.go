// Package runtoken issues cancellation handles for narration runs.
//
// Exactly one token is current at a time. Issuing a new token supersedes every
// earlier one: its context is cancelled, cancel hooks run (the narrator stops
// talking), and Apply refuses to run effects on its behalf. There is no
// cancel-without-replace operation.
package runtoken

import (
	"context"
	"sync"
)

// Token identifies one narration/animation attempt.
type Token struct {
	id  uint64
	ctx context.Context
}

// ID returns the token's sequence number. Zero is never issued.
func (t Token) ID() uint64 {
	return t.id
}

// Context is cancelled as soon as the token is superseded.
func (t Token) Context() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

// Controller hands out tokens and tracks which one is current.
// Safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	base    context.Context
	current uint64
	cancel  context.CancelFunc
	hooks   []func()
}

// NewController creates a Controller whose token contexts derive from base.
// hooks run after every Issue, outside the controller lock.
func NewController(base context.Context, hooks ...func()) *Controller {
	if base == nil {
		base = context.Background()
	}
	return &Controller{base: base, hooks: hooks}
}

// OnIssue registers an additional cancel hook.
func (c *Controller) OnIssue(hook func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook)
}

// Issue supersedes the current token and returns a new one.
func (c *Controller) Issue() Token {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.current++
	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	tok := Token{id: c.current, ctx: ctx}
	hooks := append([]func(){}, c.hooks...)
	c.mu.Unlock()

	for _, h := range hooks {
		h()
	}
	return tok
}

// Current returns the id of the current token, zero before the first Issue.
func (c *Controller) Current() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// IsCurrent reports whether tok has not been superseded.
func (c *Controller) IsCurrent(tok Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return tok.id != 0 && tok.id == c.current
}

// Apply runs fn only if tok is current, holding the controller lock so that
// no Issue can interleave. fn must not call back into the Controller.
func (c *Controller) Apply(tok Token, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tok.id == 0 || tok.id != c.current {
		return false
	}
	fn()
	return true
}
