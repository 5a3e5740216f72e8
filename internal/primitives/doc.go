// Package primitives defines the data structures of the lesson phase chart:
// events, states, transitions and the machine configuration.
//
// The chart is declarative. Guards and actions are plain Go funcs attached to
// transitions and states; they are excluded from serialization, and GuardName
// carries a label for exports and logs.
//
// Invariants:
//   - Events are values and are never mutated after construction
//   - Top-level states live in MachineConfig.States; nested states only in Children
//   - Transition targets are dot-separated paths from a top-level state
package primitives
