// Package embedded is the build-tag-gated bridge client for linking
// directly against an in-process CAD binding instead of talking to a
// network transport. Without the "embedded" build tag (the default here,
// since no cgo binding is available to validate in this exercise) it
// exposes the same Client/New/Call/State/Close surface as the tagged build,
// with Available reporting false, grounded on the arch-dispatch
// capability-check idiom of pkg/coder/claude/embedded/proxy.go's
// HasEmbeddedBinaries.
package embedded

// Available reports whether this binary was built with embedded CAD
// bindings linked in. Callers must check this before selecting
// MODE=embedded; its absence is a startup ConfigInvalid error, never a
// runtime one.
func Available() bool { return available }
