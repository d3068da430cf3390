package database

import "context"

type commitHooksKey struct{}

// CommitHooks holds work that must wait until the request transaction has
// committed, such as emails carrying tokens written in that transaction.
type CommitHooks struct {
	fns []func()
}

// WithCommitHooks attaches an empty hook list to ctx.
func WithCommitHooks(ctx context.Context) (context.Context, *CommitHooks) {
	hooks := &CommitHooks{}
	return context.WithValue(ctx, commitHooksKey{}, hooks), hooks
}

// AfterCommit queues fn on the session carried by ctx. Outside a session
// there is nothing to wait for and fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	hooks, ok := ctx.Value(commitHooksKey{}).(*CommitHooks)
	if !ok {
		fn()
		return
	}
	hooks.fns = append(hooks.fns, fn)
}

// Run executes the queued hooks in order and empties the list.
func (h *CommitHooks) Run() {
	fns := h.fns
	h.fns = nil
	for _, fn := range fns {
		fn()
	}
}

// Discard drops the queued hooks after a rollback.
func (h *CommitHooks) Discard() {
	h.fns = nil
}
