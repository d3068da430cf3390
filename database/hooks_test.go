package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAfterCommit(t *testing.T) {
	t.Run("outside a session runs immediately", func(t *testing.T) {
		ran := false
		AfterCommit(context.Background(), func() { ran = true })
		assert.True(t, ran)
	})

	t.Run("queued until run", func(t *testing.T) {
		ctx, hooks := WithCommitHooks(context.Background())
		var order []int
		AfterCommit(ctx, func() { order = append(order, 1) })
		AfterCommit(ctx, func() { order = append(order, 2) })
		assert.Empty(t, order)

		hooks.Run()
		assert.Equal(t, []int{1, 2}, order)

		hooks.Run()
		assert.Equal(t, []int{1, 2}, order, "hooks run once")
	})

	t.Run("discarded on rollback", func(t *testing.T) {
		ctx, hooks := WithCommitHooks(context.Background())
		ran := false
		AfterCommit(ctx, func() { ran = true })
		hooks.Discard()
		hooks.Run()
		assert.False(t, ran)
	})
}
