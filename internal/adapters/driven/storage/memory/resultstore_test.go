package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

func TestResultStore(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, &domain.Result{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Answers:   []domain.Answer{{Index: 1, Text: id}},
		}))
	}

	got, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Answers[0].Text)

	_, err = store.Get(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	two, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
	assert.NoError(t, store.Close())
}

func TestResultStore_SaveCopiesAndReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()
	r := &domain.Result{ID: "x", ModelID: "m1", Answers: []domain.Answer{{Index: 1, Text: "a"}}}
	require.NoError(t, store.Save(ctx, r))

	r.Answers[0].Text = "mutated"
	r.ModelID = "m2"
	got, _ := store.Get(ctx, "x")
	assert.Equal(t, "a", got.Answers[0].Text)

	require.NoError(t, store.Save(ctx, r))
	all, _ := store.List(ctx, 0)
	require.Len(t, all, 1)
	assert.Equal(t, "m2", all[0].ModelID)
}
