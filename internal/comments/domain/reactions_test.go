package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranwip/pm-backend/internal/apperr"
)

func TestReactions_AddIsIdempotent(t *testing.T) {
	r := Reactions{}
	assert.True(t, r.Add("👍", "u1"))
	assert.False(t, r.Add("👍", "u1"))
	assert.True(t, r.Add("👍", "u2"))
	assert.Equal(t, []string{"u1", "u2"}, r["👍"])
}

func TestReactions_Remove(t *testing.T) {
	r := Reactions{"👍": {"u1", "u2"}}

	require.NoError(t, r.Remove("👍", "u1"))
	assert.Equal(t, []string{"u2"}, r["👍"])

	require.NoError(t, r.Remove("👍", "nobody"))
	assert.Equal(t, []string{"u2"}, r["👍"])

	require.NoError(t, r.Remove("👍", "u2"))
	_, ok := r["👍"]
	assert.False(t, ok, "empty sets are deleted")

	err := r.Remove("👍", "u2")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.EqualError(t, err, "No 👍 reactions found on this comment")
}

func TestReactions_RemoveDoesNotAliasInput(t *testing.T) {
	users := []string{"u1", "u2"}
	r := Reactions{"🎉": users}
	require.NoError(t, r.Remove("🎉", "u1"))
	assert.Equal(t, []string{"u1", "u2"}, users)
}

func TestReactions_Normalize(t *testing.T) {
	r := Reactions{"👍": {"u1", "u1", ""}, "🎉": {}, " ": {"u3"}}
	assert.Equal(t, Reactions{"👍": {"u1"}}, r.Normalize())
}

func TestReactions_ScanValue(t *testing.T) {
	var r Reactions
	require.NoError(t, r.Scan([]byte(`{"👍":["u1","u1"],"🎉":[]}`)))
	assert.Equal(t, Reactions{"👍": {"u1"}}, r)

	require.NoError(t, r.Scan(nil))
	assert.Equal(t, Reactions{}, r)

	v, err := Reactions(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), v)
}

func TestComputeStats(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(nil))

	parent := int64(1)
	t0 := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	s := ComputeStats([]Comment{
		{ID: 1, AuthorID: "a", CreatedAt: t0},
		{ID: 2, AuthorID: "b", ParentCommentID: &parent, CreatedAt: t0.Add(time.Hour)},
		{ID: 3, AuthorID: "a", ParentCommentID: &parent, CreatedAt: t0.Add(30 * time.Minute)},
	})
	assert.Equal(t, 1, s.TotalComments)
	assert.Equal(t, 2, s.TotalReplies)
	assert.Equal(t, 2, s.UniqueParticipants)
	require.NotNil(t, s.RecentActivity)
	assert.Equal(t, t0.Add(time.Hour), *s.RecentActivity)
}

func TestNormalizeMentions(t *testing.T) {
	assert.Equal(t, []string{"Alex Kim", "Sam"}, NormalizeMentions([]string{" Alex Kim", "Sam", "", "Alex Kim"}))
}

func TestReactions_NormalizeMergesTrimmedKeys(t *testing.T) {
	r := Reactions{"👍": {"u1"}, " 👍": {"u1", "u2"}, "👍 ": {"u2"}}
	assert.Equal(t, Reactions{"👍": {"u1", "u2"}}, r.Normalize())
}

func TestReactions_PaddedEmojiRoundTrip(t *testing.T) {
	r := Reactions{"👍": {"u1"}}
	assert.False(t, r.Add("👍 ", "u1"))
	assert.Equal(t, Reactions{"👍": {"u1"}}, r)

	v, err := r.Value()
	require.NoError(t, err)
	var reloaded Reactions
	require.NoError(t, reloaded.Scan(v))
	assert.Equal(t, []string{"u1"}, reloaded["👍"])

	require.NoError(t, reloaded.Remove("👍 ", "u1"))
	assert.Empty(t, reloaded)
}

func TestParseEmoji(t *testing.T) {
	got, err := ParseEmoji("  🎉 ")
	require.NoError(t, err)
	assert.Equal(t, "🎉", got)

	_, err = ParseEmoji("   ")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
