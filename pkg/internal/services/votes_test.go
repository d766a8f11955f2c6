package services

import (
	"testing"

	"github.com/quillpost/quillpost/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextVoteTransitions(t *testing.T) {
	cases := []struct {
		name    string
		current models.Attitude
		op      VoteOp
		next    models.Attitude
		delta   int
		fails   bool
	}{
		{name: "like from none", current: AttitudeNone, op: OpLike, next: models.AttitudePositive, delta: 1},
		{name: "like from disliked", current: models.AttitudeNegative, op: OpLike, next: models.AttitudePositive, delta: 2},
		{name: "like from liked", current: models.AttitudePositive, op: OpLike, fails: true},
		{name: "remove like from liked", current: models.AttitudePositive, op: OpRemoveLike, next: AttitudeNone, delta: -1},
		{name: "remove like from none", current: AttitudeNone, op: OpRemoveLike, fails: true},
		{name: "remove like from disliked", current: models.AttitudeNegative, op: OpRemoveLike, fails: true},
		{name: "dislike from none", current: AttitudeNone, op: OpDislike, next: models.AttitudeNegative, delta: -1},
		{name: "dislike from liked", current: models.AttitudePositive, op: OpDislike, next: models.AttitudeNegative, delta: -2},
		{name: "dislike from disliked", current: models.AttitudeNegative, op: OpDislike, fails: true},
		{name: "remove dislike from disliked", current: models.AttitudeNegative, op: OpRemoveDislike, next: AttitudeNone, delta: 1},
		{name: "remove dislike from none", current: AttitudeNone, op: OpRemoveDislike, fails: true},
		{name: "remove dislike from liked", current: models.AttitudePositive, op: OpRemoveDislike, fails: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, delta, err := NextVote(tc.current, tc.op)
			if tc.fails {
				require.Error(t, err)
				assert.True(t, IsKind(err, KindConflict))
				assert.Equal(t, tc.current, next)
				assert.Zero(t, delta)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.next, next)
			assert.Equal(t, tc.delta, delta)
		})
	}
}

// The denormalized rating must always equal likes minus dislikes; replay a
// long operation sequence over the transition function and keep the two
// views in sync.
func TestNextVoteRatingInvariant(t *testing.T) {
	ops := []VoteOp{
		OpLike, OpLike, OpDislike, OpDislike, OpRemoveDislike,
		OpRemoveDislike, OpLike, OpRemoveLike, OpDislike, OpLike,
		OpRemoveLike, OpRemoveDislike, OpDislike, OpRemoveDislike, OpLike,
	}

	current := AttitudeNone
	rating := 0

	for idx, op := range ops {
		next, delta, err := NextVote(current, op)
		if err != nil {
			assert.True(t, IsKind(err, KindConflict), "op %d", idx)
			continue
		}
		current = next
		rating += delta

		expected := 0
		switch current {
		case models.AttitudePositive:
			expected = 1
		case models.AttitudeNegative:
			expected = -1
		}
		assert.Equal(t, expected, rating, "after op %d", idx)
	}
}

// Removing a standing vote row outside the ledger, as the account delete
// cascade does, must subtract exactly what the ledger once added.
func TestAttitudeWeightMatchesLedger(t *testing.T) {
	next, delta, err := NextVote(AttitudeNone, OpLike)
	require.NoError(t, err)
	assert.Equal(t, attitudeWeight(next), delta)

	next, delta, err = NextVote(AttitudeNone, OpDislike)
	require.NoError(t, err)
	assert.Equal(t, attitudeWeight(next), delta)

	// Retraction through the ledger and weight-based retraction agree.
	_, delta, err = NextVote(models.AttitudePositive, OpRemoveLike)
	require.NoError(t, err)
	assert.Equal(t, -attitudeWeight(models.AttitudePositive), delta)

	_, delta, err = NextVote(models.AttitudeNegative, OpRemoveDislike)
	require.NoError(t, err)
	assert.Equal(t, -attitudeWeight(models.AttitudeNegative), delta)
}

func TestNextVoteSwitchScenario(t *testing.T) {
	// Rating 0, voter likes then dislikes: up to 1, then down to -1.
	rating := 0

	next, delta, err := NextVote(AttitudeNone, OpLike)
	require.NoError(t, err)
	rating += delta
	assert.Equal(t, 1, rating)
	assert.Equal(t, models.AttitudePositive, next)

	next, delta, err = NextVote(next, OpDislike)
	require.NoError(t, err)
	rating += delta
	assert.Equal(t, -1, rating)
	assert.Equal(t, models.AttitudeNegative, next)
}
