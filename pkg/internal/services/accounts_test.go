package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProfile(t *testing.T) {
	target := makeAccount(1, "alice")
	viewer := makeAccount(2, "bob")

	view, err := renderProfile(NewViewerContext(viewer, nil, nil), target)
	require.NoError(t, err)
	assert.Equal(t, target.Name, view.Account.Name)
	assert.False(t, view.YouBlocked)
	assert.False(t, view.BlockedYou)
}

func TestRenderProfileBlockStubs(t *testing.T) {
	target := makeAccount(1, "alice")
	target.Email = "alice@example.com"
	viewer := makeAccount(2, "bob")

	view, err := renderProfile(NewViewerContext(viewer, []uint{target.ID}, nil), target)
	require.NoError(t, err)
	assert.True(t, view.YouBlocked)
	assert.Equal(t, target.Name, view.Account.Name)
	assert.Empty(t, view.Account.Email)
	assert.Zero(t, view.Account.ID)

	view, err = renderProfile(NewViewerContext(viewer, nil, []uint{target.ID}), target)
	require.NoError(t, err)
	assert.True(t, view.BlockedYou)
	assert.Equal(t, target.Name, view.Account.Name)
	assert.Empty(t, view.Account.Email)
}

// A private profile stays not-found even when a block edge exists; the stub
// would otherwise reveal that the account is there.
func TestRenderProfilePrivateBeatsBlockStub(t *testing.T) {
	target := makeAccount(1, "alice")
	target.IsPrivate = true
	viewer := makeAccount(2, "bob")

	_, err := renderProfile(NewViewerContext(viewer, []uint{target.ID}, nil), target)
	assert.True(t, IsKind(err, KindNotFound))

	_, err = renderProfile(NewViewerContext(viewer, nil, []uint{target.ID}), target)
	assert.True(t, IsKind(err, KindNotFound))

	// The owner still sees the full profile.
	view, err := renderProfile(NewViewerContext(target, nil, nil), target)
	require.NoError(t, err)
	assert.Equal(t, target.ID, view.Account.ID)
}

func TestRenderProfileDeactivatedTarget(t *testing.T) {
	viewer := makeAccount(2, "bob")

	deleted := makeAccount(1, "alice")
	deleted.IsDeleted = true
	_, err := renderProfile(NewViewerContext(viewer, []uint{deleted.ID}, nil), deleted)
	assert.True(t, IsKind(err, KindNotFound))

	disabled := makeAccount(3, "carol")
	disabled.IsEnabled = false
	_, err = renderProfile(NewViewerContext(viewer, nil, nil), disabled)
	assert.True(t, IsKind(err, KindNotFound))

	// Owners keep access to their own soft-deleted profile.
	view, err := renderProfile(NewViewerContext(deleted, nil, nil), deleted)
	require.NoError(t, err)
	assert.Equal(t, deleted.ID, view.Account.ID)
}
