package services

import (
	"testing"

	"github.com/quillpost/quillpost/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeComment(id uint, owner models.Account, replies ...models.Comment) models.Comment {
	comment := models.Comment{Content: "comment", AccountID: owner.ID, Account: owner, Replies: replies}
	comment.ID = id
	return comment
}

func TestFilterCommentTreePrunesSubtree(t *testing.T) {
	alice := makeAccount(1, "alice")
	bob := makeAccount(2, "bob")

	hidden := makeComment(2, alice,
		makeComment(3, bob),
		makeComment(4, bob),
	)
	hidden.IsHidden = true

	roots := []models.Comment{
		makeComment(1, bob),
		hidden,
	}

	// Non-owner viewers lose the hidden comment and both of its visible
	// children; nothing is hoisted to the root level.
	viewer := NewViewerContext(bob, nil, nil)
	result := FilterCommentTree(viewer, roots)
	require.Len(t, result, 1)
	assert.Equal(t, uint(1), result[0].ID)

	// The owner keeps the hidden comment with its children intact.
	ownerResult := FilterCommentTree(NewViewerContext(alice, nil, nil), roots)
	require.Len(t, ownerResult, 2)
	assert.Equal(t, uint(2), ownerResult[1].ID)
	assert.Len(t, ownerResult[1].Replies, 2)
}

func TestFilterCommentTreeNestedPruning(t *testing.T) {
	alice := makeAccount(1, "alice")
	bob := makeAccount(2, "bob")

	deleted := makeComment(3, bob, makeComment(4, alice))
	deleted.IsDeleted = true

	roots := []models.Comment{
		makeComment(1, alice, makeComment(2, bob), deleted),
	}

	result := FilterCommentTree(AnonymousViewer(), roots)
	require.Len(t, result, 1)
	require.Len(t, result[0].Replies, 1)
	assert.Equal(t, uint(2), result[0].Replies[0].ID)
}

func TestFilterCommentTreeIdempotent(t *testing.T) {
	alice := makeAccount(1, "alice")
	bob := makeAccount(2, "bob")

	hidden := makeComment(5, bob)
	hidden.IsHidden = true

	roots := []models.Comment{
		makeComment(1, alice,
			makeComment(2, bob, makeComment(3, alice)),
			hidden,
		),
		makeComment(4, bob),
	}

	viewer := NewViewerContext(alice, nil, nil)
	once := FilterCommentTree(viewer, roots)
	twice := FilterCommentTree(viewer, once)
	assert.Equal(t, once, twice)
}

func TestFilterCommentTreeDoesNotMutateInput(t *testing.T) {
	alice := makeAccount(1, "alice")

	hidden := makeComment(2, alice)
	hidden.IsHidden = true
	roots := []models.Comment{makeComment(1, alice, hidden)}

	_ = FilterCommentTree(AnonymousViewer(), roots)
	require.Len(t, roots[0].Replies, 1)
}

func TestFilterCommentTreeBlockedAuthor(t *testing.T) {
	alice := makeAccount(1, "alice")
	bob := makeAccount(2, "bob")

	roots := []models.Comment{
		makeComment(1, alice, makeComment(2, bob)),
	}

	// The viewer blocked bob: bob's reply disappears, alice's root stays.
	viewer := NewViewerContext(makeAccount(3, "carol"), []uint{bob.ID}, nil)
	result := FilterCommentTree(viewer, roots)
	require.Len(t, result, 1)
	assert.Empty(t, result[0].Replies)
}

func TestFilterCommentTreeDeepThread(t *testing.T) {
	alice := makeAccount(1, "alice")

	// A degenerate single-chain thread far deeper than any sane goroutine
	// stack would tolerate recursively.
	const depth = 100_000
	node := makeComment(depth, alice)
	for id := depth - 1; id >= 1; id-- {
		node = makeComment(uint(id), alice, node)
	}

	result := FilterCommentTree(AnonymousViewer(), []models.Comment{node})
	require.Len(t, result, 1)

	count := 0
	cursor := &result[0]
	for {
		count++
		if len(cursor.Replies) == 0 {
			break
		}
		cursor = &cursor.Replies[0]
	}
	assert.Equal(t, depth, count)
}

func TestAssembleCommentTree(t *testing.T) {
	alice := makeAccount(1, "alice")

	flat := []models.Comment{
		makeComment(1, alice),
		makeComment(2, alice),
		makeComment(3, alice),
		makeComment(4, alice),
	}
	flat[1].ReplyID = &flat[0].ID
	flat[2].ReplyID = &flat[1].ID
	flat[3].ReplyID = nil

	roots := AssembleCommentTree(flat, nil)
	require.Len(t, roots, 2)
	require.Len(t, roots[0].Replies, 1)
	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, uint(3), roots[0].Replies[0].Replies[0].ID)

	subtree := AssembleCommentTree(flat[1:], &flat[0].ID)
	require.Len(t, subtree, 1)
	assert.Equal(t, uint(2), subtree[0].ID)
	require.Len(t, subtree[0].Replies, 1)
}
