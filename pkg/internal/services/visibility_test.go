package services

import (
	"testing"

	"github.com/quillpost/quillpost/pkg/internal/models"
	"github.com/stretchr/testify/assert"
)

func makeAccount(id uint, name string) models.Account {
	account := models.Account{Name: name, IsEnabled: true}
	account.ID = id
	return account
}

func makePost(owner models.Account) models.Post {
	return models.Post{AccountID: owner.ID, Account: owner}
}

func TestCanViewAnonymous(t *testing.T) {
	owner := makeAccount(1, "alice")
	anon := AnonymousViewer()

	post := makePost(owner)
	assert.True(t, CanView(anon, PostItem(post)))

	hidden := makePost(owner)
	hidden.IsHidden = true
	assert.False(t, CanView(anon, PostItem(hidden)))

	deleted := makePost(owner)
	deleted.IsDeleted = true
	assert.False(t, CanView(anon, PostItem(deleted)))

	removed := makePost(owner)
	removed.IsDeletedByAdmin = true
	assert.False(t, CanView(anon, PostItem(removed)))

	disabledOwner := makeAccount(2, "bob")
	disabledOwner.IsEnabled = false
	assert.False(t, CanView(anon, PostItem(makePost(disabledOwner))))

	deletedOwner := makeAccount(3, "carol")
	deletedOwner.IsDeleted = true
	assert.False(t, CanView(anon, PostItem(makePost(deletedOwner))))
}

func TestCanViewPrivateOwnerWithShareableOverride(t *testing.T) {
	owner := makeAccount(1, "alice")
	owner.IsPrivate = true
	anon := AnonymousViewer()

	post := makePost(owner)
	assert.False(t, CanView(anon, PostItem(post)))

	post.IsShareable = true
	assert.True(t, CanView(anon, PostItem(post)))

	// The override never survives an admin deletion.
	post.IsDeletedByAdmin = true
	assert.False(t, CanView(anon, PostItem(post)))
}

func TestCanViewOwnerException(t *testing.T) {
	owner := makeAccount(1, "alice")
	owner.IsPrivate = true
	self := NewViewerContext(owner, nil, nil)

	post := makePost(owner)
	post.IsHidden = true
	post.IsDeleted = true
	assert.True(t, CanView(self, PostItem(post)))

	// Admin deletion is the one state that hides content from its owner.
	post.IsDeletedByAdmin = true
	assert.False(t, CanView(self, PostItem(post)))
}

func TestCanViewBlockEitherDirection(t *testing.T) {
	owner := makeAccount(1, "alice")
	viewer := makeAccount(2, "bob")
	post := makePost(owner)

	plain := NewViewerContext(viewer, nil, nil)
	assert.True(t, CanView(plain, PostItem(post)))

	viewerBlockedOwner := NewViewerContext(viewer, []uint{owner.ID}, nil)
	assert.False(t, CanView(viewerBlockedOwner, PostItem(post)))

	ownerBlockedViewer := NewViewerContext(viewer, nil, []uint{owner.ID})
	assert.False(t, CanView(ownerBlockedViewer, PostItem(post)))
}

func TestCanViewBlockScenario(t *testing.T) {
	// A public account posts; another account blocks the author. The blocker
	// loses sight of the post while everyone else keeps it.
	alice := makeAccount(1, "alice")
	post := makePost(alice)

	bob := makeAccount(2, "bob")
	bobViewer := NewViewerContext(bob, []uint{alice.ID}, nil)
	assert.False(t, CanView(bobViewer, PostItem(post)))

	assert.True(t, CanView(AnonymousViewer(), PostItem(post)))
	assert.True(t, CanView(NewViewerContext(alice, nil, nil), PostItem(post)))
}

func TestCanViewProfile(t *testing.T) {
	target := makeAccount(1, "alice")
	viewer := makeAccount(2, "bob")

	assert.True(t, CanView(AnonymousViewer(), AccountItem(target)))
	assert.True(t, CanView(NewViewerContext(viewer, nil, nil), AccountItem(target)))

	target.IsPrivate = true
	assert.False(t, CanView(AnonymousViewer(), AccountItem(target)))
	assert.False(t, CanView(NewViewerContext(viewer, nil, nil), AccountItem(target)))
	assert.True(t, CanView(NewViewerContext(target, nil, nil), AccountItem(target)))

	target.IsPrivate = false
	target.IsEnabled = false
	assert.False(t, CanView(NewViewerContext(viewer, nil, nil), AccountItem(target)))
	assert.True(t, CanView(NewViewerContext(target, nil, nil), AccountItem(target)))
}

func TestCanViewComment(t *testing.T) {
	owner := makeAccount(1, "alice")
	viewer := makeAccount(2, "bob")

	comment := models.Comment{AccountID: owner.ID, Account: owner}
	assert.True(t, CanView(NewViewerContext(viewer, nil, nil), CommentItem(comment)))

	comment.IsHidden = true
	assert.False(t, CanView(NewViewerContext(viewer, nil, nil), CommentItem(comment)))
	assert.True(t, CanView(NewViewerContext(owner, nil, nil), CommentItem(comment)))
}

func TestHiddenAccountIDs(t *testing.T) {
	viewer := makeAccount(1, "alice")

	ctx := NewViewerContext(viewer, []uint{2, 3}, []uint{3, 4})
	assert.ElementsMatch(t, []uint{2, 3, 4}, ctx.HiddenAccountIDs())

	assert.Empty(t, AnonymousViewer().HiddenAccountIDs())
}
