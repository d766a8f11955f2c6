package services

import (
	"github.com/quillpost/quillpost/pkg/internal/models"
)

// ContentItem is anything the visibility predicate can rule on: a post, a
// comment, or a profile viewed as content.
type ContentItem interface {
	Owner() models.Account
	Hidden() bool
	SelfDeleted() bool
	AdminDeleted() bool
	Shareable() bool
}

type postItem struct{ post models.Post }

func (v postItem) Owner() models.Account { return v.post.Account }
func (v postItem) Hidden() bool          { return v.post.IsHidden }
func (v postItem) SelfDeleted() bool     { return v.post.IsDeleted }
func (v postItem) AdminDeleted() bool    { return v.post.IsDeletedByAdmin }
func (v postItem) Shareable() bool       { return v.post.IsShareable }

func PostItem(post models.Post) ContentItem { return postItem{post} }

type commentItem struct{ comment models.Comment }

func (v commentItem) Owner() models.Account { return v.comment.Account }
func (v commentItem) Hidden() bool          { return v.comment.IsHidden }
func (v commentItem) SelfDeleted() bool     { return v.comment.IsDeleted }
func (v commentItem) AdminDeleted() bool    { return v.comment.IsDeletedByAdmin }
func (v commentItem) Shareable() bool       { return false }

func CommentItem(comment models.Comment) ContentItem { return commentItem{comment} }

// accountItem treats a profile as a content item owned by itself, so profile
// lookups run through the same predicate as posts and comments.
type accountItem struct{ account models.Account }

func (v accountItem) Owner() models.Account { return v.account }
func (v accountItem) Hidden() bool          { return false }
func (v accountItem) SelfDeleted() bool     { return false }
func (v accountItem) AdminDeleted() bool    { return false }
func (v accountItem) Shareable() bool       { return false }

func AccountItem(account models.Account) ContentItem { return accountItem{account} }

// CanView decides whether the viewer may see the item.
//
// Owners see their own content whatever its hidden, self-deleted or privacy
// state; the single exception is admin deletion, which hides content from
// everyone, the owner included. For everyone else the item must be clean on
// all moderation axes, its owner must be an active account, and a private
// owner hides the item unless it carries the shareable override. For
// authenticated non-owners a block edge in either direction hides the item.
func CanView(viewer ViewerContext, item ContentItem) bool {
	owner := item.Owner()
	if viewer.Account != nil && viewer.Account.ID == owner.ID {
		return !item.AdminDeleted()
	}

	visible := !item.Hidden() && !item.SelfDeleted() && !item.AdminDeleted() &&
		owner.IsEnabled && !owner.IsDeleted &&
		(!owner.IsPrivate || item.Shareable())
	if !visible || viewer.Account == nil {
		return visible
	}

	return !viewer.HasBlocked(owner.ID) && !viewer.IsBlockedBy(owner.ID)
}
