package services

import (
	"errors"

	"github.com/quillpost/quillpost/pkg/internal/database"
	"github.com/quillpost/quillpost/pkg/internal/models"
	"gorm.io/gorm"
)

func GetComment(viewer ViewerContext, id uint) (models.Comment, error) {
	var item models.Comment
	if err := database.C.Preload("Account").Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, NewNotFound("comment not found")
		}
		return item, wrapDatabaseError("get comment", err)
	}

	if !CanView(viewer, CommentItem(item)) {
		return item, NewNotFound("comment not found")
	}

	return item, nil
}

// NewComment creates a comment under exactly one parent, a post or another
// comment. The parent must be visible to the author; a nested reply always
// records the thread's root post as well.
func NewComment(author models.Account, content string, parentPostID, parentCommentID *uint) (models.Comment, error) {
	var item models.Comment

	if parentPostID == nil && parentCommentID == nil {
		return item, NewInvalidArgument("either a parent post or a parent comment must be provided")
	}
	if parentPostID != nil && parentCommentID != nil {
		return item, NewInvalidArgument("only one of parent post or parent comment can be provided")
	}

	viewer, err := BuildViewerContext(&author)
	if err != nil {
		return item, err
	}

	item = models.Comment{
		Content:   content,
		AccountID: author.ID,
	}

	if parentPostID != nil {
		parent, err := GetPost(viewer, *parentPostID)
		if err != nil {
			return item, err
		}
		item.PostID = parent.ID
	} else {
		parent, err := GetComment(viewer, *parentCommentID)
		if err != nil {
			return item, err
		}
		item.PostID = parent.PostID
		item.ReplyID = &parent.ID
	}

	if err := database.C.Save(&item).Error; err != nil {
		return item, wrapDatabaseError("create comment", err)
	}
	item.Account = author
	return item, nil
}

// ListPostComments returns the pruned comment forest of a post. The whole
// thread is loaded with a single query and assembled in memory.
func ListPostComments(viewer ViewerContext, postID uint) ([]models.Comment, error) {
	if _, err := GetPost(viewer, postID); err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := database.C.Preload("Account").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, wrapDatabaseError("list post comments", err)
	}

	roots := AssembleCommentTree(comments, nil)
	return FilterCommentTree(viewer, roots), nil
}

// ListCommentReplies returns the pruned subtree below one comment.
func ListCommentReplies(viewer ViewerContext, commentID uint) ([]models.Comment, error) {
	parent, err := GetComment(viewer, commentID)
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := database.C.Preload("Account").
		Where("post_id = ? AND id != ?", parent.PostID, parent.ID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, wrapDatabaseError("list comment replies", err)
	}

	roots := AssembleCommentTree(comments, &parent.ID)
	return FilterCommentTree(viewer, roots), nil
}

// AssembleCommentTree links a flat comment list into a forest rooted at the
// given parent comment, or at the post itself when parent is nil.
func AssembleCommentTree(comments []models.Comment, parent *uint) []models.Comment {
	children := make(map[uint][]models.Comment)
	var roots []models.Comment

	for _, comment := range comments {
		if comment.ReplyID != nil {
			children[*comment.ReplyID] = append(children[*comment.ReplyID], comment)
		}
	}

	attach := func(root *models.Comment) {
		stack := []*models.Comment{root}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			node.Replies = children[node.ID]
			for idx := range node.Replies {
				stack = append(stack, &node.Replies[idx])
			}
		}
	}

	for _, comment := range comments {
		isRoot := false
		if parent == nil {
			isRoot = comment.ReplyID == nil
		} else {
			isRoot = comment.ReplyID != nil && *comment.ReplyID == *parent
		}
		if isRoot {
			attach(&comment)
			roots = append(roots, comment)
		}
	}

	return roots
}

type commentFrame struct {
	node      models.Comment
	nextReply int
	kept      []models.Comment
}

// FilterCommentTree prunes a comment forest with the visibility predicate.
// An invisible node takes its whole subtree with it; children are never
// hoisted past a removed parent. The walk uses an explicit stack since the
// nesting depth is user-controlled, and it rebuilds the forest instead of
// mutating it in place.
func FilterCommentTree(viewer ViewerContext, roots []models.Comment) []models.Comment {
	result := make([]models.Comment, 0, len(roots))

	for _, root := range roots {
		if !CanView(viewer, CommentItem(root)) {
			continue
		}

		stack := []commentFrame{{node: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			if top.nextReply < len(top.node.Replies) {
				child := top.node.Replies[top.nextReply]
				top.nextReply++
				if CanView(viewer, CommentItem(child)) {
					stack = append(stack, commentFrame{node: child})
				}
				continue
			}

			finished := top.node
			finished.Replies = top.kept
			stack = stack[:len(stack)-1]

			if len(stack) == 0 {
				result = append(result, finished)
			} else {
				parent := &stack[len(stack)-1]
				parent.kept = append(parent.kept, finished)
			}
		}
	}

	return result
}

// ListCommentsByAuthor is a flat listing of an account's comments, pruned by
// the same predicate as the tree paths.
func ListCommentsByAuthor(viewer ViewerContext, authorID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := database.C.Preload("Account").
		Where("account_id = ?", authorID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, wrapDatabaseError("list comments by author", err)
	}

	result := make([]models.Comment, 0, len(comments))
	for _, comment := range comments {
		if CanView(viewer, CommentItem(comment)) {
			result = append(result, comment)
		}
	}
	return result, nil
}

func getOwnedComment(actor models.Account, id uint) (models.Comment, error) {
	viewer, err := BuildViewerContext(&actor)
	if err != nil {
		return models.Comment{}, err
	}

	var item models.Comment
	if err := database.C.Preload("Account").Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, NewNotFound("comment not found")
		}
		return item, wrapDatabaseError("get comment", err)
	}
	if !CanView(viewer, CommentItem(item)) {
		return item, NewNotFound("comment not found")
	}
	if item.AccountID != actor.ID {
		return item, NewForbidden("you can only modify your own comments")
	}

	return item, nil
}

func ChangeCommentContent(actor models.Account, id uint, newContent string) error {
	item, err := getOwnedComment(actor, id)
	if err != nil {
		return err
	}
	if item.IsDeleted {
		return NewConflict("this comment is deleted")
	}
	if item.Content == newContent {
		return NewInvalidArgument("new content must be different from the old one")
	}

	if err := database.C.Model(&item).Update("content", newContent).Error; err != nil {
		return wrapDatabaseError("change comment content", err)
	}
	return nil
}

// PermanentlyDeleteComment removes a comment with all of its descendants.
func PermanentlyDeleteComment(actor models.Account, id uint) error {
	item, err := getOwnedComment(actor, id)
	if err != nil {
		return err
	}

	err = database.C.Transaction(func(tx *gorm.DB) error {
		return deleteCommentCascade(tx, item.ID)
	})
	if err != nil {
		return wrapDatabaseError("permanently delete comment", err)
	}
	return nil
}

// deleteCommentCascade collects the subtree level by level, then removes the
// vote rows and the comments themselves.
func deleteCommentCascade(tx *gorm.DB, id uint) error {
	idx := []uint{id}
	frontier := []uint{id}

	for len(frontier) > 0 {
		var next []uint
		if err := tx.Unscoped().Model(&models.Comment{}).
			Where("reply_id IN ?", frontier).
			Pluck("id", &next).Error; err != nil {
			return err
		}
		idx = append(idx, next...)
		frontier = next
	}

	if err := tx.Where("comment_id IN ?", idx).Delete(&models.CommentVote{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", idx).Delete(&models.Comment{}).Error
}
