package services

import (
	"errors"

	"github.com/quillpost/quillpost/pkg/internal/database"
	"github.com/quillpost/quillpost/pkg/internal/models"
	"gorm.io/gorm"
)

// The three moderation flags are independent axes with their own guards.
// Hide and self-delete are owner operations; admin deletion ignores
// ownership entirely and is the one state that hides content from the owner
// as well.

func HidePost(actor models.Account, id uint) error {
	item, err := getOwnedPost(actor, id)
	if err != nil {
		return err
	}
	if item.IsHidden {
		return NewConflict("this post is already hidden")
	}
	return setPostFlag(item, "is_hidden", true)
}

func UnhidePost(actor models.Account, id uint) error {
	item, err := getOwnedPost(actor, id)
	if err != nil {
		return err
	}
	if !item.IsHidden {
		return NewConflict("this post is not hidden")
	}
	return setPostFlag(item, "is_hidden", false)
}

func DeletePost(actor models.Account, id uint) error {
	item, err := getOwnedPost(actor, id)
	if err != nil {
		return err
	}
	if item.IsDeleted {
		return NewConflict("this post is already deleted")
	}
	return setPostFlag(item, "is_deleted", true)
}

func UndeletePost(actor models.Account, id uint) error {
	item, err := getOwnedPost(actor, id)
	if err != nil {
		return err
	}
	if !item.IsDeleted {
		return NewConflict("this post is not deleted")
	}
	return setPostFlag(item, "is_deleted", false)
}

func AdminDeletePost(id uint) error {
	item, err := getPostAnyState(id)
	if err != nil {
		return err
	}
	if item.IsDeletedByAdmin {
		return NewConflict("this post is already deleted by an admin")
	}
	return setPostFlag(item, "is_deleted_by_admin", true)
}

func AdminUndeletePost(id uint) error {
	item, err := getPostAnyState(id)
	if err != nil {
		return err
	}
	if !item.IsDeletedByAdmin {
		return NewConflict("this post is not deleted by an admin")
	}
	return setPostFlag(item, "is_deleted_by_admin", false)
}

func HideComment(actor models.Account, id uint) error {
	item, err := getOwnedComment(actor, id)
	if err != nil {
		return err
	}
	if item.IsHidden {
		return NewConflict("this comment is already hidden")
	}
	return setCommentFlag(item, "is_hidden", true)
}

func UnhideComment(actor models.Account, id uint) error {
	item, err := getOwnedComment(actor, id)
	if err != nil {
		return err
	}
	if !item.IsHidden {
		return NewConflict("this comment is not hidden")
	}
	return setCommentFlag(item, "is_hidden", false)
}

func DeleteComment(actor models.Account, id uint) error {
	item, err := getOwnedComment(actor, id)
	if err != nil {
		return err
	}
	if item.IsDeleted {
		return NewConflict("this comment is already deleted")
	}
	return setCommentFlag(item, "is_deleted", true)
}

func UndeleteComment(actor models.Account, id uint) error {
	item, err := getOwnedComment(actor, id)
	if err != nil {
		return err
	}
	if !item.IsDeleted {
		return NewConflict("this comment is not deleted")
	}
	return setCommentFlag(item, "is_deleted", false)
}

func AdminDeleteComment(id uint) error {
	item, err := getCommentAnyState(id)
	if err != nil {
		return err
	}
	if item.IsDeletedByAdmin {
		return NewConflict("this comment is already deleted by an admin")
	}
	return setCommentFlag(item, "is_deleted_by_admin", true)
}

func AdminUndeleteComment(id uint) error {
	item, err := getCommentAnyState(id)
	if err != nil {
		return err
	}
	if !item.IsDeletedByAdmin {
		return NewConflict("this comment is not deleted by an admin")
	}
	return setCommentFlag(item, "is_deleted_by_admin", false)
}

// getPostAnyState resolves a post without a visibility check; moderators act
// on content precisely because it may be invisible.
func getPostAnyState(id uint) (models.Post, error) {
	var item models.Post
	if err := database.C.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, NewNotFound("post not found")
		}
		return item, wrapDatabaseError("get post", err)
	}
	return item, nil
}

func getCommentAnyState(id uint) (models.Comment, error) {
	var item models.Comment
	if err := database.C.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, NewNotFound("comment not found")
		}
		return item, wrapDatabaseError("get comment", err)
	}
	return item, nil
}

func setPostFlag(item models.Post, column string, value bool) error {
	if err := database.C.Model(&item).Update(column, value).Error; err != nil {
		return wrapDatabaseError("update post moderation flag", err)
	}
	return nil
}

func setCommentFlag(item models.Comment, column string, value bool) error {
	if err := database.C.Model(&item).Update(column, value).Error; err != nil {
		return wrapDatabaseError("update comment moderation flag", err)
	}
	return nil
}
