package services

import (
	"errors"
	"sync"
	"time"

	"github.com/quillpost/quillpost/pkg/internal/database"
	"github.com/quillpost/quillpost/pkg/internal/models"
	"github.com/pemistahl/lingua-go"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FilterPostWithViewerContext narrows a post query to the rows the viewer may
// see. It is the SQL twin of CanView for listing paths; single-item reads
// still go through the predicate itself.
func FilterPostWithViewerContext(tx *gorm.DB, viewer ViewerContext) *gorm.DB {
	tx = tx.Joins("JOIN accounts ON accounts.id = posts.account_id")

	anonymous := database.C.
		Where("NOT posts.is_hidden AND NOT posts.is_deleted AND NOT posts.is_deleted_by_admin").
		Where("accounts.is_enabled AND NOT accounts.is_deleted").
		Where("NOT accounts.is_private OR posts.is_shareable")

	if viewer.Account == nil {
		return tx.Where(anonymous)
	}

	if hidden := viewer.HiddenAccountIDs(); len(hidden) > 0 {
		anonymous = anonymous.Where("posts.account_id NOT IN ?", hidden)
	}

	owned := database.C.
		Where("posts.account_id = ?", viewer.Account.ID).
		Where("NOT posts.is_deleted_by_admin")

	return tx.Where(anonymous.Or(owned))
}

func FilterPostWithAuthor(tx *gorm.DB, accountID uint) *gorm.DB {
	return tx.Where("posts.account_id = ?", accountID)
}

func PreloadPostGeneral(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Account")
}

// GetPost loads one post and rules on it with the visibility predicate;
// invisible posts surface as not-found.
func GetPost(viewer ViewerContext, id uint) (models.Post, error) {
	var item models.Post
	if err := PreloadPostGeneral(database.C).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, NewNotFound("post not found")
		}
		return item, wrapDatabaseError("get post", err)
	}

	if !CanView(viewer, PostItem(item)) {
		return item, NewNotFound("post not found")
	}

	return item, nil
}

// clampPageSize keeps a client-supplied page size inside sane bounds; gorm
// treats a negative limit as unlimited.
func clampPageSize(take int) int {
	if take <= 0 {
		return 10
	}
	if take > 100 {
		return 100
	}
	return take
}

func ListPost(tx *gorm.DB, take int, offset int, order any) ([]models.Post, error) {
	var items []models.Post
	if err := PreloadPostGeneral(tx).
		Model(&models.Post{}).
		Limit(clampPageSize(take)).Offset(offset).
		Order(order).
		Find(&items).Error; err != nil {
		return items, wrapDatabaseError("list posts", err)
	}

	return items, nil
}

func CountPost(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Post{}).Count(&count).Error; err != nil {
		return count, wrapDatabaseError("count posts", err)
	}

	return count, nil
}

var newLanguageDetector = sync.OnceValue(func() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromAllSpokenLanguages().
		WithLowAccuracyMode().
		Build()
})

func DetectPostLanguage(content string) string {
	if language, ok := newLanguageDetector().DetectLanguageOf(content); ok {
		return language.IsoCode639_1().String()
	}
	return "unknown"
}

func NewPost(author models.Account, item models.Post) (models.Post, error) {
	item.AccountID = author.ID
	item.Account = models.Account{}
	item.Language = DetectPostLanguage(item.Content)

	start := time.Now()
	if err := database.C.Save(&item).Error; err != nil {
		return item, wrapDatabaseError("create post", err)
	}
	item.Account = author
	log.Debug().Dur("elapsed", time.Since(start)).Uint("id", item.ID).Msg("The post is posted.")

	return item, nil
}

// getOwnedPost runs the full guard chain for owner-restricted mutations:
// resolve, visibility (not-found on failure), then ownership.
func getOwnedPost(actor models.Account, id uint) (models.Post, error) {
	viewer, err := BuildViewerContext(&actor)
	if err != nil {
		return models.Post{}, err
	}

	var item models.Post
	if err := PreloadPostGeneral(database.C).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, NewNotFound("post not found")
		}
		return item, wrapDatabaseError("get post", err)
	}
	if !CanView(viewer, PostItem(item)) {
		return item, NewNotFound("post not found")
	}
	if item.AccountID != actor.ID {
		return item, NewForbidden("you can only modify your own posts")
	}

	return item, nil
}

func ChangePostTitle(actor models.Account, id uint, newTitle string) error {
	item, err := getOwnedPost(actor, id)
	if err != nil {
		return err
	}
	if item.IsDeleted {
		return NewConflict("this post is deleted")
	}
	if item.Title == newTitle {
		return NewInvalidArgument("new title must be different from the old one")
	}

	if err := database.C.Model(&item).Update("title", newTitle).Error; err != nil {
		return wrapDatabaseError("change post title", err)
	}
	return nil
}

func ChangePostContent(actor models.Account, id uint, newContent string) error {
	item, err := getOwnedPost(actor, id)
	if err != nil {
		return err
	}
	if item.IsDeleted {
		return NewConflict("this post is deleted")
	}
	if item.Content == newContent {
		return NewInvalidArgument("new content must be different from the old one")
	}

	if err := database.C.Model(&item).Updates(map[string]any{
		"content":  newContent,
		"language": DetectPostLanguage(newContent),
	}).Error; err != nil {
		return wrapDatabaseError("change post content", err)
	}
	return nil
}

// PermanentlyDeletePost removes the post and its whole comment forest. The
// actor must own the post and be able to see it. Removed rows drop out of
// every query at once; the cleanup task reclaims them after the retention
// window.
func PermanentlyDeletePost(actor models.Account, id uint) error {
	item, err := getOwnedPost(actor, id)
	if err != nil {
		return err
	}

	err = database.C.Transaction(func(tx *gorm.DB) error {
		return deletePostCascade(tx, item.ID)
	})
	if err != nil {
		return wrapDatabaseError("permanently delete post", err)
	}
	return nil
}

func deletePostCascade(tx *gorm.DB, postID uint) error {
	var commentIdx []uint
	if err := tx.Unscoped().Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Pluck("id", &commentIdx).Error; err != nil {
		return err
	}

	if len(commentIdx) > 0 {
		if err := tx.Where("comment_id IN ?", commentIdx).Delete(&models.CommentVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("post_id = ?", postID).Delete(&models.PostVote{}).Error; err != nil {
		return err
	}

	return tx.Delete(&models.Post{}, postID).Error
}
