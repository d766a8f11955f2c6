package services

import (
	"errors"

	"github.com/quillpost/quillpost/pkg/internal/database"
	"github.com/quillpost/quillpost/pkg/internal/models"
	"gorm.io/gorm"
)

func GetAccountWithName(name string) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("name = ?", name).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, NewNotFound("account not found")
		}
		return account, wrapDatabaseError("get account by name", err)
	}
	return account, nil
}

// AccountExistsWithName matches case-insensitively; handles differing only in
// casing count as taken.
func AccountExistsWithName(name string) (bool, error) {
	var count int64
	if err := database.C.Model(&models.Account{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error; err != nil {
		return false, wrapDatabaseError("check account name", err)
	}
	return count > 0, nil
}

func AccountExistsWithEmail(email string) (bool, error) {
	var count int64
	if err := database.C.Model(&models.Account{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error; err != nil {
		return false, wrapDatabaseError("check account email", err)
	}
	return count > 0, nil
}

// ProfileView is what a profile lookup returns. When a block edge exists in
// either direction the profile comes back as a redacted stub instead of a
// not-found, so the block relationship stays explainable to its participants.
type ProfileView struct {
	Account    models.Account `json:"account"`
	YouBlocked bool           `json:"you_blocked"`
	BlockedYou bool           `json:"blocked_you"`
}

func GetProfile(actor *models.Account, name string) (ProfileView, error) {
	target, err := GetAccountWithName(name)
	if err != nil {
		return ProfileView{}, err
	}

	viewer, err := BuildViewerContext(actor)
	if err != nil {
		return ProfileView{}, err
	}

	return renderProfile(viewer, target)
}

func renderProfile(viewer ViewerContext, target models.Account) (ProfileView, error) {
	self := viewer.Account != nil && viewer.Account.ID == target.ID

	if !self {
		// Deactivated and private accounts vanish before any block stub
		// can leak that they still exist.
		if target.IsDeleted || !target.IsEnabled || target.IsPrivate {
			return ProfileView{}, NewNotFound("account not found")
		}

		if viewer.Account != nil {
			stub := models.Account{Name: target.Name}
			if viewer.HasBlocked(target.ID) {
				return ProfileView{Account: stub, YouBlocked: true}, nil
			}
			if viewer.IsBlockedBy(target.ID) {
				return ProfileView{Account: stub, BlockedYou: true}, nil
			}
		}
	}

	if !CanView(viewer, AccountItem(target)) {
		return ProfileView{}, NewNotFound("account not found")
	}

	return ProfileView{Account: target}, nil
}

func ChangeAccountName(actor models.Account, newName string) error {
	if actor.Name == newName {
		return NewInvalidArgument("new name must be different from the old one")
	}
	if taken, err := AccountExistsWithName(newName); err != nil {
		return err
	} else if taken {
		return NewConflict("name is already in use")
	}

	if err := database.C.Model(&actor).Update("name", newName).Error; err != nil {
		return wrapDatabaseError("change account name", err)
	}
	return nil
}

func ChangeAccountEmail(actor models.Account, newEmail string) error {
	if actor.Email == newEmail {
		return NewInvalidArgument("new email must be different from the old one")
	}
	if taken, err := AccountExistsWithEmail(newEmail); err != nil {
		return err
	} else if taken {
		return NewConflict("email is already in use")
	}

	if err := database.C.Model(&actor).Update("email", newEmail).Error; err != nil {
		return wrapDatabaseError("change account email", err)
	}
	return nil
}

func ChangeAccountDescription(actor models.Account, newDescription string) error {
	if actor.Description == newDescription {
		return NewInvalidArgument("new description must be different from the old one")
	}

	if err := database.C.Model(&actor).Update("description", newDescription).Error; err != nil {
		return wrapDatabaseError("change account description", err)
	}
	return nil
}

func SetAccountPrivate(actor models.Account, private bool) error {
	if actor.IsPrivate == private {
		if private {
			return NewConflict("account is already private")
		}
		return NewConflict("account is already public")
	}

	if err := database.C.Model(&actor).Update("is_private", private).Error; err != nil {
		return wrapDatabaseError("change account privacy", err)
	}
	return nil
}

// DeleteAccount is the owner-side soft deactivation, reversible with
// UndeleteAccount. Admin disabling is a separate axis.
func DeleteAccount(actor models.Account) error {
	if actor.IsDeleted {
		return NewConflict("account is already deleted")
	}
	if err := database.C.Model(&actor).Update("is_deleted", true).Error; err != nil {
		return wrapDatabaseError("delete account", err)
	}
	return nil
}

func UndeleteAccount(actor models.Account) error {
	if !actor.IsDeleted {
		return NewConflict("account is not deleted")
	}
	if err := database.C.Model(&actor).Update("is_deleted", false).Error; err != nil {
		return wrapDatabaseError("undelete account", err)
	}
	return nil
}

func DisableAccount(target models.Account) error {
	if !target.IsEnabled {
		return NewConflict("account is already disabled")
	}
	if err := database.C.Model(&target).Update("is_enabled", false).Error; err != nil {
		return wrapDatabaseError("disable account", err)
	}
	return nil
}

func EnableAccount(target models.Account) error {
	if target.IsEnabled {
		return NewConflict("account is already enabled")
	}
	if err := database.C.Model(&target).Update("is_enabled", true).Error; err != nil {
		return wrapDatabaseError("enable account", err)
	}
	return nil
}

// PermanentlyDeleteAccount removes the account with everything it owns or
// touched: posts, comments, votes and relationship edges.
func PermanentlyDeleteAccount(actor models.Account) error {
	err := database.C.Transaction(func(tx *gorm.DB) error {
		var posts []models.Post
		if err := tx.Unscoped().Select("id").Where("account_id = ?", actor.ID).Find(&posts).Error; err != nil {
			return err
		}
		for _, post := range posts {
			if err := deletePostCascade(tx, post.ID); err != nil {
				return err
			}
		}

		var comments []models.Comment
		if err := tx.Unscoped().Select("id").Where("account_id = ?", actor.ID).Find(&comments).Error; err != nil {
			return err
		}
		for _, comment := range comments {
			if err := deleteCommentCascade(tx, comment.ID); err != nil {
				return err
			}
		}

		// Votes the account cast on surviving content are retracted from
		// the ratings before their rows go away, keeping rating equal to
		// likes minus dislikes.
		var postVotes []models.PostVote
		if err := tx.Where("account_id = ?", actor.ID).Find(&postVotes).Error; err != nil {
			return err
		}
		for _, vote := range postVotes {
			if err := tx.Model(&models.Post{}).Where("id = ?", vote.PostID).
				Update("rating", gorm.Expr("rating - ?", attitudeWeight(vote.Attitude))).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("account_id = ?", actor.ID).Delete(&models.PostVote{}).Error; err != nil {
			return err
		}

		var commentVotes []models.CommentVote
		if err := tx.Where("account_id = ?", actor.ID).Find(&commentVotes).Error; err != nil {
			return err
		}
		for _, vote := range commentVotes {
			if err := tx.Model(&models.Comment{}).Where("id = ?", vote.CommentID).
				Update("rating", gorm.Expr("rating - ?", attitudeWeight(vote.Attitude))).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("account_id = ?", actor.ID).Delete(&models.CommentVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR account_id = ?", actor.ID, actor.ID).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blocker_id = ? OR account_id = ?", actor.ID, actor.ID).
			Delete(&models.Block{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Account{}, actor.ID).Error
	})
	if err != nil {
		return wrapDatabaseError("permanently delete account", err)
	}

	invalidateViewerContext(actor.ID)
	return nil
}
