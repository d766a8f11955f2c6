package services

import (
	"errors"

	"github.com/quillpost/quillpost/pkg/internal/database"
	"github.com/quillpost/quillpost/pkg/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteOp int

const (
	OpLike = VoteOp(iota)
	OpRemoveLike
	OpDislike
	OpRemoveDislike
)

// AttitudeNone is the zero value of an attitude, meaning no vote row exists.
const AttitudeNone = models.Attitude(0)

// attitudeWeight is the rating contribution of one standing vote row.
// Removing a row outside the ledger, as the account cascade does, must
// subtract exactly this much.
func attitudeWeight(attitude models.Attitude) int {
	if attitude == models.AttitudeNegative {
		return -1
	}
	return 1
}

// NextVote is the ledger's transition function for one (voter, item) pair.
// It returns the resulting attitude and the rating delta; switching sides
// counts double since the old vote is undone and the new one applied.
func NextVote(current models.Attitude, op VoteOp) (models.Attitude, int, error) {
	switch op {
	case OpLike:
		switch current {
		case models.AttitudePositive:
			return current, 0, NewConflict("you already liked this")
		case models.AttitudeNegative:
			return models.AttitudePositive, 2, nil
		default:
			return models.AttitudePositive, 1, nil
		}
	case OpRemoveLike:
		if current != models.AttitudePositive {
			return current, 0, NewConflict("you have not liked this")
		}
		return AttitudeNone, -1, nil
	case OpDislike:
		switch current {
		case models.AttitudeNegative:
			return current, 0, NewConflict("you already disliked this")
		case models.AttitudePositive:
			return models.AttitudeNegative, -2, nil
		default:
			return models.AttitudeNegative, -1, nil
		}
	case OpRemoveDislike:
		if current != models.AttitudeNegative {
			return current, 0, NewConflict("you have not disliked this")
		}
		return AttitudeNone, 1, nil
	}

	return current, 0, NewInvalidArgument("unknown vote operation")
}

// applyPostVote runs one ledger transition against the store. The post row is
// locked for the duration of the transaction so the vote row and the
// denormalized rating always move together.
func applyPostVote(actor models.Account, postID uint, op VoteOp) error {
	viewer, err := BuildViewerContext(&actor)
	if err != nil {
		return err
	}
	if _, err := GetPost(viewer, postID); err != nil {
		return err
	}

	return database.C.Transaction(func(tx *gorm.DB) error {
		var item models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", postID).First(&item).Error; err != nil {
			return wrapDatabaseError("lock post", err)
		}

		current := AttitudeNone
		var vote models.PostVote
		if err := tx.Where("account_id = ? AND post_id = ?", actor.ID, postID).
			First(&vote).Error; err == nil {
			current = vote.Attitude
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return wrapDatabaseError("get post vote", err)
		}

		next, delta, err := NextVote(current, op)
		if err != nil {
			return err
		}

		if next == AttitudeNone {
			if err := tx.Where("account_id = ? AND post_id = ?", actor.ID, postID).
				Delete(&models.PostVote{}).Error; err != nil {
				return wrapDatabaseError("delete post vote", err)
			}
		} else {
			vote = models.PostVote{AccountID: actor.ID, PostID: postID, Attitude: next}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
				Create(&vote).Error; err != nil {
				return wrapDatabaseError("save post vote", err)
			}
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			Update("rating", gorm.Expr("rating + ?", delta)).Error; err != nil {
			return wrapDatabaseError("update post rating", err)
		}
		return nil
	})
}

func LikePost(actor models.Account, postID uint) error {
	return applyPostVote(actor, postID, OpLike)
}

func RemoveLikePost(actor models.Account, postID uint) error {
	return applyPostVote(actor, postID, OpRemoveLike)
}

func DislikePost(actor models.Account, postID uint) error {
	return applyPostVote(actor, postID, OpDislike)
}

func RemoveDislikePost(actor models.Account, postID uint) error {
	return applyPostVote(actor, postID, OpRemoveDislike)
}

func applyCommentVote(actor models.Account, commentID uint, op VoteOp) error {
	viewer, err := BuildViewerContext(&actor)
	if err != nil {
		return err
	}
	if _, err := GetComment(viewer, commentID); err != nil {
		return err
	}

	return database.C.Transaction(func(tx *gorm.DB) error {
		var item models.Comment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", commentID).First(&item).Error; err != nil {
			return wrapDatabaseError("lock comment", err)
		}

		current := AttitudeNone
		var vote models.CommentVote
		if err := tx.Where("account_id = ? AND comment_id = ?", actor.ID, commentID).
			First(&vote).Error; err == nil {
			current = vote.Attitude
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return wrapDatabaseError("get comment vote", err)
		}

		next, delta, err := NextVote(current, op)
		if err != nil {
			return err
		}

		if next == AttitudeNone {
			if err := tx.Where("account_id = ? AND comment_id = ?", actor.ID, commentID).
				Delete(&models.CommentVote{}).Error; err != nil {
				return wrapDatabaseError("delete comment vote", err)
			}
		} else {
			vote = models.CommentVote{AccountID: actor.ID, CommentID: commentID, Attitude: next}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
				Create(&vote).Error; err != nil {
				return wrapDatabaseError("save comment vote", err)
			}
		}

		if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).
			Update("rating", gorm.Expr("rating + ?", delta)).Error; err != nil {
			return wrapDatabaseError("update comment rating", err)
		}
		return nil
	})
}

func LikeComment(actor models.Account, commentID uint) error {
	return applyCommentVote(actor, commentID, OpLike)
}

func RemoveLikeComment(actor models.Account, commentID uint) error {
	return applyCommentVote(actor, commentID, OpRemoveLike)
}

func DislikeComment(actor models.Account, commentID uint) error {
	return applyCommentVote(actor, commentID, OpDislike)
}

func RemoveDislikeComment(actor models.Account, commentID uint) error {
	return applyCommentVote(actor, commentID, OpRemoveDislike)
}
