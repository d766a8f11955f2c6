package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	localCache "github.com/quillpost/quillpost/pkg/internal/cache"
	"github.com/quillpost/quillpost/pkg/internal/database"
	"github.com/quillpost/quillpost/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// ViewerContext carries the resolved viewer identity plus its block sets in
// both directions, so the visibility predicate can stay a pure function.
type ViewerContext struct {
	Account *models.Account

	blocked   map[uint]struct{}
	blockedBy map[uint]struct{}
}

func (v ViewerContext) HasBlocked(id uint) bool {
	_, ok := v.blocked[id]
	return ok
}

func (v ViewerContext) IsBlockedBy(id uint) bool {
	_, ok := v.blockedBy[id]
	return ok
}

// HiddenAccountIDs is the union of both block directions, for SQL-level
// filtering of listing queries.
func (v ViewerContext) HiddenAccountIDs() []uint {
	idx := make([]uint, 0, len(v.blocked)+len(v.blockedBy))
	for id := range v.blocked {
		idx = append(idx, id)
	}
	for id := range v.blockedBy {
		if _, ok := v.blocked[id]; !ok {
			idx = append(idx, id)
		}
	}
	return idx
}

func AnonymousViewer() ViewerContext {
	return ViewerContext{}
}

func NewViewerContext(account models.Account, blocked, blockedBy []uint) ViewerContext {
	return ViewerContext{
		Account: &account,
		blocked: lo.SliceToMap(blocked, func(id uint) (uint, struct{}) {
			return id, struct{}{}
		}),
		blockedBy: lo.SliceToMap(blockedBy, func(id uint) (uint, struct{}) {
			return id, struct{}{}
		}),
	}
}

type viewerBlockState struct {
	Blocked   []uint
	BlockedBy []uint
}

// BuildViewerContext resolves the block sets for an account, hitting the
// local cache first. A nil account yields the anonymous context.
func BuildViewerContext(account *models.Account) (ViewerContext, error) {
	if account == nil {
		return AnonymousViewer(), nil
	}

	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	ctx := context.Background()

	cacheKey := fmt.Sprintf("viewer-block-context#%d", account.ID)
	if statusCache, err := marshal.Get(ctx, cacheKey, new(viewerBlockState)); err == nil {
		state := statusCache.(*viewerBlockState)
		return NewViewerContext(*account, state.Blocked, state.BlockedBy), nil
	}

	var outgoing []models.Block
	if err := database.C.Where("blocker_id = ?", account.ID).Find(&outgoing).Error; err != nil {
		return AnonymousViewer(), wrapDatabaseError("list blocked accounts", err)
	}
	var incoming []models.Block
	if err := database.C.Where("account_id = ?", account.ID).Find(&incoming).Error; err != nil {
		return AnonymousViewer(), wrapDatabaseError("list blocking accounts", err)
	}

	state := viewerBlockState{
		Blocked: lo.Map(outgoing, func(item models.Block, index int) uint {
			return item.AccountID
		}),
		BlockedBy: lo.Map(incoming, func(item models.Block, index int) uint {
			return item.BlockerID
		}),
	}

	_ = marshal.Set(
		ctx,
		cacheKey,
		state,
		store.WithExpiration(5*time.Minute),
		store.WithTags([]string{"viewer-block-context", fmt.Sprintf("account#%d", account.ID)}),
	)

	return NewViewerContext(*account, state.Blocked, state.BlockedBy), nil
}

func invalidateViewerContext(ids ...uint) {
	cacheManager := cache.New[any](localCache.S)
	ctx := context.Background()

	tags := lo.Map(ids, func(id uint, index int) string {
		return fmt.Sprintf("account#%d", id)
	})
	if err := cacheManager.Invalidate(ctx, store.WithInvalidateTags(tags)); err != nil {
		log.Warn().Err(err).Msg("An error occurred when invalidating viewer context cache...")
	}
}

func IsFollowing(follower, target uint) (bool, error) {
	var edge models.Follow
	if err := database.C.Where("follower_id = ? AND account_id = ?", follower, target).
		First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, wrapDatabaseError("get follow edge", err)
	}
	return true, nil
}

func HasBlocked(blocker, target uint) (bool, error) {
	var edge models.Block
	if err := database.C.Where("blocker_id = ? AND account_id = ?", blocker, target).
		First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, wrapDatabaseError("get block edge", err)
	}
	return true, nil
}

func FollowAccount(actor, target models.Account) error {
	if actor.ID == target.ID {
		return NewInvalidArgument("you cannot follow yourself")
	}

	viewer, err := BuildViewerContext(&actor)
	if err != nil {
		return err
	}
	if !CanView(viewer, AccountItem(target)) {
		return NewNotFound("account not found")
	}

	if following, err := IsFollowing(actor.ID, target.ID); err != nil {
		return err
	} else if following {
		return NewConflict("you are already following this account")
	}

	edge := models.Follow{FollowerID: actor.ID, AccountID: target.ID}
	if err := database.C.Create(&edge).Error; err != nil {
		return wrapDatabaseError("create follow edge", err)
	}
	return nil
}

func UnfollowAccount(actor, target models.Account) error {
	if actor.ID == target.ID {
		return NewInvalidArgument("you cannot unfollow yourself")
	}

	if following, err := IsFollowing(actor.ID, target.ID); err != nil {
		return err
	} else if !following {
		return NewConflict("you are not following this account")
	}

	if err := database.C.
		Where("follower_id = ? AND account_id = ?", actor.ID, target.ID).
		Delete(&models.Follow{}).Error; err != nil {
		return wrapDatabaseError("delete follow edge", err)
	}
	return nil
}

// BlockAccount creates the directed block edge and severs any follow edge in
// either direction in the same transaction. Blocking is allowed regardless of
// the target's privacy; a private account can still be blocked by handle.
func BlockAccount(actor, target models.Account) error {
	if actor.ID == target.ID {
		return NewInvalidArgument("you cannot block yourself")
	}

	if blocked, err := HasBlocked(actor.ID, target.ID); err != nil {
		return err
	} else if blocked {
		return NewConflict("you already blocked this account")
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("(follower_id = ? AND account_id = ?) OR (follower_id = ? AND account_id = ?)",
				actor.ID, target.ID, target.ID, actor.ID).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}

		edge := models.Block{BlockerID: actor.ID, AccountID: target.ID}
		return tx.Create(&edge).Error
	})
	if err != nil {
		return wrapDatabaseError("create block edge", err)
	}

	invalidateViewerContext(actor.ID, target.ID)
	return nil
}

func UnblockAccount(actor, target models.Account) error {
	if actor.ID == target.ID {
		return NewInvalidArgument("you cannot unblock yourself")
	}

	if blocked, err := HasBlocked(actor.ID, target.ID); err != nil {
		return err
	} else if !blocked {
		return NewConflict("you have not blocked this account")
	}

	if err := database.C.
		Where("blocker_id = ? AND account_id = ?", actor.ID, target.ID).
		Delete(&models.Block{}).Error; err != nil {
		return wrapDatabaseError("delete block edge", err)
	}

	invalidateViewerContext(actor.ID, target.ID)
	return nil
}

func ListFollowing(account models.Account) ([]models.Account, error) {
	var edges []models.Follow
	if err := database.C.Where("follower_id = ?", account.ID).Find(&edges).Error; err != nil {
		return nil, wrapDatabaseError("list following", err)
	}
	return listAccountsByID(lo.Map(edges, func(item models.Follow, index int) uint {
		return item.AccountID
	}))
}

func ListFollowers(account models.Account) ([]models.Account, error) {
	var edges []models.Follow
	if err := database.C.Where("account_id = ?", account.ID).Find(&edges).Error; err != nil {
		return nil, wrapDatabaseError("list followers", err)
	}
	return listAccountsByID(lo.Map(edges, func(item models.Follow, index int) uint {
		return item.FollowerID
	}))
}

func ListBlocked(account models.Account) ([]models.Account, error) {
	var edges []models.Block
	if err := database.C.Where("blocker_id = ?", account.ID).Find(&edges).Error; err != nil {
		return nil, wrapDatabaseError("list blocked accounts", err)
	}
	return listAccountsByID(lo.Map(edges, func(item models.Block, index int) uint {
		return item.AccountID
	}))
}

func listAccountsByID(idx []uint) ([]models.Account, error) {
	if len(idx) == 0 {
		return []models.Account{}, nil
	}
	var accounts []models.Account
	if err := database.C.Where("id IN ?", idx).Find(&accounts).Error; err != nil {
		return nil, wrapDatabaseError("list accounts", err)
	}
	return accounts, nil
}
