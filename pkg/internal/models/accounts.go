package models

import (
	"time"

	"github.com/samber/lo"
	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Account struct {
	BaseModel

	Name        string `json:"name" gorm:"uniqueIndex"`
	Nick        string `json:"nick"`
	Description string `json:"description"`
	Email       string `json:"email"`
	// Password is an opaque hash written by the auth gateway, never by this service.
	Password string `json:"-"`

	IsPrivate bool `json:"is_private"`
	IsEnabled bool `json:"is_enabled" gorm:"default:true"`
	IsDeleted bool `json:"is_deleted"`

	Roles datatypes.JSONSlice[string] `json:"roles"`

	Posts    []Post    `json:"posts,omitempty"`
	Comments []Comment `json:"comments,omitempty"`
}

func (v Account) HasRole(role string) bool {
	return lo.Contains(v.Roles, role)
}

// Follow is a directed following edge, follower -> account.
type Follow struct {
	FollowerID uint      `json:"follower_id" gorm:"primaryKey"`
	AccountID  uint      `json:"account_id" gorm:"primaryKey"`
	CreatedAt  time.Time `json:"created_at"`
}

// Block is a directed block edge, blocker -> account. Its effect on
// visibility is symmetric, the storage is not.
type Block struct {
	BlockerID uint      `json:"blocker_id" gorm:"primaryKey"`
	AccountID uint      `json:"account_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}
