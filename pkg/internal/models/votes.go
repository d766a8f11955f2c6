package models

import "time"

type Attitude = int8

const (
	AttitudePositive = Attitude(iota + 1)
	AttitudeNegative
)

// PostVote and CommentVote rows carry the like/dislike state for one
// (account, item) pair; the composite primary key is what makes the two
// sides mutually exclusive.
type PostVote struct {
	AccountID uint      `json:"account_id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"primaryKey"`
	Attitude  Attitude  `json:"attitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommentVote struct {
	AccountID uint      `json:"account_id" gorm:"primaryKey"`
	CommentID uint      `json:"comment_id" gorm:"primaryKey"`
	Attitude  Attitude  `json:"attitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
