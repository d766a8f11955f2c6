package models

// Comment belongs to exactly one parent, either a post or another comment.
// PostID always points at the root post, even for nested replies, so an
// entire thread can be loaded with one query.
type Comment struct {
	BaseModel

	Content string `json:"content"`

	Rating int `json:"rating"`

	IsHidden         bool `json:"is_hidden"`
	IsDeleted        bool `json:"is_deleted"`
	IsDeletedByAdmin bool `json:"is_deleted_by_admin"`

	PostID  uint      `json:"post_id"`
	Post    *Post     `json:"post,omitempty"`
	ReplyID *uint     `json:"reply_id"`
	ReplyTo *Comment  `json:"reply_to,omitempty" gorm:"foreignKey:ReplyID"`
	Replies []Comment `json:"replies,omitempty" gorm:"foreignKey:ReplyID"`

	AccountID uint    `json:"account_id"`
	Account   Account `json:"account"`
}
