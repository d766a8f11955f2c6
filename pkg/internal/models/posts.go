package models

type Post struct {
	BaseModel

	Title    string `json:"title"`
	Content  string `json:"content"`
	Language string `json:"language"`

	Rating int `json:"rating"`

	IsHidden         bool `json:"is_hidden"`
	IsDeleted        bool `json:"is_deleted"`
	IsDeletedByAdmin bool `json:"is_deleted_by_admin"`
	// IsShareable keeps the post visible even when the owner account is private.
	IsShareable bool `json:"is_shareable"`

	Comments []Comment `json:"comments,omitempty"`

	AccountID uint    `json:"account_id"`
	Account   Account `json:"account"`
}
