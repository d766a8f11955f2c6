package database

import (
	"github.com/quillpost/quillpost/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.Post{},
	&models.Comment{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			AutoMaintainRange,
			&models.Follow{},
			&models.Block{},
			&models.PostVote{},
			&models.CommentVote{},
		)...,
	); err != nil {
		return err
	}

	return nil
}
