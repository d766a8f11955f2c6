package api

import (
	"github.com/quillpost/quillpost/pkg/internal/http/exts"
	"github.com/quillpost/quillpost/pkg/internal/models"
	"github.com/quillpost/quillpost/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func createComment(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}

	var data struct {
		Content         string `json:"content" validate:"required,max=1000"`
		ParentPostID    *uint  `json:"parent_post_id"`
		ParentCommentID *uint  `json:"parent_comment_id"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.NewComment(user, data.Content, data.ParentPostID, data.ParentCommentID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(item)
}

func getComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("commentId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid comment id")
	}

	viewer, err := viewerContext(c)
	if err != nil {
		return err
	}

	item, err := services.GetComment(viewer, uint(id))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(item)
}

func listPostComments(c *fiber.Ctx) error {
	id, err := c.ParamsInt("postId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid post id")
	}

	viewer, err := viewerContext(c)
	if err != nil {
		return err
	}

	items, err := services.ListPostComments(viewer, uint(id))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(items)
}

func listCommentReplies(c *fiber.Ctx) error {
	id, err := c.ParamsInt("commentId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid comment id")
	}

	viewer, err := viewerContext(c)
	if err != nil {
		return err
	}

	items, err := services.ListCommentReplies(viewer, uint(id))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(items)
}

func changeCommentContent(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("commentId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid comment id")
	}

	var data struct {
		Content string `json:"content" validate:"required,max=1000"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.ChangeCommentContent(user, uint(id), data.Content); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func commentModerationHandler(action func(models.Account, uint) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := requireAuth(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("commentId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid comment id")
		}
		if err := action(user, uint(id)); err != nil {
			return mapServiceError(err)
		}
		return c.SendStatus(fiber.StatusOK)
	}
}

var (
	hideComment              = commentModerationHandler(services.HideComment)
	unhideComment            = commentModerationHandler(services.UnhideComment)
	deleteComment            = commentModerationHandler(services.DeleteComment)
	undeleteComment          = commentModerationHandler(services.UndeleteComment)
	permanentlyDeleteComment = commentModerationHandler(services.PermanentlyDeleteComment)

	likeComment          = commentModerationHandler(services.LikeComment)
	removeLikeComment    = commentModerationHandler(services.RemoveLikeComment)
	dislikeComment       = commentModerationHandler(services.DislikeComment)
	removeDislikeComment = commentModerationHandler(services.RemoveDislikeComment)
)
