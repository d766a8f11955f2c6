package api

import (
	"github.com/quillpost/quillpost/pkg/internal/database"
	"github.com/quillpost/quillpost/pkg/internal/http/exts"
	"github.com/quillpost/quillpost/pkg/internal/models"
	"github.com/quillpost/quillpost/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listPosts(c *fiber.Ctx) error {
	take := c.QueryInt("take", 10)
	offset := c.QueryInt("offset", 0)

	viewer, err := viewerContext(c)
	if err != nil {
		return err
	}

	tx := services.FilterPostWithViewerContext(database.C, viewer)

	if len(c.Query("author")) > 0 {
		author, err := services.GetAccountWithName(c.Query("author"))
		if err != nil {
			return mapServiceError(err)
		}
		tx = services.FilterPostWithAuthor(tx, author.ID)
	}

	count, err := services.CountPost(tx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	items, err := services.ListPost(tx, take, offset, "posts.created_at DESC")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func getPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("postId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid post id")
	}

	viewer, err := viewerContext(c)
	if err != nil {
		return err
	}

	item, err := services.GetPost(viewer, uint(id))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(item)
}

func createPost(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}

	var data struct {
		Title       string `json:"title" validate:"required,max=200"`
		Content     string `json:"content" validate:"required"`
		IsHidden    bool   `json:"is_hidden"`
		IsShareable bool   `json:"is_shareable"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.NewPost(user, models.Post{
		Title:       data.Title,
		Content:     data.Content,
		IsHidden:    data.IsHidden,
		IsShareable: data.IsShareable,
	})
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(item)
}

func changePostTitle(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("postId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid post id")
	}

	var data struct {
		Title string `json:"title" validate:"required,max=200"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.ChangePostTitle(user, uint(id), data.Title); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func changePostContent(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("postId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid post id")
	}

	var data struct {
		Content string `json:"content" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.ChangePostContent(user, uint(id), data.Content); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func postModerationHandler(action func(models.Account, uint) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := requireAuth(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("postId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid post id")
		}
		if err := action(user, uint(id)); err != nil {
			return mapServiceError(err)
		}
		return c.SendStatus(fiber.StatusOK)
	}
}

var (
	hidePost              = postModerationHandler(services.HidePost)
	unhidePost            = postModerationHandler(services.UnhidePost)
	deletePost            = postModerationHandler(services.DeletePost)
	undeletePost          = postModerationHandler(services.UndeletePost)
	permanentlyDeletePost = postModerationHandler(services.PermanentlyDeletePost)

	likePost          = postModerationHandler(services.LikePost)
	removeLikePost    = postModerationHandler(services.RemoveLikePost)
	dislikePost       = postModerationHandler(services.DislikePost)
	removeDislikePost = postModerationHandler(services.RemoveDislikePost)
)
