package api

import (
	"github.com/quillpost/quillpost/pkg/internal/database"
	"github.com/quillpost/quillpost/pkg/internal/http/exts"
	"github.com/quillpost/quillpost/pkg/internal/models"
	"github.com/quillpost/quillpost/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func getMyself(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func getAccount(c *fiber.Ctx) error {
	var actor *models.Account
	if user, authenticated := c.Locals("user").(models.Account); authenticated {
		actor = &user
	}

	profile, err := services.GetProfile(actor, c.Params("name"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(profile)
}

func listAccountPosts(c *fiber.Ctx) error {
	take := c.QueryInt("take", 10)
	offset := c.QueryInt("offset", 0)

	target, err := services.GetAccountWithName(c.Params("name"))
	if err != nil {
		return mapServiceError(err)
	}

	viewer, err := viewerContext(c)
	if err != nil {
		return err
	}
	if !services.CanView(viewer, services.AccountItem(target)) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}

	tx := services.FilterPostWithViewerContext(database.C, viewer)
	tx = services.FilterPostWithAuthor(tx, target.ID)

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

func listAccountComments(c *fiber.Ctx) error {
	target, err := services.GetAccountWithName(c.Params("name"))
	if err != nil {
		return mapServiceError(err)
	}

	viewer, err := viewerContext(c)
	if err != nil {
		return err
	}
	if !services.CanView(viewer, services.AccountItem(target)) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}

	items, err := services.ListCommentsByAuthor(viewer, target.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(items)
}

func listAccountFollowing(c *fiber.Ctx) error {
	target, err := services.GetAccountWithName(c.Params("name"))
	if err != nil {
		return mapServiceError(err)
	}

	viewer, err := viewerContext(c)
	if err != nil {
		return err
	}
	if !services.CanView(viewer, services.AccountItem(target)) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}

	items, err := services.ListFollowing(target)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(items)
}

func listAccountFollowers(c *fiber.Ctx) error {
	target, err := services.GetAccountWithName(c.Params("name"))
	if err != nil {
		return mapServiceError(err)
	}

	viewer, err := viewerContext(c)
	if err != nil {
		return err
	}
	if !services.CanView(viewer, services.AccountItem(target)) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}

	items, err := services.ListFollowers(target)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(items)
}

func changeMyName(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}

	var data struct {
		Name string `json:"name" validate:"required,min=3,max=24"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.ChangeAccountName(user, data.Name); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func changeMyEmail(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}

	var data struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.ChangeAccountEmail(user, data.Email); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func changeMyDescription(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}

	var data struct {
		Description string `json:"description" validate:"max=512"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.ChangeAccountDescription(user, data.Description); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func goPrivate(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	if err := services.SetAccountPrivate(user, true); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func goPublic(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	if err := services.SetAccountPrivate(user, false); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func deleteMyself(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	if err := services.DeleteAccount(user); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func undeleteMyself(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	if err := services.UndeleteAccount(user); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func permanentlyDeleteMyself(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	if err := services.PermanentlyDeleteAccount(user); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func listMyFollowing(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	items, err := services.ListFollowing(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(items)
}

func listMyFollowers(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	items, err := services.ListFollowers(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(items)
}

func listMyBlocked(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	items, err := services.ListBlocked(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(items)
}

func followAccount(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	target, err := services.GetAccountWithName(c.Params("name"))
	if err != nil {
		return mapServiceError(err)
	}
	if err := services.FollowAccount(user, target); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func unfollowAccount(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	target, err := services.GetAccountWithName(c.Params("name"))
	if err != nil {
		return mapServiceError(err)
	}
	if err := services.UnfollowAccount(user, target); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func blockAccount(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	target, err := services.GetAccountWithName(c.Params("name"))
	if err != nil {
		return mapServiceError(err)
	}
	if err := services.BlockAccount(user, target); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func unblockAccount(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	target, err := services.GetAccountWithName(c.Params("name"))
	if err != nil {
		return mapServiceError(err)
	}
	if err := services.UnblockAccount(user, target); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}
