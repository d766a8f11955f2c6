package admin

import (
	"errors"

	"github.com/quillpost/quillpost/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func disableAccount(c *fiber.Ctx) error {
	target, err := services.GetAccountWithName(c.Params("name"))
	if err != nil {
		return mapServiceError(err)
	}
	if err := services.DisableAccount(target); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func enableAccount(c *fiber.Ctx) error {
	target, err := services.GetAccountWithName(c.Params("name"))
	if err != nil {
		return mapServiceError(err)
	}
	if err := services.EnableAccount(target); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func adminDeletePost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("postId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid post id")
	}
	if err := services.AdminDeletePost(uint(id)); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func adminUndeletePost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("postId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid post id")
	}
	if err := services.AdminUndeletePost(uint(id)); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func adminDeleteComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("commentId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid comment id")
	}
	if err := services.AdminDeleteComment(uint(id)); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func adminUndeleteComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("commentId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid comment id")
	}
	if err := services.AdminUndeleteComment(uint(id)); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func mapServiceError(err error) error {
	var policyErr *services.PolicyError
	if errors.As(err, &policyErr) {
		switch policyErr.Kind {
		case services.KindNotFound:
			return fiber.NewError(fiber.StatusNotFound, policyErr.Message)
		case services.KindInvalidArgument:
			return fiber.NewError(fiber.StatusBadRequest, policyErr.Message)
		case services.KindConflict:
			return fiber.NewError(fiber.StatusConflict, policyErr.Message)
		case services.KindForbidden:
			return fiber.NewError(fiber.StatusForbidden, policyErr.Message)
		}
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
