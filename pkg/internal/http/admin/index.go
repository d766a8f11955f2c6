package admin

import (
	"github.com/quillpost/quillpost/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
)

func MapControllers(app *fiber.App, baseURL string) {
	admin := app.Group(baseURL).Name("Admin API").Use(requireAdmin)
	{
		admin.Post("/accounts/:name/disable", disableAccount)
		admin.Delete("/accounts/:name/disable", enableAccount)

		admin.Post("/posts/:postId/deletion", adminDeletePost)
		admin.Delete("/posts/:postId/deletion", adminUndeletePost)

		admin.Post("/comments/:commentId/deletion", adminDeleteComment)
		admin.Delete("/comments/:commentId/deletion", adminUndeleteComment)
	}
}

func requireAdmin(c *fiber.Ctx) error {
	user, authenticated := c.Locals("user").(models.Account)
	if !authenticated {
		return fiber.NewError(fiber.StatusUnauthorized, "you must be logged in")
	}
	if !user.HasRole(models.RoleAdmin) {
		return fiber.NewError(fiber.StatusForbidden, "you are not an administrator")
	}
	return c.Next()
}
