package api

import (
	"errors"

	"github.com/quillpost/quillpost/pkg/internal/models"
	"github.com/quillpost/quillpost/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		accounts := api.Group("/accounts").Name("Accounts API")
		{
			accounts.Get("/me", getMyself)
			accounts.Put("/me/name", changeMyName)
			accounts.Put("/me/email", changeMyEmail)
			accounts.Put("/me/description", changeMyDescription)
			accounts.Post("/me/privacy", goPrivate)
			accounts.Delete("/me/privacy", goPublic)
			accounts.Post("/me/deletion", deleteMyself)
			accounts.Delete("/me/deletion", undeleteMyself)
			accounts.Delete("/me", permanentlyDeleteMyself)
			accounts.Get("/me/following", listMyFollowing)
			accounts.Get("/me/followers", listMyFollowers)
			accounts.Get("/me/blocked", listMyBlocked)

			accounts.Get("/:name", getAccount)
			accounts.Get("/:name/posts", listAccountPosts)
			accounts.Get("/:name/comments", listAccountComments)
			accounts.Get("/:name/following", listAccountFollowing)
			accounts.Get("/:name/followers", listAccountFollowers)
			accounts.Post("/:name/follow", followAccount)
			accounts.Delete("/:name/follow", unfollowAccount)
			accounts.Post("/:name/block", blockAccount)
			accounts.Delete("/:name/block", unblockAccount)
		}

		posts := api.Group("/posts").Name("Posts API")
		{
			posts.Get("/", listPosts)
			posts.Post("/", createPost)
			posts.Get("/:postId", getPost)
			posts.Put("/:postId/title", changePostTitle)
			posts.Put("/:postId/content", changePostContent)
			posts.Post("/:postId/hide", hidePost)
			posts.Delete("/:postId/hide", unhidePost)
			posts.Post("/:postId/deletion", deletePost)
			posts.Delete("/:postId/deletion", undeletePost)
			posts.Delete("/:postId", permanentlyDeletePost)

			posts.Post("/:postId/like", likePost)
			posts.Delete("/:postId/like", removeLikePost)
			posts.Post("/:postId/dislike", dislikePost)
			posts.Delete("/:postId/dislike", removeDislikePost)

			posts.Get("/:postId/comments", listPostComments)
		}

		comments := api.Group("/comments").Name("Comments API")
		{
			comments.Post("/", createComment)
			comments.Get("/:commentId", getComment)
			comments.Get("/:commentId/replies", listCommentReplies)
			comments.Put("/:commentId/content", changeCommentContent)
			comments.Post("/:commentId/hide", hideComment)
			comments.Delete("/:commentId/hide", unhideComment)
			comments.Post("/:commentId/deletion", deleteComment)
			comments.Delete("/:commentId/deletion", undeleteComment)
			comments.Delete("/:commentId", permanentlyDeleteComment)

			comments.Post("/:commentId/like", likeComment)
			comments.Delete("/:commentId/like", removeLikeComment)
			comments.Post("/:commentId/dislike", dislikeComment)
			comments.Delete("/:commentId/dislike", removeDislikeComment)
		}
	}
}

// mapServiceError translates the service error taxonomy into HTTP statuses.
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

func requireAuth(c *fiber.Ctx) (models.Account, error) {
	if user, authenticated := c.Locals("user").(models.Account); authenticated {
		return user, nil
	}
	return models.Account{}, fiber.NewError(fiber.StatusUnauthorized, "you must be logged in")
}

func viewerContext(c *fiber.Ctx) (services.ViewerContext, error) {
	var actor *models.Account
	if user, authenticated := c.Locals("user").(models.Account); authenticated {
		actor = &user
	}

	viewer, err := services.BuildViewerContext(actor)
	if err != nil {
		return viewer, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return viewer, nil
}
