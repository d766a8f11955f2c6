package api

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestMapAPIsRegistersAccountListings(t *testing.T) {
	app := fiber.New()
	MapAPIs(app, "/api")

	registered := make(map[string]bool)
	for _, route := range app.GetRoutes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, path := range []string{
		"GET /api/accounts/:name",
		"GET /api/accounts/:name/posts",
		"GET /api/accounts/:name/comments",
		"GET /api/accounts/:name/following",
		"GET /api/accounts/:name/followers",
		"GET /api/accounts/me/following",
		"GET /api/accounts/me/followers",
	} {
		assert.True(t, registered[path], path)
	}
}
