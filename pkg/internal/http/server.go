package http

import (
	"strings"

	pkg "github.com/quillpost/quillpost/pkg/internal"
	"github.com/quillpost/quillpost/pkg/internal/http/admin"
	"github.com/quillpost/quillpost/pkg/internal/http/api"
	"github.com/quillpost/quillpost/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type App struct {
	app *fiber.App
}

func NewServer() *App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnableIPValidation:    true,
		ServerHeader:          "Quillpost",
		AppName:               "Quillpost v" + pkg.AppVersion,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		BodyLimit:             4 * 1024 * 1024,
	})

	app.Use(gatewayAuthMiddleware)

	api.MapAPIs(app, "/api")
	admin.MapControllers(app, "/api/admin")

	return &App{app}
}

// gatewayAuthMiddleware trusts the identity header set by the fronting
// gateway; authentication itself happens there. Disabled accounts get no
// identity attached, which is what locks them out.
func gatewayAuthMiddleware(c *fiber.Ctx) error {
	header := viper.GetString("security.gateway_header")
	if len(header) == 0 {
		header = "X-Account-Name"
	}

	name := strings.TrimSpace(c.Get(header))
	if len(name) > 0 {
		if account, err := services.GetAccountWithName(name); err == nil && account.IsEnabled {
			c.Locals("user", account)
		}
	}

	return c.Next()
}

func (v *App) Listen() {
	if err := v.app.Listen(viper.GetString("bind")); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting server...")
	}
}
