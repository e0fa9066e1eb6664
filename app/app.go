package app

import (
	"fmt"

	"swingbot"
	"swingbot/app/handler"
	"swingbot/app/middleware"
	"swingbot/internal/db"

	"github.com/gofiber/fiber/v2"
)

func Run(port int, authKey, passKey string, stg *db.Storage, bot *swingbot.SwingBot) {

	app := fiber.New()

	middleware.SetupMiddleware(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("ok")
	})

	handler.NewAuthHandler(authKey, passKey).InitRoute(app)
	handler.NewJobHandler(bot, bot).InitRoute(app)
	handler.NewScoreHandler(stg, stg).InitRoute(app)
	handler.NewTradeHandler(stg, stg).InitRoute(app)

	app.Listen(fmt.Sprintf(":%d", port))
}
