package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/txcheck/txcheck/pkg/api/routes"
	"github.com/txcheck/txcheck/pkg/validator"
)

func SetupServer(listen string, pti *validator.Validator, fares *validator.Validator) error {
	webApp := fiber.New(fiber.Config{
		BodyLimit: 64 * 1024 * 1024,
	})
	webApp.Use(NewLogger())

	webApp.Get("version", routes.APIVersion)

	routes.ValidateRouter(webApp.Group("/validate"), pti, fares)

	return webApp.Listen(listen)
}
