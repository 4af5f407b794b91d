package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"

	"github.com/txcheck/txcheck/pkg/lookup"
	"github.com/txcheck/txcheck/pkg/report"
	"github.com/txcheck/txcheck/pkg/validator"
)

type validationResponse struct {
	Filename   string             `json:"filename" groups:"basic,detailed"`
	Violations []report.Violation `json:"violations" groups:"basic,detailed"`
}

// ValidateRouter serves validation runs over uploaded documents. The raw
// XML is the request body; the filename comes from the query string.
func ValidateRouter(router fiber.Router, pti *validator.Validator, fares *validator.Validator) {
	router.Post("/pti", validateDocument(pti, false))
	router.Post("/fares", validateDocument(fares, true))
}

func validateDocument(engine *validator.Validator, fares bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filename := c.Query("filename", "upload.xml")

		body := c.Body()
		if len(body) == 0 {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Request body must contain an XML document",
			})
		}

		var violations []report.Violation
		var err error

		if fares {
			violations, err = engine.ValidateFares(c.Context(), body, filename)
		} else {
			_, violations, err = engine.Validate(c.Context(), body, filename)
		}

		if err != nil {
			if errors.Is(err, lookup.ErrLookupUnavailable) {
				c.SendStatus(fiber.StatusServiceUnavailable)
			} else {
				c.SendStatus(fiber.StatusUnprocessableEntity)
			}

			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		response := validationResponse{
			Filename:   filename,
			Violations: violations,
		}
		if response.Violations == nil {
			response.Violations = []report.Violation{}
		}

		groups := []string{"basic"}
		if c.Query("detail") == "detailed" {
			groups = []string{"basic", "detailed"}
		}

		reduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: groups,
		}, response)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce validationResponse",
			})
		}

		return c.JSON(reduced)
	}
}
