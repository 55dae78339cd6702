package handler

import (
	"github.com/fadilmartias/career-coach/internal/apperror"
	"github.com/fadilmartias/career-coach/internal/middleware"
	"github.com/fadilmartias/career-coach/internal/util"
	"github.com/gofiber/fiber/v2"
)

// bind parses the JSON body into v and runs its validator tags.
func bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return apperror.Validation("Invalid request body", err)
	}
	if fields, err := util.ValidateStruct(v); err != nil {
		if fields == nil {
			return apperror.Validation("Invalid request body", err)
		}
		return util.NewFormError("Validation failed", fields)
	}
	return nil
}

func identity(c *fiber.Ctx) string {
	return middleware.IdentityFrom(c)
}
