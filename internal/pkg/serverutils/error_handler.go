package serverutils

import (
	"errors"
	"net/url"

	"legalaid-intake-be/pkg/legalapi"
	"legalaid-intake-be/pkg/wizard"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var fe *fiber.Error
	var rv *RequestValidationError
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &rv),
		errors.Is(err, wizard.ErrValidation),
		errors.Is(err, wizard.ErrInvalidOption),
		errors.Is(err, wizard.ErrUnknownField):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, wizard.ErrUnknownDocumentType),
		errors.Is(err, wizard.ErrStepOutOfRange):
		return fiber.StatusNotFound
	case errors.Is(err, wizard.ErrSubmissionInFlight),
		errors.Is(err, wizard.ErrAtFirstStep),
		errors.Is(err, wizard.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, ErrMissingUser):
		return fiber.StatusUnauthorized
	case isUpstream(err):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// isUpstream reports failures of the legal API: a non-2xx answer or a
// transport error.
func isUpstream(err error) bool {
	var apiErr *legalapi.APIError
	var urlErr *url.Error
	return errors.As(err, &apiErr) || errors.As(err, &urlErr)
}

// ErrorHandler is installed as fiber.Config.ErrorHandler.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := StatusFor(err)
	body := ErrorResponse(err.Error(), nil)
	body.Code = code

	var rv *RequestValidationError
	var ve *wizard.ValidationError
	switch {
	case errors.As(err, &rv):
		body.Message = "Invalid request"
		body.Errors = rv.Fields
	case errors.As(err, &ve):
		body.Errors = fiber.Map{"step": ve.Step, "missing": ve.Missing}
	case code == fiber.StatusInternalServerError:
		body.Message = "Internal server error"
	}
	return ctx.Status(code).JSON(body)
}

// ErrorHandlerMiddleware converts handler errors into JSON responses before
// they leave the route group.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return ErrorHandler(ctx, err)
		}
		return nil
	}
}
