package rest

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/luminos-labs/accountd"
)

// ErrorResponse is the failure envelope rendered on every 4xx/5xx.
type ErrorResponse struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// NewErrorHandler builds the single translation boundary for the app. It
// decides the response from the error's kind, never its message: rich errors
// map by category, store-native errors are remapped into the taxonomy, and
// anything unrecognized becomes a 500 whose internals only show outside
// production.
func NewErrorHandler(logger accountd.Logger, production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var rich *goerrors.Error
		if goerrors.As(err, &rich) {
			return renderRichError(c, logger, rich)
		}

		// Store-native shapes that escaped the repository layer. Duplicate
		// key is the only write error Mongo can produce here: the collection
		// carries no server-side schema validator, and malformed ObjectIDs
		// are rejected as BadRequest/INVALID_ID inside the store itself.
		if mongo.IsDuplicateKeyError(err) {
			logger.Error("[%s] 409: %v", accountd.TextCodeDuplicateKey, err)
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
				Status:  fiber.StatusConflict,
				Message: "Duplicate key",
				Code:    accountd.TextCodeDuplicateKey,
			})
		}

		if fe, ok := err.(*fiber.Error); ok {
			logger.Warn("[HTTP_%d] %s", fe.Code, fe.Message)
			return c.Status(fe.Code).JSON(ErrorResponse{
				Status:  fe.Code,
				Message: fe.Message,
				Code:    httpTextCode(fe.Code),
			})
		}

		logger.Error("[%s] 500: %v", accountd.TextCodeServer, err)

		resp := ErrorResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    accountd.TextCodeServer,
		}
		if !production {
			resp.Error = err.Error()
		}

		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
}

func renderRichError(c *fiber.Ctx, logger accountd.Logger, rich *goerrors.Error) error {
	status := rich.Code
	if status < fiber.StatusBadRequest {
		switch rich.Category {
		case goerrors.CategoryBadInput, goerrors.CategoryValidation:
			status = fiber.StatusBadRequest
		case goerrors.CategoryAuth:
			status = fiber.StatusUnauthorized
		case goerrors.CategoryAuthz:
			status = fiber.StatusForbidden
		case goerrors.CategoryNotFound:
			status = fiber.StatusNotFound
		case goerrors.CategoryConflict:
			status = fiber.StatusConflict
		default:
			status = fiber.StatusInternalServerError
		}
	}

	code := rich.TextCode
	if code == "" {
		code = httpTextCode(status)
	}

	resp := ErrorResponse{
		Status:  status,
		Message: rich.Message,
		Code:    code,
	}

	if fields, ok := rich.Metadata[accountd.MetadataFieldErrors].(map[string]string); ok {
		resp.Errors = fields
	}

	if status >= fiber.StatusInternalServerError {
		logger.Error("[%s] %d: %s", code, status, rich.Message)
	} else {
		logger.Warn("[%s] %d: %s", code, status, rich.Message)
	}

	return c.Status(status).JSON(resp)
}

func httpTextCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return accountd.TextCodeBadRequest
	case fiber.StatusUnauthorized:
		return accountd.TextCodeUnauthorized
	case fiber.StatusForbidden:
		return accountd.TextCodeForbidden
	case fiber.StatusNotFound:
		return accountd.TextCodeNotFound
	case fiber.StatusConflict:
		return accountd.TextCodeConflict
	default:
		return accountd.TextCodeServer
	}
}
