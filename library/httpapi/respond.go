package httpapi

import (
	"bytes"
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

const (
	logMsgRequestFailed = "request failed"
	logAttrError        = "error"
	logAttrMethod       = "method"
	logAttrPath         = "path"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errMalformedBody = core.ValidationError("body", "request body must be a JSON object")

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Kind    core.Kind `json:"kind"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind core.Kind) int {
	switch kind {
	case core.KindValidation:
		return fiber.StatusBadRequest
	case core.KindNotFound:
		return fiber.StatusNotFound
	case core.KindConflict:
		return fiber.StatusConflict
	case core.KindForbidden:
		return fiber.StatusForbidden
	case core.KindUnauthenticated:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// kindOf classifies the status of a fiber error, e.g. an unknown route or an oversized body.
func kindOf(status int) core.Kind {
	switch {
	case status == fiber.StatusNotFound || status == fiber.StatusMethodNotAllowed:
		return core.KindNotFound
	case status == fiber.StatusUnauthorized:
		return core.KindUnauthenticated
	case status == fiber.StatusForbidden:
		return core.KindForbidden
	case status == fiber.StatusConflict:
		return core.KindConflict
	case status >= fiber.StatusInternalServerError:
		return core.KindInternal
	default:
		return core.KindValidation
	}
}

type responder struct {
	logger shell.ContextualLogger
}

// handleError is the fiber ErrorHandler. It answers with the error's kind and message.
// Anything that is neither a core.Error nor a fiber.Error is internal, including recovered panics:
// the client gets a generic message and the cause goes to the log only.
func (rs responder) handleError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(errorBody{Kind: kindOf(fiberErr.Code), Message: fiberErr.Message})
	}

	coreErr := core.AsError(err)
	if coreErr.Kind == core.KindInternal {
		rs.log(c.UserContext(), logMsgRequestFailed,
			logAttrMethod, c.Method(),
			logAttrPath, c.Path(),
			logAttrError, err.Error(),
		)
	}

	return c.Status(StatusOf(coreErr.Kind)).JSON(errorBody{
		Kind:    coreErr.Kind,
		Message: coreErr.Message,
		Field:   coreErr.Field,
	})
}

func (rs responder) log(ctx context.Context, msg string, args ...any) {
	if rs.logger != nil {
		rs.logger.ErrorContext(ctx, msg, args...)
	}
}

// decodeBody reads the JSON request body into dst. The size limit is enforced by fiber's BodyLimit.
func decodeBody(c *fiber.Ctx, dst any) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return core.ValidationError("body", "request body is empty")
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return errMalformedBody
	}

	return nil
}

// pathID parses the :id route parameter.
func pathID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, core.ValidationError("id", "must be a uuid")
	}

	return id, nil
}

// optionalID parses an optional uuid. An empty value is uuid.Nil.
func optionalID(field, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, nil
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, core.ValidationError(field, "must be a uuid")
	}

	return id, nil
}

// requiredID parses a uuid that must be present.
func requiredID(field, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, core.ValidationError(field, "is required")
	}

	return optionalID(field, value)
}

// queryInt parses an optional integer query parameter. Missing means 0, which the paging defaults replace.
func queryInt(c *fiber.Ctx, name string) (int, error) {
	value := c.Query(name)
	if value == "" {
		return 0, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, core.ValidationError(name, "must be an integer")
	}

	return parsed, nil
}
