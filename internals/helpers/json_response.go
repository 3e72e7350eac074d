// file: internals/helpers/json_response.go
package helper

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ExposeInternalErrors adds the wrapped cause to 5xx bodies. Development only.
var ExposeInternalErrors = false

/* ===============================
   Error helpers (standard shape)
=================================*/

type ErrorResponse struct {
	Success   bool                `json:"success"`
	Error     string              `json:"error"`
	ErrorCode string              `json:"error_code,omitempty"`
	Field     string              `json:"field,omitempty"`
	Missing   []string            `json:"missing,omitempty"`
	Fields    map[string][]string `json:"fields,omitempty"`
	Detail    string              `json:"detail,omitempty"`
}

func statusToErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return string(KindNotFound)
	case fiber.StatusConflict:
		return string(KindDuplicateKey)
	case fiber.StatusRequestEntityTooLarge:
		return string(KindUpload)
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		if status >= 500 {
			return string(KindInternal)
		}
		return "ERROR"
	}
}

// JsonError: generic error with a status-derived code.
func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		message = fiber.ErrInternalServerError.Message
	}
	return c.Status(status).JSON(ErrorResponse{
		Success:   false,
		Error:     message,
		ErrorCode: statusToErrorCode(status),
	})
}

// JsonAppError maps any error onto the response shape. Causes of 5xx errors
// are logged and withheld from the client.
func JsonAppError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	var ae *AppError
	if !errors.As(err, &ae) {
		ae = NewInternal(err)
	}
	status := ae.Kind.HTTPStatus()

	resp := ErrorResponse{
		Success:   false,
		Error:     ae.Message,
		ErrorCode: string(ae.Kind),
		Field:     ae.Field,
		Missing:   ae.Missing,
		Fields:    ae.Fields,
	}
	if status >= 500 {
		log.Printf("[ERROR] reqid=%v %s %s: %v", c.Locals("reqid"), c.Method(), c.Path(), err)
		if ae.Kind == KindStore || ae.Kind == KindConstraint {
			resp.Error = "Database error"
		}
		if ExposeInternalErrors && ae.Err != nil {
			resp.Detail = ae.Err.Error()
		}
	}
	return c.Status(status).JSON(resp)
}

// ErrorHandler is the fiber.Config ErrorHandler: panics recovered by the
// recover middleware and bare *fiber.Error returns land here.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return JsonAppError(c, err)
}

/* ===============================
   JSON responses (standard success)
=================================*/

// JsonList: {success, count, data}
func JsonList[T any](c *fiber.Ctx, data []T) error {
	if data == nil {
		data = []T{}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(data),
		"data":    data,
	})
}

// JsonOK: generic success (GET detail, etc)
func JsonOK(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "ok"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// JsonCreated: 201 with extra top-level fields (id, reference_code, ...)
func JsonCreated(c *fiber.Ctx, message string, fields fiber.Map) error {
	return c.Status(fiber.StatusCreated).JSON(withSuccess(message, "created", fields))
}

// JsonUpdated: response after PATCH/PUT
func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "updated"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// JsonDeleted: 200 with extra top-level fields
func JsonDeleted(c *fiber.Ctx, message string, fields fiber.Map) error {
	return c.Status(fiber.StatusOK).JSON(withSuccess(message, "deleted", fields))
}

func withSuccess(message, fallback string, fields fiber.Map) fiber.Map {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}
	body := fiber.Map{}
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	body["message"] = message
	return body
}
