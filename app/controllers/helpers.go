package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/config"
	"github.com/wishfund/wishfund-backend/pkg/storage"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

var validate = validator.New()

var errBadUpload = errors.New("malformed multipart upload")

// queryStatus maps query-layer errors onto HTTP status codes.
func queryStatus(err error) int {
	switch {
	case errors.Is(err, queries.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, queries.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, queries.ErrAlreadyExists),
		errors.Is(err, queries.ErrInUse),
		errors.Is(err, queries.ErrAdvertisementClosed):
		return fiber.StatusConflict
	case errors.Is(err, queries.ErrBelowStartingPrice),
		errors.Is(err, queries.ErrNoFieldsToUpdate):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func queryError(c *fiber.Ctx, err error) error {
	status := queryStatus(err)
	if status == fiber.StatusInternalServerError {
		zap.L().Error("query failed", zap.String("route", c.Route().Path), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid " + what + " id"})
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
}

// optionalUser returns the caller's id when a valid bearer token is sent on a public route.
func optionalUser(c *fiber.Ctx) *uuid.UUID {
	tokenString, err := utils.BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return nil
	}
	claims, err := utils.ParseToken(config.AppConfig.JWTSecret, tokenString)
	if err != nil {
		return nil
	}
	id, err := claims.UID()
	if err != nil {
		return nil
	}
	return &id
}

func queryInt(c *fiber.Ctx, key string, def, max int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

func uploadStatus(err error) int {
	if errors.Is(err, errBadUpload) {
		return fiber.StatusBadRequest
	}
	if errors.Is(err, storage.ErrNotImage) {
		return fiber.StatusUnsupportedMediaType
	}
	if errors.Is(err, storage.ErrTooLarge) {
		return fiber.StatusRequestEntityTooLarge
	}
	return fiber.StatusInternalServerError
}

// saveUpload stores the optional image form field. It returns "" when the field is absent
// or the body is not multipart; a multipart body that cannot be parsed is errBadUpload.
func saveUpload(c *fiber.Ctx, field, dir string) (string, error) {
	fh, err := c.FormFile(field)
	switch {
	case errors.Is(err, fasthttp.ErrMissingFile), errors.Is(err, fasthttp.ErrNoMultipartForm):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("%w: %v", errBadUpload, err)
	case fh == nil:
		return "", nil
	}
	return storage.SaveImage(c.UserContext(), storage.Default, dir, fh, config.AppConfig.MaxUploadBytes)
}
