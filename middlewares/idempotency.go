package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"billing-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const idempotencyHeader = "Idempotency-Key"

// Idempotency replays the stored response of a mutating request that was
// already completed under the same Idempotency-Key. A client retrying a
// timed-out create therefore gets its document back instead of a second
// invoice number. Run it after IsAuthenticatedHeader.
func Idempotency(db *gorm.DB, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get(idempotencyHeader))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key too long")
		}

		userID := UserID(c)
		if userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "auth context missing")
		}
		reqHash := requestHash(method, c.OriginalURL(), c.Body(), userID)

		rec, err := reserveKey(db.WithContext(c.UserContext()), key, reqHash, method, c.OriginalURL(), userID)
		if err != nil {
			return err
		}
		if rec.ResponseStatus != 0 {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(rec.ResponseStatus).Send(rec.ResponseBody)
		}

		if err := c.Next(); err != nil {
			// nothing to replay; let the client retry with the same key
			db.Where("key = ? AND response_status = 0", key).Delete(&models.IdempotencyKey{})
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			db.Where("key = ? AND response_status = 0", key).Delete(&models.IdempotencyKey{})
			return nil
		}
		now := time.Now().UTC()
		body := append([]byte(nil), c.Response().Body()...)
		if err := db.Model(&models.IdempotencyKey{}).
			Where("key = ?", key).
			Updates(map[string]any{
				"response_status": status,
				"response_body":   body,
				"completed_at":    &now,
			}).Error; err != nil {
			// best-effort: don't break the successful response
			log.WithError(err).WithField("key", key).Warn("could not store idempotent response")
		}
		return nil
	}
}

// requestHash is sha256 of method|path|body|user.
func requestHash(method, path string, body []byte, userID string) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	h.Write([]byte{'\n'})
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

// reserveKey returns the record for key, creating a pending one if absent.
// A pending record created by another request is reported as in progress.
func reserveKey(db *gorm.DB, key, reqHash, method, path, userID string) (models.IdempotencyKey, error) {
	var existing models.IdempotencyKey
	created := false
	err := db.Where("key = ?", key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		existing = models.IdempotencyKey{
			Key:         key,
			RequestHash: reqHash,
			Method:      method,
			Path:        path,
			UserID:      userID,
		}
		err = db.Create(&existing).Error
		created = err == nil
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the insert race
			err = db.Where("key = ?", key).First(&existing).Error
		}
	}
	if err != nil {
		return existing, fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
	}

	if existing.RequestHash != reqHash {
		return existing, fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
	}
	if existing.ResponseStatus == 0 && !created {
		return existing, fiber.NewError(fiber.StatusConflict, "request with this Idempotency-Key is still in progress")
	}
	return existing, nil
}
