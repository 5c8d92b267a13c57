package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dishfeed/merchant-backend/api/responses"
	"github.com/dishfeed/merchant-backend/pkg/db/models"
	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"github.com/dishfeed/merchant-backend/pkg/logger"
	"github.com/dishfeed/merchant-backend/pkg/types"
)

// IdempotencyStore persists one replayable response per Idempotency-Key.
type IdempotencyStore interface {
	FindIdempotencyRecord(ctx context.Context, key string) (*models.IdempotencyRecord, error)
	CreateIdempotencyRecord(ctx context.Context, record *models.IdempotencyRecord) error
}

// Idempotency guards mutating endpoints it wraps. The Idempotency-Key header
// is required; a repeated key with the same request hash replays the stored
// response, a repeated key with a different hash is rejected.
func Idempotency(store IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if idempotencyKey == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)

			stored, err := store.FindIdempotencyRecord(r.Context(), idempotencyKey)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if stored != nil {
				if stored.RequestHash != requestHash {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				writeStoredResponse(w, stored)
				return
			}

			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			record := models.IdempotencyRecord{
				Key:            idempotencyKey,
				RequestHash:    requestHash,
				ResponseStatus: defaultStatus(rec.status),
				ResponseBody:   types.JSON(rec.body.Bytes()),
				CreatedAt:      time.Now().UTC().Format(time.RFC3339Nano),
			}
			if err := store.CreateIdempotencyRecord(r.Context(), &record); err != nil && logg != nil {
				logg.Error(r.Context(), "idempotency.persist_failed", err)
			}
		})
	}
}

func writeStoredResponse(w http.ResponseWriter, record *models.IdempotencyRecord) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(record.ResponseStatus)
	_, _ = w.Write(record.ResponseBody)
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func defaultStatus(value int) int {
	if value == 0 {
		return http.StatusOK
	}
	return value
}

// responseCapture buffers the downstream response so it can be stored for
// replay while still reaching the client.
type responseCapture struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseCapture) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseCapture) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
