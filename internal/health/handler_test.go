package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"loandesk/pkg/testutil"
)

func serve(t *testing.T, h *Handler) (int, Response) {
	t.Helper()
	r := chi.NewRouter()
	h.Register(r)
	rec := testutil.DoRequest(r, testutil.NewJSONRequest(http.MethodGet, "/health", ""))
	return rec.Code, testutil.UnmarshalResponse[Response](t, rec)
}

func TestHealth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	up := PingerFunc(func(context.Context) error { return nil })
	down := PingerFunc(func(context.Context) error { return errors.New("connection refused") })
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("database up", func(t *testing.T) {
		code, resp := serve(t, New(up, logger, WithClock(func() time.Time { return fixed })))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "OK", resp.Status)
		assert.Equal(t, "Connected", resp.Database)
		assert.Empty(t, resp.Redis)
		assert.Equal(t, fixed, resp.Timestamp)
	})

	t.Run("database down", func(t *testing.T) {
		code, resp := serve(t, New(down, logger))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "ERROR", resp.Status)
		assert.Equal(t, "Disconnected", resp.Database)
	})

	t.Run("redis down", func(t *testing.T) {
		code, resp := serve(t, New(up, logger, WithRedis(down)))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "Connected", resp.Database)
		assert.Equal(t, "Disconnected", resp.Redis)
	})

	t.Run("redis up", func(t *testing.T) {
		code, resp := serve(t, New(up, logger, WithRedis(up)))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Connected", resp.Redis)
	})
}
