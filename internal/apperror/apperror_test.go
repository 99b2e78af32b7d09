package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	t.Parallel()

	cases := map[*Error]int{
		Validation("v"):      http.StatusBadRequest,
		Unauthenticated("u"): http.StatusUnauthorized,
		Forbidden("f"):       http.StatusForbidden,
		NotFound("n"):        http.StatusNotFound,
		Conflict("c"):        http.StatusConflict,
		Internal(io.EOF):     http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, err.Status(), err.Message)
	}
}

func TestIsFollowsWrapping(t *testing.T) {
	t.Parallel()

	sentinel := Conflict("dup")
	wrapped := fmt.Errorf("create: %w", sentinel)
	assert.True(t, Is(wrapped, KindConflict))
	assert.False(t, Is(wrapped, KindNotFound))
	assert.ErrorIs(t, wrapped, sentinel)
	assert.ErrorIs(t, Internal(io.EOF), io.EOF)
}

func respond(t *testing.T, err error, fallback ...string) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return Respond(c, err, fallback...) })

	resp, reqErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, reqErr)
	defer func() { _ = resp.Body.Close() }()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRespond(t *testing.T) {
	t.Parallel()

	t.Run("client error keeps its message", func(t *testing.T) {
		status, body := respond(t, NotFound("프로필을 찾을 수 없습니다."))
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "프로필을 찾을 수 없습니다.", body["error"])
	})

	t.Run("plain error is hidden behind the generic message", func(t *testing.T) {
		status, body := respond(t, errors.New("pq: relation \"users\" does not exist"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, GenericMessage, body["error"])
	})

	t.Run("internal error uses fallback", func(t *testing.T) {
		status, body := respond(t, Internal(io.EOF), "서버 내부 오류가 발생했습니다.")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "서버 내부 오류가 발생했습니다.", body["error"])
	})
}
