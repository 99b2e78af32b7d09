package identity

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/testutil"
)

var testResponses = Responses{
	Missing: apperror.Unauthenticated("missing"),
	Unknown: apperror.Unauthenticated("unknown"),
}

// whoAmI answers with the resolved user's email or the mapped error.
func whoAmI(r Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := r.Resolve(c, c.Query("userId"))
		if err != nil {
			return apperror.Respond(c, testResponses.Map(err))
		}
		return c.JSON(fiber.Map{"email": user.Email})
	}
}

func TestAmbientResolver(t *testing.T) {
	t.Parallel()
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "A", "a@x.com", "pw", models.RoleTalent)

	app := fiber.New()
	app.Get("/me", whoAmI(NewAmbientResolver(db)))

	status, body := testutil.Do(t, app, http.MethodGet, "/me?userId="+user.ID.String(), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@x.com", body["email"])

	status, body = testutil.Do(t, app, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "missing", body["error"])

	status, body = testutil.Do(t, app, http.MethodGet, "/me?userId="+uuid.NewString(), nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unknown", body["error"])

	status, body = testutil.Do(t, app, http.MethodGet, "/me?userId=not-a-uuid", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unknown", body["error"])
}

func TestTokenResolver(t *testing.T) {
	t.Parallel()
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "C", "c@x.com", "pw", models.RoleCEO)
	issuer := NewIssuer("test-secret", time.Hour)

	signed, err := issuer.Issue(user)
	require.NoError(t, err)
	token, err := jwt.Parse(signed, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)

	withToken := func(c *fiber.Ctx) error {
		c.Locals("user", token)
		return c.Next()
	}
	app := fiber.New()
	app.Get("/me", withToken, whoAmI(NewTokenResolver(db)))
	app.Get("/anon", whoAmI(NewTokenResolver(db)))

	status, body := testutil.Do(t, app, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "c@x.com", body["email"])

	status, _ = testutil.Do(t, app, http.MethodGet, "/me?userId="+user.ID.String(), nil)
	assert.Equal(t, http.StatusOK, status, "matching claimed id is accepted")

	status, _ = testutil.Do(t, app, http.MethodGet, "/me?userId="+uuid.NewString(), nil)
	assert.Equal(t, http.StatusForbidden, status, "claimed id must agree with the token")

	status, body = testutil.Do(t, app, http.MethodGet, "/anon?userId="+user.ID.String(), nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "missing", body["error"])
}

func TestIssuer_Claims(t *testing.T) {
	t.Parallel()
	issuer := NewIssuer("k", time.Minute)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return fixed }

	user := &models.User{ID: uuid.New(), Role: models.RoleTalent}
	signed, err := issuer.Issue(user)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) { return []byte("k"), nil },
		jwt.WithTimeFunc(func() time.Time { return fixed }))
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, "TALENT", claims["role"])
	assert.EqualValues(t, fixed.Add(time.Minute).Unix(), claims["exp"])
}

func TestResponsesMap_Internal(t *testing.T) {
	t.Parallel()
	boom := errors.New("db down")
	err := testResponses.Map(boom)
	assert.True(t, apperror.Is(err, apperror.KindInternal))
	assert.ErrorIs(t, err, boom)
}

func TestForConfig(t *testing.T) {
	db := testutil.NewDB(t)

	ambient := &config.Config{AuthMode: config.AuthModeAmbient}
	assert.IsType(t, &AmbientResolver{}, ForConfig(db, ambient))
	assert.Nil(t, IssuerForConfig(ambient))

	token := &config.Config{AuthMode: config.AuthModeToken, JWTSecret: "s", JWTExpiry: time.Hour}
	assert.IsType(t, &TokenResolver{}, ForConfig(db, token))
	assert.NotNil(t, IssuerForConfig(token))
}
