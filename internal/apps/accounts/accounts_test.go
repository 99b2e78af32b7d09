package accounts

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/testutil"
)

func setup(t *testing.T, cfg *config.Config) (*fiber.App, *gorm.DB) {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{AuthMode: config.AuthModeAmbient}
	}
	db := testutil.NewDB(t)
	app := fiber.New()
	New().RegisterRoutes(app.Group("/api"), db, cfg)
	return app, db
}

func allow(t *testing.T, db *gorm.DB, email string, registered bool) {
	t.Helper()
	require.NoError(t, db.Create(&models.AllowedUser{Email: email, Role: models.RoleTalent, IsRegistered: registered}).Error)
}

func signupBody(email string) map[string]string {
	return map[string]string{"name": "A", "email": email, "password": "p", "role": "talent"}
}

func TestSignup_Success(t *testing.T) {
	app, db := setup(t, nil)
	allow(t, db, "a@x.com", false)

	status, body := testutil.Do(t, app, http.MethodPost, "/api/auth/signup", signupBody("a@x.com"))
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "회원가입이 완료되었습니다.", body["message"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "TALENT", user["role"])
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, user, "password")

	var allowed models.AllowedUser
	require.NoError(t, db.Where("email = ?", "a@x.com").First(&allowed).Error)
	assert.True(t, allowed.IsRegistered)
}

func TestSignup_NormalizesEmail(t *testing.T) {
	app, db := setup(t, nil)
	allow(t, db, "a@x.com", false)

	status, _ := testutil.Do(t, app, http.MethodPost, "/api/auth/signup", signupBody("  A@X.com "))
	require.Equal(t, http.StatusCreated, status)

	var user models.User
	require.NoError(t, db.First(&user).Error)
	assert.Equal(t, "a@x.com", user.Email)
}

func TestSignup_NotAllowed(t *testing.T) {
	app, db := setup(t, nil)

	status, body := testutil.Do(t, app, http.MethodPost, "/api/auth/signup", signupBody("nobody@x.com"))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "가입이 허용되지 않은 이메일입니다.", body["error"])

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSignup_AlreadyRegistered(t *testing.T) {
	app, db := setup(t, nil)
	allow(t, db, "a@x.com", true)

	status, body := testutil.Do(t, app, http.MethodPost, "/api/auth/signup", signupBody("a@x.com"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "이미 가입된 사용자입니다.", body["error"])
}

func TestSignup_RepeatFails(t *testing.T) {
	app, db := setup(t, nil)
	allow(t, db, "a@x.com", false)

	status, _ := testutil.Do(t, app, http.MethodPost, "/api/auth/signup", signupBody("a@x.com"))
	require.Equal(t, http.StatusCreated, status)

	status, _ = testutil.Do(t, app, http.MethodPost, "/api/auth/signup", signupBody("a@x.com"))
	assert.Equal(t, http.StatusConflict, status)
}

func TestSignup_UserAlreadyExists(t *testing.T) {
	app, db := setup(t, nil)
	allow(t, db, "a@x.com", false)
	testutil.CreateUser(t, db, "A", "a@x.com", "p", models.RoleTalent)

	status, body := testutil.Do(t, app, http.MethodPost, "/api/auth/signup", signupBody("a@x.com"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "이미 존재하는 이메일입니다.", body["error"])
}

func TestSignup_Validation(t *testing.T) {
	app, _ := setup(t, nil)

	tests := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{"missing name", map[string]string{"email": "a@x.com", "password": "p", "role": "talent"}, "모든 필드를 입력해 주세요."},
		{"missing role", map[string]string{"name": "A", "email": "a@x.com", "password": "p"}, "모든 필드를 입력해 주세요."},
		{"uppercase role", map[string]string{"name": "A", "email": "a@x.com", "password": "p", "role": "CEO"}, "유효하지 않은 역할입니다."},
		{"unknown role", map[string]string{"name": "A", "email": "a@x.com", "password": "p", "role": "admin"}, "유효하지 않은 역할입니다."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := testutil.Do(t, app, http.MethodPost, "/api/auth/signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

func TestSignup_RollsBackWhenAllowListUpdateFails(t *testing.T) {
	app, db := setup(t, nil)
	allow(t, db, "a@x.com", false)

	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_allow_list", func(tx *gorm.DB) {
		if tx.Statement.Table == "allowed_users" {
			_ = tx.AddError(errors.New("allow-list write failed"))
		}
	}))

	status, body := testutil.Do(t, app, http.MethodPost, "/api/auth/signup", signupBody("a@x.com"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "서버 오류가 발생했습니다.", body["error"])

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count, "user insert must roll back with the allow-list update")
}

func TestSignin(t *testing.T) {
	app, db := setup(t, nil)
	testutil.CreateUser(t, db, "A", "a@x.com", "secret", models.RoleCEO)

	status, body := testutil.Do(t, app, http.MethodPost, "/api/auth/signin", map[string]string{"email": "a@x.com", "password": "secret"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "로그인이 완료되었습니다.", body["message"])
	assert.Equal(t, "CEO", body["user"].(map[string]any)["role"])
	assert.NotContains(t, body, "token")

	status, body = testutil.Do(t, app, http.MethodPost, "/api/auth/signin", map[string]string{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, map[string]any{"error": "비밀번호가 올바르지 않습니다."}, body)

	status, body = testutil.Do(t, app, http.MethodPost, "/api/auth/signin", map[string]string{"email": "b@x.com", "password": "secret"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "존재하지 않는 이메일입니다.", body["error"])

	status, body = testutil.Do(t, app, http.MethodPost, "/api/auth/signin", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "이메일과 비밀번호를 입력해 주세요.", body["error"])
}

func TestSignin_TokenMode(t *testing.T) {
	cfg := &config.Config{AuthMode: config.AuthModeToken, JWTSecret: "test-secret", JWTExpiry: time.Hour}
	app, db := setup(t, cfg)
	testutil.CreateUser(t, db, "A", "a@x.com", "secret", models.RoleTalent)

	status, body := testutil.Do(t, app, http.MethodPost, "/api/auth/signin", map[string]string{"email": "a@x.com", "password": "secret"})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
}

func TestListUsers(t *testing.T) {
	app, db := setup(t, nil)
	caller := testutil.CreateUser(t, db, "A", "a@x.com", "p", models.RoleTalent)
	other := testutil.CreateUser(t, db, "B", "b@x.com", "p", models.RoleCEO)
	require.NoError(t, db.Create(&models.Profile{UserID: other.ID, Introduction: "hi"}).Error)

	status, body := testutil.Do(t, app, http.MethodGet, "/api/users?currentUserId="+caller.ID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["count"])

	users := body["users"].([]any)
	require.Len(t, users, 2)
	for _, raw := range users {
		u := raw.(map[string]any)
		assert.NotContains(t, u, "password")
		switch u["email"] {
		case "b@x.com":
			profile := u["profile"].(map[string]any)
			assert.Equal(t, "hi", profile["introduction"])
			assert.Equal(t, []any{}, profile["experiences"])
		case "a@x.com":
			assert.Nil(t, u["profile"])
		}
	}
}

func TestListUsers_RequiresCaller(t *testing.T) {
	app, _ := setup(t, nil)

	status, body := testutil.Do(t, app, http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "인증이 필요합니다. 로그인 후 다시 시도해주세요.", body["error"])

	status, body = testutil.Do(t, app, http.MethodGet, "/api/users?currentUserId=not-a-user", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "유효하지 않은 사용자입니다.", body["error"])
}

func TestSignup_HashesOnlyAdmittedEmails(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAccountService(db, nil)
	hashed := 0
	svc.hash = func(password []byte, _ int) ([]byte, error) {
		hashed++
		return bcrypt.GenerateFromPassword(password, bcrypt.MinCost)
	}
	allow(t, db, "done@x.com", true)
	allow(t, db, "open@x.com", false)

	in := SignupInput{Name: "A", Password: "p", Role: "talent"}

	in.Email = "stranger@x.com"
	_, err := svc.Signup(context.Background(), in)
	assert.ErrorIs(t, err, ErrNotAllowed)

	in.Email = "done@x.com"
	_, err = svc.Signup(context.Background(), in)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Zero(t, hashed)

	in.Email = "open@x.com"
	user, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, hashed)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("p")))
}
