package jobs

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/testutil"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	p := New()
	db := testutil.NewDB(t, p.Models()...)
	app := fiber.New()
	p.RegisterRoutes(app.Group("/api"), db, &config.Config{AuthMode: config.AuthModeAmbient})
	return app, db
}

func str(s string) *string { return &s }

func seedJob(t *testing.T, db *gorm.DB, author *models.User, title, jobType, location string, age time.Duration, active bool) {
	t.Helper()
	job := &Job{
		Title:       title,
		Company:     "KDT",
		Description: "desc",
		JobType:     jobType,
		Location:    str(location),
		IsActive:    true,
		AuthorID:    author.ID,
		CreatedAt:   time.Now().Add(-age),
	}
	require.NoError(t, db.Omit("Author").Create(job).Error)
	if !active {
		require.NoError(t, db.Model(job).Update("is_active", false).Error)
	}
}

func titles(t *testing.T, body map[string]any) []string {
	t.Helper()
	var out []string
	list, _ := body["jobs"].([]any)
	for _, raw := range list {
		out = append(out, raw.(map[string]any)["title"].(string))
	}
	return out
}

func TestListJobs_TypeAndLocation(t *testing.T) {
	app, db := setup(t)
	ceo := testutil.CreateUser(t, db, "C", "c@x.com", "p", models.RoleCEO)

	seedJob(t, db, ceo, "old-gangnam", "FULL_TIME", "서울 강남구", 3*time.Hour, true)
	seedJob(t, db, ceo, "new-gangnam", "FULL_TIME", "강남역", time.Hour, true)
	seedJob(t, db, ceo, "inactive-gangnam", "FULL_TIME", "강남", 30*time.Minute, false)
	seedJob(t, db, ceo, "intern-gangnam", "INTERN", "강남", 2*time.Hour, true)
	seedJob(t, db, ceo, "full-pangyo", "FULL_TIME", "판교", 2*time.Hour, true)

	q := url.Values{"userId": {ceo.ID.String()}, "jobType": {"FULL_TIME"}, "location": {"강남"}}
	status, body := testutil.Do(t, app, http.MethodGet, "/api/jobs?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"new-gangnam", "old-gangnam"}, titles(t, body))
}

func TestListJobs_FilterSemantics(t *testing.T) {
	app, db := setup(t)
	ceo := testutil.CreateUser(t, db, "C", "c@x.com", "p", models.RoleCEO)

	require.NoError(t, db.Omit("Author").Create(&Job{
		Title: "Backend Engineer", Company: "Acme", Description: "Go services", JobType: "FULL_TIME",
		Skills: str("Go, PostgreSQL"), IsActive: true, AuthorID: ceo.ID, CreatedAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Omit("Author").Create(&Job{
		Title: "Designer", Company: "Studio", Description: "Figma", JobType: "CONTRACT",
		IsActive: true, AuthorID: ceo.ID,
	}).Error)

	tests := []struct {
		name  string
		query url.Values
		want  []string
	}{
		{"ALL is no filter", url.Values{"jobType": {"ALL"}}, []string{"Designer", "Backend Engineer"}},
		{"skills case-insensitive", url.Values{"skills": {"postgresql"}}, []string{"Backend Engineer"}},
		{"search matches company", url.Values{"search": {"studio"}}, []string{"Designer"}},
		{"search matches description", url.Values{"search": {"GO SERV"}}, []string{"Backend Engineer"}},
		{"filters combine", url.Values{"jobType": {"CONTRACT"}, "search": {"acme"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.Set("userId", ceo.ID.String())
			status, body := testutil.Do(t, app, http.MethodGet, "/api/jobs?"+tt.query.Encode(), nil)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.want, titles(t, body))
		})
	}
}

func TestListJobs_WildcardsMatchLiterally(t *testing.T) {
	app, db := setup(t)
	ceo := testutil.CreateUser(t, db, "C", "c@x.com", "p", models.RoleCEO)

	seedJob(t, db, ceo, "Backend", "FULL_TIME", "서울 강남", 2*time.Hour, true)
	seedJob(t, db, ceo, "Frontend", "FULL_TIME", "부산", time.Hour, true)
	seedJob(t, db, ceo, "ML_Engineer", "FULL_TIME", "판교", 30*time.Minute, true)
	require.NoError(t, db.Omit("Author").Create(&Job{
		Title: "Sales", Company: "KDT", Description: "100% remote", JobType: "FULL_TIME",
		IsActive: true, AuthorID: ceo.ID,
	}).Error)

	list := func(extra url.Values) []string {
		extra.Set("userId", ceo.ID.String())
		status, body := testutil.Do(t, app, http.MethodGet, "/api/jobs?"+extra.Encode(), nil)
		require.Equal(t, http.StatusOK, status)
		return titles(t, body)
	}

	assert.Equal(t, []string{"ML_Engineer"}, list(url.Values{"search": {"_"}}))
	assert.Equal(t, []string{"Sales"}, list(url.Values{"search": {"%"}}))
	assert.Empty(t, list(url.Values{"location": {"_"}}))
	assert.Empty(t, list(url.Values{"search": {`\`}}))
}

func TestListJobs_RequiresCaller(t *testing.T) {
	app, _ := setup(t)

	status, body := testutil.Do(t, app, http.MethodGet, "/api/jobs", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "인증이 필요합니다.", body["error"])
}

func TestCreateJob_RoleGate(t *testing.T) {
	app, db := setup(t)
	ceo := testutil.CreateUser(t, db, "C", "c@x.com", "p", models.RoleCEO)
	talent := testutil.CreateUser(t, db, "T", "t@x.com", "p", models.RoleTalent)

	req := map[string]string{"title": "t", "company": "c", "description": "d"}

	req["authorId"] = talent.ID.String()
	status, body := testutil.Do(t, app, http.MethodPost, "/api/jobs", req)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "CEO만 채용 공고를 작성할 수 있습니다.", body["error"])

	req["authorId"] = ceo.ID.String()
	status, body = testutil.Do(t, app, http.MethodPost, "/api/jobs", req)
	require.Equal(t, http.StatusCreated, status)

	job := body["job"].(map[string]any)
	assert.Equal(t, "FULL_TIME", job["jobType"])
	assert.Equal(t, "c@x.com", job["contactEmail"])
	assert.Equal(t, true, job["isActive"])
	assert.Nil(t, job["location"])
	assert.Equal(t, "C", job["author"].(map[string]any)["name"])
}

func TestCreateJob_Validation(t *testing.T) {
	app, _ := setup(t)

	status, body := testutil.Do(t, app, http.MethodPost, "/api/jobs", map[string]string{"title": "t", "company": "c"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "제목, 회사명, 설명, 작성자 정보가 모두 필요합니다.", body["error"])

	status, body = testutil.Do(t, app, http.MethodPost, "/api/jobs", map[string]string{
		"title": "t", "company": "c", "description": "d", "authorId": "00000000-0000-0000-0000-000000000000",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "유효하지 않은 작성자입니다.", body["error"])
}
