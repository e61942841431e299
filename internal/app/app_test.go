package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"jobalert_backend/internal/config"
	"jobalert_backend/internal/models"
	"jobalert_backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const api = "/api/v1"

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	mail   *testutil.EmailOutbox
	sms    *testutil.SMSOutbox
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "test-secret"

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	a := &testApp{
		db:   testutil.NewTestDB(t),
		mail: &testutil.EmailOutbox{},
		sms:  &testutil.SMSOutbox{},
	}
	a.router = SetupRouter(cfg, a.db, Deps{
		Mailer: a.mail,
		SMS:    a.sms,
		Redis:  client,
		OTP:    testutil.FixedOTP("123456"),
	})
	return a
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, w)
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "нет поля error: %s", w.Body.String())
	return e["code"].(string)
}

// signUp регистрирует по email, подтверждает кодом и возвращает токен
func (a *testApp) signUp(t *testing.T, username, email, role string) string {
	t.Helper()

	w := a.do(t, http.MethodPost, api+"/auth/register", "", map[string]any{
		"username": username,
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	msg, ok := a.mail.Last(email)
	require.True(t, ok)

	w = a.do(t, http.MethodPost, api+"/auth/verify-email", "", map[string]any{"email": email, "otp": msg.Code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return a.login(t, email, "password123")
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, api+"/auth/login", "", map[string]any{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "bearer", body["token_type"])
	return body["access_token"].(string)
}

func TestRouter_SystemRoutes(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode(t, w)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "ok", health["cache"])

	w = a.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jobalert_http_requests_total")

	w = a.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/jobs/{id}")
}

func TestRouter_RequestID(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = a.do(t, http.MethodGet, "/", "", nil)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestRouter_AuthErrors(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodGet, api+"/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodGet, api+"/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, api+"/auth/login", "", map[string]any{"email": "nobody@x.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Ни email, ни телефона
	w = a.do(t, http.MethodPost, api+"/auth/register", "", map[string]any{"username": "bob", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Ошибка валидации приходит с деталями по полям
	w = a.do(t, http.MethodPost, api+"/auth/register", "", map[string]any{"username": "", "email": "not-an-email", "password": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "username")
}

func TestRouter_UnverifiedLoginRejected(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodPost, api+"/auth/register", "", map[string]any{
		"username": "alice", "email": "a@b.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "email", decode(t, w)["verification_method"])

	w = a.do(t, http.MethodPost, api+"/auth/login", "", map[string]any{"email": "a@b.com", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, api+"/auth/verify-email", "", map[string]any{"email": "a@b.com", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "OTP_MISMATCH", errorCode(t, w))
}

func TestRouter_FormLoginAndRoles(t *testing.T) {
	a := newTestApp(t)
	token := a.signUp(t, "emp", "emp@acme.com", "employer")

	form := url.Values{"username": {"emp@acme.com"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, api+"/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["access_token"])

	w = a.do(t, http.MethodGet, api+"/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)
	assert.Equal(t, "emp@acme.com", me["email"])
	assert.NotContains(t, me, "password_hash")

	w = a.do(t, http.MethodGet, api+"/auth/my-role", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "employer", decode(t, w)["role"])

	w = a.do(t, http.MethodGet, api+"/auth/check-role/admin", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["access_granted"])

	w = a.do(t, http.MethodGet, api+"/auth/check-role/wizard", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_MobileRegistrationWithoutSMS(t *testing.T) {
	a := newTestApp(t)
	a.sms.Disabled = true

	w := a.do(t, http.MethodPost, api+"/auth/mobile-register", "", map[string]any{
		"username": "mob", "mobile_number": "+77001234567", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	// В test-окружении код возвращается прямо в ответе
	assert.Equal(t, "123456", body["otp"])
	assert.NotEmpty(t, body["warning"])

	w = a.do(t, http.MethodPost, api+"/auth/verify", "", map[string]any{"mobile_number": "+77001234567", "otp": "123456"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["verified"])
}

func TestRouter_HiringFlow(t *testing.T) {
	a := newTestApp(t)

	admin := testutil.CreateUser(t, a.db, testutil.UserOpts{
		Username: "root", Email: "admin@jobs.io", Role: models.UserRoleAdmin, IsSuperuser: true,
	})
	adminToken := a.login(t, "admin@jobs.io", "password123")
	// Короткий username допустим
	employerToken := a.signUp(t, "hr", "hr@acme.com", "employer")
	candidateToken := a.signUp(t, "jane", "jane@mail.com", "candidate")

	// Кандидат не может публиковать вакансии
	w := a.do(t, http.MethodPost, api+"/jobs", candidateToken, map[string]any{"job_title": "x", "company_name": "y"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodPost, api+"/jobs", employerToken, map[string]any{
		"job_title":       "Backend Engineer",
		"company_name":    "Acme",
		"employment_type": "full-time",
		"work_mode":       "remote",
		"salary_min":      100000,
		"salary_max":      150000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	jobID := decode(t, w)["id"].(string)

	// Публичный список и карточка
	w = a.do(t, http.MethodGet, api+"/jobs?search=backend&size=5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.EqualValues(t, 1, list["total"])
	assert.EqualValues(t, 5, list["size"])

	w = a.do(t, http.MethodGet, api+"/jobs/"+jobID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, api+"/jobs?size=500", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Кандидат получил уведомление о новой вакансии, админ - нет
	w = a.do(t, http.MethodGet, api+"/notifications/unread-count", candidateToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["unread_count"])

	w = a.do(t, http.MethodGet, api+"/notifications/unread-count", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["unread_count"])

	// Без одобренного профиля откликнуться нельзя
	w = a.do(t, http.MethodPost, api+"/applications", candidateToken, map[string]any{"job_id": jobID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, api+"/profile", candidateToken, map[string]any{
		"full_name": "Jane Doe",
		"skills":    []string{"go", "sql"},
		"education": []map[string]any{{"degree_qualification": "BSc"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodGet, api+"/auth/me", candidateToken, nil)
	candidateID := decode(t, w)["id"].(string)

	// Одобрять может только админ
	w = a.do(t, http.MethodPut, api+"/admin/profile/"+candidateID+"/status", employerToken, map[string]any{"is_approved": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodPut, api+"/admin/profile/"+candidateID+"/status", adminToken, map[string]any{"is_approved": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, api+"/applications", candidateToken, map[string]any{"job_id": jobID, "cover_letter": "hi"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	appID := decode(t, w)["id"].(string)

	w = a.do(t, http.MethodPost, api+"/applications", candidateToken, map[string]any{"job_id": jobID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, http.MethodGet, api+"/applications/jobs/"+jobID, employerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = a.do(t, http.MethodPut, api+"/applications/"+appID+"/status", employerToken, map[string]any{"application_status": "shortlisted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "shortlisted", decode(t, w)["application_status"])

	w = a.do(t, http.MethodPut, api+"/applications/"+appID+"/status", employerToken, map[string]any{"application_status": "promoted"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Уведомления: вакансия, одобрение профиля, смена статуса
	w = a.do(t, http.MethodGet, api+"/notifications?is_read=false", candidateToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	notifications := decode(t, w)
	assert.EqualValues(t, 3, notifications["unread_count"])
	items := notifications["items"].([]any)
	require.NotEmpty(t, items)

	w = a.do(t, http.MethodPut, api+"/notifications/read-all", candidateToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode(t, w)["updated_count"])

	// Отозвать отклик может только автор
	w = a.do(t, http.MethodDelete, api+"/applications/"+appID, employerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(t, http.MethodDelete, api+"/applications/"+appID, candidateToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Дашборд
	w = a.do(t, http.MethodGet, api+"/jobs/admin/dashboard", employerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(t, http.MethodGet, api+"/jobs/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dashboard := decode(t, w)["dashboard_data"].(map[string]any)
	assert.EqualValues(t, 1, dashboard["active_jobs"])

	// Удаление вакансии скрывает ее из публичного API
	w = a.do(t, http.MethodDelete, api+"/jobs/"+jobID, employerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(t, http.MethodGet, api+"/jobs/"+jobID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Админ не может удалить сам себя
	w = a.do(t, http.MethodDelete, api+"/users/"+admin.ID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_AdminPostsJobs(t *testing.T) {
	a := newTestApp(t)

	testutil.CreateUser(t, a.db, testutil.UserOpts{Email: "admin@jobs.io", Role: models.UserRoleAdmin})
	adminToken := a.login(t, "admin@jobs.io", "password123")
	employerToken := a.signUp(t, "hr", "hr@acme.com", "employer")

	w := a.do(t, http.MethodPost, api+"/jobs", adminToken, map[string]any{"job_title": "Data Analyst", "company_name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	adminJobID := decode(t, w)["id"].(string)

	w = a.do(t, http.MethodGet, api+"/jobs/my-jobs", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = a.do(t, http.MethodGet, api+"/applications/jobs/"+adminJobID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Админ управляет и чужими вакансиями
	w = a.do(t, http.MethodPost, api+"/jobs", employerToken, map[string]any{"job_title": "Backend Engineer", "company_name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	employerJobID := decode(t, w)["id"].(string)

	w = a.do(t, http.MethodPut, api+"/jobs/"+employerJobID, adminToken, map[string]any{"job_title": "Senior Backend Engineer"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Senior Backend Engineer", decode(t, w)["job_title"])

	// Работодатель чужую вакансию не трогает
	w = a.do(t, http.MethodDelete, api+"/jobs/"+adminJobID, employerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodDelete, api+"/jobs/"+employerJobID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CompaniesAndAlerts(t *testing.T) {
	a := newTestApp(t)

	testutil.CreateUser(t, a.db, testutil.UserOpts{Email: "admin@jobs.io", Role: models.UserRoleAdmin})
	adminToken := a.login(t, "admin@jobs.io", "password123")
	candidateToken := a.signUp(t, "jane", "jane@mail.com", "candidate")

	w := a.do(t, http.MethodPost, api+"/companies", candidateToken, map[string]any{"name": "Acme"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodPost, api+"/companies", adminToken, map[string]any{"name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	companyID := decode(t, w)["id"].(string)

	w = a.do(t, http.MethodGet, api+"/companies", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = a.do(t, http.MethodGet, api+"/companies/"+companyID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	employer := testutil.CreateUser(t, a.db, testutil.UserOpts{Role: models.UserRoleEmployer})
	testutil.CreateJob(t, a.db, employer.ID, func(j *models.Job) { j.JobTitle = "Senior Go Developer"; j.City = "Almaty" })
	testutil.CreateJob(t, a.db, employer.ID, func(j *models.Job) { j.JobTitle = "Accountant" })

	w = a.do(t, http.MethodPost, api+"/job-alerts", candidateToken, map[string]any{
		"name":     "Go jobs",
		"keywords": []string{"go"},
		"location": "Almaty",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	alertID := decode(t, w)["id"].(string)

	w = a.do(t, http.MethodGet, api+"/job-alerts/"+alertID+"/matches", candidateToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decode(t, w)["total"])

	// Чужая подписка не видна
	w = a.do(t, http.MethodGet, api+"/job-alerts/"+alertID+"/matches", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodGet, api+"/job-alerts", candidateToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = a.do(t, http.MethodDelete, api+"/job-alerts/"+alertID, candidateToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodDelete, api+"/companies/"+companyID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
