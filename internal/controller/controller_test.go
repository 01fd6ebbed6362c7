package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"aptigenius-backend/internal/db/dbtest"
	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/repository"
	"aptigenius-backend/internal/service"
	"aptigenius-backend/utilities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	auth   service.AuthService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gdb := dbtest.New(t)
	users := repository.NewUserRepository(gdb)
	questions := repository.NewQuestionRepository(gdb)
	results := repository.NewResultRepository(gdb)
	events := utilities.NewEventBus()
	t.Cleanup(events.Wait)

	tokens := utilities.NewTokenManager("access", "refresh", time.Hour, 24*time.Hour)
	authService := service.NewAuthService(users, tokens)

	r := gin.New()
	settings := model.TestSettings{DurationSeconds: 1800, DefaultLimit: 10, MaxLimit: 20}
	RegisterRoutes(r, tokens, users, nil, settings,
		authService,
		service.NewUserService(users, events),
		service.NewQuestionService(questions, 10, 20),
		service.NewResultService(results, questions, users, events),
		service.NewReportService(users, results),
	)
	return &testAPI{t: t, router: r, auth: authService}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) signup(email string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"firstName": "Test", "lastName": "User", "email": email, "password": "secret1",
	})
	if w.Code != http.StatusCreated {
		a.t.Fatalf("signup %s: %d %s", email, w.Code, w.Body)
	}
	var res service.AuthResult
	decode(a.t, w, &res)
	return res.Token
}

func (a *testAPI) admin() string {
	a.t.Helper()
	in := service.SignupInput{FirstName: "Ada", Email: "admin@example.com", Password: "adminpw"}
	if _, err := a.auth.CreateAdmin(in); err != nil {
		a.t.Fatal(err)
	}
	res, err := a.auth.Login(in.Email, in.Password)
	if err != nil {
		a.t.Fatal(err)
	}
	return res.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %s: %v", w.Body, err)
	}
}

func question(text string, cat model.Category, diff model.Difficulty) gin.H {
	return gin.H{
		"questionText":  text,
		"options":       []string{"a", "b", "c", "d"},
		"correctAnswer": 1,
		"category":      cat,
		"difficulty":    diff,
	}
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	if w := api.do(http.MethodGet, "/api/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("health = %d", w.Code)
	}
}

func TestConfigEndpoint(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/api/config", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("config = %d", w.Code)
	}
	var got model.TestSettings
	decode(t, w, &got)
	if got.DurationSeconds != 1800 || got.DefaultLimit != 10 || got.MaxLimit != 20 {
		t.Errorf("settings = %+v", got)
	}
}

func TestSignupLoginMe(t *testing.T) {
	api := newTestAPI(t)
	api.signup("Student@Example.com")

	w := api.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"firstName": "Dup", "email": "student@example.com", "password": "secret1",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate signup = %d", w.Code)
	}

	w = api.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "student@example.com", "password": "wrong!"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password = %d", w.Code)
	}

	w = api.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "student@example.com", "password": "secret1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d %s", w.Code, w.Body)
	}
	var res service.AuthResult
	decode(t, w, &res)
	if res.User.Role != model.RoleStudent || res.RefreshToken == "" {
		t.Errorf("login result = %+v", res)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("password hash leaked in response")
	}

	w = api.do(http.MethodGet, "/api/auth/me", res.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me = %d", w.Code)
	}

	w = api.do(http.MethodPost, "/api/auth/refresh", "", gin.H{"refreshToken": res.RefreshToken})
	if w.Code != http.StatusOK {
		t.Errorf("refresh = %d %s", w.Code, w.Body)
	}
	w = api.do(http.MethodPost, "/api/auth/refresh", "", gin.H{"refreshToken": res.Token})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh with access token = %d", w.Code)
	}
}

func TestSignupValidationMessages(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodPost, "/api/auth/signup", "", gin.H{"email": "nope", "password": "123"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	for _, want := range []string{"firstName is required", "email must be a valid email", "password must be at least 6"} {
		if !strings.Contains(body["error"], want) {
			t.Errorf("error %q missing %q", body["error"], want)
		}
	}
}

func TestAuthAndRoleGuards(t *testing.T) {
	api := newTestAPI(t)
	student := api.signup("s@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/results/my-results", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/questions/random", "garbage", http.StatusUnauthorized},
		{"student lists users", http.MethodGet, "/api/auth/users", student, http.StatusForbidden},
		{"student deletes missing question", http.MethodDelete, "/api/questions/nope", student, http.StatusForbidden},
		{"student reads overview", http.MethodGet, "/api/results/overview", student, http.StatusForbidden},
		{"student reads all results", http.MethodGet, "/api/results/all", student, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := api.do(tt.method, tt.path, tt.token, nil); w.Code != tt.want {
				t.Errorf("code = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestQuestionLifecycle(t *testing.T) {
	api := newTestAPI(t)
	admin := api.admin()
	student := api.signup("s@example.com")

	w := api.do(http.MethodPost, "/api/questions", admin, question("2+2?", model.CategoryQuantitative, model.DifficultyEasy))
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", w.Code, w.Body)
	}
	var created model.Question
	decode(t, w, &created)

	bad := question("three options", model.CategoryLogical, model.DifficultyEasy)
	bad["options"] = []string{"a", "b", "c"}
	if w := api.do(http.MethodPost, "/api/questions", admin, bad); w.Code != http.StatusBadRequest {
		t.Errorf("three options = %d", w.Code)
	}

	upd := question("2+3?", model.CategoryQuantitative, model.DifficultyMedium)
	w = api.do(http.MethodPut, "/api/questions/"+created.ID, admin, upd)
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d %s", w.Code, w.Body)
	}
	var updated model.Question
	decode(t, w, &updated)
	if updated.QuestionText != "2+3?" || updated.Difficulty != model.DifficultyMedium {
		t.Errorf("updated = %+v", updated)
	}

	w = api.do(http.MethodGet, "/api/questions/random?category=Quantitative&limit=5", student, nil)
	var sampled []model.Question
	decode(t, w, &sampled)
	if len(sampled) != 1 || sampled[0].ID != created.ID {
		t.Errorf("sampled = %+v", sampled)
	}

	w = api.do(http.MethodGet, "/api/questions/random?category=Verbal", student, nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("no match = %d %s", w.Code, w.Body)
	}

	if w := api.do(http.MethodGet, "/api/questions/random?category=Art", student, nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown category = %d", w.Code)
	}
	if w := api.do(http.MethodGet, "/api/questions/random?limit=ten", student, nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit = %d", w.Code)
	}

	if w := api.do(http.MethodDelete, "/api/questions/"+created.ID, admin, nil); w.Code != http.StatusOK {
		t.Errorf("delete = %d", w.Code)
	}
	if w := api.do(http.MethodDelete, "/api/questions/"+created.ID, admin, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d", w.Code)
	}
}

func TestResultsFlow(t *testing.T) {
	api := newTestAPI(t)
	admin := api.admin()
	student := api.signup("s@example.com")
	other := api.signup("o@example.com")

	w := api.do(http.MethodPost, "/api/results/submit", student, gin.H{
		"score": 80, "totalQuestions": 5, "correctAnswers": 4,
		"category": "Logical", "difficulty": "Medium",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit = %d %s", w.Code, w.Body)
	}
	var result model.Result
	decode(t, w, &result)
	if result.Accuracy != 80 {
		t.Errorf("accuracy = %v", result.Accuracy)
	}

	w = api.do(http.MethodPost, "/api/results/submit", student, gin.H{
		"score": 50, "totalQuestions": 2, "correctAnswers": 3,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("correct > total = %d", w.Code)
	}
	w = api.do(http.MethodPost, "/api/results/submit", student, gin.H{"totalQuestions": 2, "correctAnswers": 1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing score = %d", w.Code)
	}

	w = api.do(http.MethodGet, "/api/results/stats", student, nil)
	var stats model.Stats
	decode(t, w, &stats)
	if stats.TotalTests != 1 || stats.AvgScore != 80 || stats.LatestScore != 80 {
		t.Errorf("stats = %+v", stats)
	}

	w = api.do(http.MethodGet, "/api/results/stats", other, nil)
	decode(t, w, &stats)
	if stats != (model.Stats{}) {
		t.Errorf("empty stats = %+v", stats)
	}

	if w := api.do(http.MethodGet, "/api/results/"+result.ID, student, nil); w.Code != http.StatusOK {
		t.Errorf("own result = %d", w.Code)
	}
	if w := api.do(http.MethodGet, "/api/results/"+result.ID, other, nil); w.Code != http.StatusNotFound {
		t.Errorf("foreign result = %d", w.Code)
	}

	w = api.do(http.MethodGet, "/api/results/report", student, nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("report = %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("report is not a pdf")
	}

	w = api.do(http.MethodGet, "/api/results/all", admin, nil)
	var all []model.ResultWithUser
	decode(t, w, &all)
	if len(all) != 1 || all[0].User == nil || all[0].User.Email != "s@example.com" {
		t.Errorf("all results = %+v", all)
	}

	w = api.do(http.MethodGet, "/api/results/overview", admin, nil)
	var overview model.Overview
	decode(t, w, &overview)
	if overview.TotalStudents != 2 || overview.TotalResults != 1 {
		t.Errorf("overview = %+v", overview)
	}
}

func TestAdminDeletesUser(t *testing.T) {
	api := newTestAPI(t)
	admin := api.admin()
	api.signup("s@example.com")

	w := api.do(http.MethodGet, "/api/auth/users", admin, nil)
	var users []model.User
	decode(t, w, &users)
	var target string
	for _, u := range users {
		if u.Email == "s@example.com" {
			target = u.ID
		}
	}
	if target == "" {
		t.Fatalf("student not listed: %+v", users)
	}

	if w := api.do(http.MethodDelete, "/api/auth/users/"+target, admin, nil); w.Code != http.StatusOK {
		t.Errorf("delete = %d", w.Code)
	}
	if w := api.do(http.MethodDelete, "/api/auth/users/"+target, admin, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d", w.Code)
	}
}

func TestDeletedUserTokenRejected(t *testing.T) {
	api := newTestAPI(t)
	admin := api.admin()
	student := api.signup("s@example.com")

	w := api.do(http.MethodGet, "/api/auth/me", student, nil)
	var me model.User
	decode(t, w, &me)
	if w := api.do(http.MethodDelete, "/api/auth/users/"+me.ID, admin, nil); w.Code != http.StatusOK {
		t.Fatalf("delete = %d", w.Code)
	}

	submit := gin.H{"score": 100, "totalQuestions": 1, "correctAnswers": 1}
	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{"me", http.MethodGet, "/api/auth/me", nil},
		{"sample", http.MethodGet, "/api/questions/random", nil},
		{"submit", http.MethodPost, "/api/results/submit", submit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := api.do(tt.method, tt.path, student, tt.body); w.Code != http.StatusUnauthorized {
				t.Errorf("code = %d, want 401 (%s)", w.Code, w.Body)
			}
		})
	}

	w = api.do(http.MethodGet, "/api/results/overview", admin, nil)
	var overview model.Overview
	decode(t, w, &overview)
	if overview.TotalResults != 0 {
		t.Errorf("deleted user stored %d results", overview.TotalResults)
	}
}
