package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/internlog/server/internal/api/problem"
	"github.com/internlog/server/internal/auth"
	"github.com/internlog/server/internal/domain/applications"
	"github.com/internlog/server/internal/domain/internships"
	"github.com/internlog/server/internal/domain/logbooks"
	"github.com/internlog/server/internal/domain/users"
	"github.com/internlog/server/internal/storage"
	"github.com/internlog/server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testEnv = "test"

var (
	student = auth.Identity{ID: 7, Email: "s@x.com", Role: auth.RoleStudent}
	faculty = auth.Identity{ID: 9, Email: "f@x.com", Role: auth.RoleFaculty}
	admin   = auth.Identity{ID: 1, Email: "root@x.com", Role: auth.RoleAdmin}
)

// MockUsersService is a mock implementation of UsersService
type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) Register(ctx context.Context, params users.RegisterParams) (*users.AuthResult, error) {
	args := m.Called(ctx, params)
	res, _ := args.Get(0).(*users.AuthResult)
	return res, args.Error(1)
}

func (m *MockUsersService) Login(ctx context.Context, email, password string) (*users.AuthResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*users.AuthResult)
	return res, args.Error(1)
}

func (m *MockUsersService) List(ctx context.Context, caller auth.Identity) ([]users.User, error) {
	args := m.Called(ctx, caller)
	res, _ := args.Get(0).([]users.User)
	return res, args.Error(1)
}

type MockInternshipsService struct {
	mock.Mock
}

func (m *MockInternshipsService) List(ctx context.Context) ([]internships.Internship, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]internships.Internship)
	return res, args.Error(1)
}

func (m *MockInternshipsService) Get(ctx context.Context, id int64) (*internships.Internship, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*internships.Internship)
	return res, args.Error(1)
}

func (m *MockInternshipsService) Post(ctx context.Context, caller auth.Identity, params internships.PostParams) (*internships.Internship, error) {
	args := m.Called(ctx, caller, params)
	res, _ := args.Get(0).(*internships.Internship)
	return res, args.Error(1)
}

type MockApplicationsService struct {
	mock.Mock
}

func (m *MockApplicationsService) Apply(ctx context.Context, caller auth.Identity, params applications.ApplyParams) (*applications.Application, error) {
	args := m.Called(ctx, caller, params)
	res, _ := args.Get(0).(*applications.Application)
	return res, args.Error(1)
}

func (m *MockApplicationsService) ListMine(ctx context.Context, caller auth.Identity) ([]applications.StudentApplication, error) {
	args := m.Called(ctx, caller)
	res, _ := args.Get(0).([]applications.StudentApplication)
	return res, args.Error(1)
}

type MockLogbooksService struct {
	mock.Mock
}

func (m *MockLogbooksService) Create(ctx context.Context, caller auth.Identity, params logbooks.CreateParams) (*logbooks.Entry, error) {
	args := m.Called(ctx, caller, params)
	res, _ := args.Get(0).(*logbooks.Entry)
	return res, args.Error(1)
}

func (m *MockLogbooksService) ListForInternship(ctx context.Context, caller auth.Identity, internshipID int64) ([]logbooks.Entry, error) {
	args := m.Called(ctx, caller, internshipID)
	res, _ := args.Get(0).([]logbooks.Entry)
	return res, args.Error(1)
}

func (m *MockLogbooksService) Approve(ctx context.Context, caller auth.Identity, entryID int64) error {
	args := m.Called(ctx, caller, entryID)
	return args.Error(0)
}

// newRequest builds a request carrying identity the way middleware.Authenticate would.
func newRequest(method, target, body string, identity *auth.Identity) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if identity != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), *identity))
	}
	return req
}

// serve routes the request through a mux so path values are populated.
func serve(pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) problem.ProblemDetails {
	t.Helper()
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	var p problem.ProblemDetails
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	return p
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized, problem.CodeMissingToken},
		{"invalid token", fmt.Errorf("post: %w", auth.ErrInvalidToken), http.StatusUnauthorized, problem.CodeInvalidToken},
		{"forbidden", auth.ErrForbidden, http.StatusForbidden, problem.CodeForbidden},
		{"validation", validation.Field("email", "is required"), http.StatusBadRequest, problem.CodeValidation},
		{"duplicate email", users.ErrEmailTaken, http.StatusBadRequest, problem.CodeDuplicateEmail},
		{"invalid credentials", users.ErrInvalidCredentials, http.StatusBadRequest, problem.CodeInvalidCredentials},
		{"already applied", applications.ErrAlreadyApplied, http.StatusConflict, problem.CodeAlreadyApplied},
		{"internship missing", internships.ErrNotFound, http.StatusNotFound, problem.CodeNotFound},
		{"apply target missing", applications.ErrInternshipNotFound, http.StatusNotFound, problem.CodeNotFound},
		{"entry missing", logbooks.ErrEntryNotFound, http.StatusNotFound, problem.CodeNotFound},
		{"storage not found", fmt.Errorf("get: %w", storage.ErrNotFound), http.StatusNotFound, problem.CodeNotFound},
		{"opaque", errors.New("connection reset"), http.StatusInternalServerError, problem.CodeStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := classifyError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestWriteError_HidesInternalsOutsideDevelopment(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/internships", nil)
	w := httptest.NewRecorder()

	writeError(w, req, errors.New("dial tcp 10.0.0.5:5432: connection refused"), "production")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, problem.CodeStorage, p.Code)
	assert.NotContains(t, p.Detail, "10.0.0.5")
}

func TestDecodeJSON(t *testing.T) {
	t.Run("empty body decodes as empty object", func(t *testing.T) {
		var dst users.RegisterParams
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		assert.NoError(t, decodeJSON(req, &dst))
	})

	t.Run("malformed body", func(t *testing.T) {
		var dst users.RegisterParams
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
		err := decodeJSON(req, &dst)
		assert.ErrorIs(t, err, validation.ErrInvalid)
		assert.Contains(t, validation.Fields(err), "body")
	})

	t.Run("wrong field type", func(t *testing.T) {
		var dst applications.ApplyParams
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"internship_id":"five"}`))
		err := decodeJSON(req, &dst)
		assert.ErrorIs(t, err, validation.ErrInvalid)
		assert.Contains(t, validation.Fields(err), "internship_id")
	})
}

func TestUsersHandler_Register(t *testing.T) {
	svc := new(MockUsersService)
	h := NewUsersHandler(svc, testEnv)

	params := users.RegisterParams{Name: "Ana", Email: "a@x.com", Password: "pw1", Role: "student"}
	result := &users.AuthResult{
		User:  users.User{ID: 1, Name: "Ana", Email: "a@x.com", Role: auth.RoleStudent, CreatedAt: time.Now().UTC()},
		Token: "signed.jwt.token",
	}
	svc.On("Register", mock.Anything, params).Return(result, nil).Once()

	body, err := json.Marshal(params)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	h.Register(w, newRequest(http.MethodPost, "/api/register", string(body), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "signed.jwt.token", got["token"])
	user := got["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "student", user["role"])
	assert.NotContains(t, user, "password_hash")
	svc.AssertExpectations(t)
}

func TestUsersHandler_RegisterDuplicate(t *testing.T) {
	svc := new(MockUsersService)
	h := NewUsersHandler(svc, testEnv)
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, users.ErrEmailTaken)

	w := httptest.NewRecorder()
	h.Register(w, newRequest(http.MethodPost, "/api/register", `{"email":"a@x.com","password":"pw","role":"student"}`, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, problem.CodeDuplicateEmail, decodeProblem(t, w).Code)
}

func TestUsersHandler_RegisterValidationErrors(t *testing.T) {
	svc := new(MockUsersService)
	h := NewUsersHandler(svc, testEnv)
	svc.On("Register", mock.Anything, mock.Anything).
		Return(nil, &validation.Error{Fields: map[string]string{"email": "is required", "role": "is required"}})

	w := httptest.NewRecorder()
	h.Register(w, newRequest(http.MethodPost, "/api/register", `{}`, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, problem.CodeValidation, p.Code)
	assert.Equal(t, "is required", p.Errors["email"])
	assert.Equal(t, "is required", p.Errors["role"])
}

func TestUsersHandler_RegisterMalformedBody(t *testing.T) {
	svc := new(MockUsersService)
	h := NewUsersHandler(svc, testEnv)

	w := httptest.NewRecorder()
	h.Register(w, newRequest(http.MethodPost, "/api/register", `{"email":`, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, problem.CodeValidation, decodeProblem(t, w).Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestUsersHandler_LoginFailuresAreIdentical(t *testing.T) {
	svc := new(MockUsersService)
	h := NewUsersHandler(svc, testEnv)
	svc.On("Login", mock.Anything, "nobody@x.com", "pw").Return(nil, users.ErrInvalidCredentials)
	svc.On("Login", mock.Anything, "a@x.com", "wrong").Return(nil, users.ErrInvalidCredentials)

	unknown := httptest.NewRecorder()
	h.Login(unknown, newRequest(http.MethodPost, "/api/login", `{"email":"nobody@x.com","password":"pw"}`, nil))
	wrong := httptest.NewRecorder()
	h.Login(wrong, newRequest(http.MethodPost, "/api/login", `{"email":"a@x.com","password":"wrong"}`, nil))

	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.Contains(t, unknown.Body.String(), problem.CodeInvalidCredentials)
}

func TestUsersHandler_Login(t *testing.T) {
	svc := new(MockUsersService)
	h := NewUsersHandler(svc, testEnv)
	svc.On("Login", mock.Anything, "a@x.com", "pw1").
		Return(&users.AuthResult{User: users.User{ID: 3, Email: "a@x.com", Role: auth.RoleFaculty}, Token: "t"}, nil)

	w := httptest.NewRecorder()
	h.Login(w, newRequest(http.MethodPost, "/api/login", `{"email":"a@x.com","password":"pw1"}`, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var got users.AuthResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "t", got.Token)
	assert.Equal(t, auth.RoleFaculty, got.User.Role)
}

func TestUsersHandler_List(t *testing.T) {
	svc := new(MockUsersService)
	h := NewUsersHandler(svc, testEnv)
	svc.On("List", mock.Anything, admin).Return([]users.User{{ID: 1, Email: "root@x.com", Role: auth.RoleAdmin}}, nil)
	svc.On("List", mock.Anything, student).Return(nil, auth.ErrForbidden)

	w := httptest.NewRecorder()
	h.List(w, newRequest(http.MethodGet, "/api/users", "", &admin))
	assert.Equal(t, http.StatusOK, w.Code)
	var got []users.User
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Len(t, got, 1)

	w = httptest.NewRecorder()
	h.List(w, newRequest(http.MethodGet, "/api/users", "", &student))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, problem.CodeForbidden, decodeProblem(t, w).Code)
}

func TestUsersHandler_ListWithoutIdentity(t *testing.T) {
	svc := new(MockUsersService)
	h := NewUsersHandler(svc, testEnv)

	w := httptest.NewRecorder()
	h.List(w, newRequest(http.MethodGet, "/api/users", "", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, problem.CodeMissingToken, decodeProblem(t, w).Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestInternshipsHandler_List(t *testing.T) {
	svc := new(MockInternshipsService)
	h := NewInternshipsHandler(svc, testEnv)
	svc.On("List", mock.Anything).Return([]internships.Internship{{ID: 2, Title: "B"}, {ID: 1, Title: "A"}}, nil)

	w := httptest.NewRecorder()
	h.List(w, newRequest(http.MethodGet, "/api/internships", "", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var got []internships.Internship
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestInternshipsHandler_ListEmptyIsArray(t *testing.T) {
	svc := new(MockInternshipsService)
	h := NewInternshipsHandler(svc, testEnv)
	svc.On("List", mock.Anything).Return([]internships.Internship{}, nil)

	w := httptest.NewRecorder()
	h.List(w, newRequest(http.MethodGet, "/api/internships", "", nil))

	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestInternshipsHandler_Get(t *testing.T) {
	svc := new(MockInternshipsService)
	h := NewInternshipsHandler(svc, testEnv)
	svc.On("Get", mock.Anything, int64(4)).Return(&internships.Internship{ID: 4, Title: "Backend"}, nil)
	svc.On("Get", mock.Anything, int64(5)).Return(nil, internships.ErrNotFound)

	w := serve("GET /api/internships/{id}", h.Get, newRequest(http.MethodGet, "/api/internships/4", "", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve("GET /api/internships/{id}", h.Get, newRequest(http.MethodGet, "/api/internships/5", "", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve("GET /api/internships/{id}", h.Get, newRequest(http.MethodGet, "/api/internships/abc", "", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertNumberOfCalls(t, "Get", 2)
}

func TestInternshipsHandler_Post(t *testing.T) {
	svc := new(MockInternshipsService)
	h := NewInternshipsHandler(svc, testEnv)
	industry := auth.Identity{ID: 2, Email: "hr@acme.com", Role: auth.RoleIndustry}

	params := internships.PostParams{Title: "Backend intern", Company: "Acme", Credits: 4}
	svc.On("Post", mock.Anything, industry, params).
		Return(&internships.Internship{ID: 10, Title: "Backend intern", Company: "Acme", Credits: 4, PostedBy: 2}, nil)
	svc.On("Post", mock.Anything, student, mock.Anything).Return(nil, auth.ErrForbidden)

	body := `{"title":"Backend intern","company":"Acme","credits":4}`
	w := httptest.NewRecorder()
	h.Post(w, newRequest(http.MethodPost, "/api/internships", body, &industry))
	assert.Equal(t, http.StatusOK, w.Code)
	var got internships.Internship
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, int64(2), got.PostedBy)

	w = httptest.NewRecorder()
	h.Post(w, newRequest(http.MethodPost, "/api/internships", body, &student))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApplicationsHandler_Apply(t *testing.T) {
	svc := new(MockApplicationsService)
	h := NewApplicationsHandler(svc, testEnv)

	svc.On("Apply", mock.Anything, student, applications.ApplyParams{InternshipID: 3}).
		Return(&applications.Application{ID: 1, StudentID: 7, InternshipID: 3, Status: applications.StatusApplied}, nil).Once()
	svc.On("Apply", mock.Anything, student, applications.ApplyParams{InternshipID: 3}).
		Return(nil, applications.ErrAlreadyApplied).Once()
	svc.On("Apply", mock.Anything, student, applications.ApplyParams{InternshipID: 99}).
		Return(nil, applications.ErrInternshipNotFound)

	w := httptest.NewRecorder()
	h.Apply(w, newRequest(http.MethodPost, "/api/apply", `{"internship_id":3}`, &student))
	assert.Equal(t, http.StatusOK, w.Code)
	var got applications.Application
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, applications.StatusApplied, got.Status)

	w = httptest.NewRecorder()
	h.Apply(w, newRequest(http.MethodPost, "/api/apply", `{"internship_id":3}`, &student))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, problem.CodeAlreadyApplied, decodeProblem(t, w).Code)

	w = httptest.NewRecorder()
	h.Apply(w, newRequest(http.MethodPost, "/api/apply", `{"internship_id":99}`, &student))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplicationsHandler_ListMine(t *testing.T) {
	svc := new(MockApplicationsService)
	h := NewApplicationsHandler(svc, testEnv)
	svc.On("ListMine", mock.Anything, student).Return([]applications.StudentApplication{{
		Application: applications.Application{ID: 1, StudentID: 7, InternshipID: 3, Status: applications.StatusApplied},
		Title:       "Backend intern",
		Company:     "Acme",
	}}, nil)
	svc.On("ListMine", mock.Anything, faculty).Return(nil, auth.ErrForbidden)

	w := httptest.NewRecorder()
	h.ListMine(w, newRequest(http.MethodGet, "/api/my-applications", "", &student))
	assert.Equal(t, http.StatusOK, w.Code)
	var got []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Backend intern", got[0]["title"])
	assert.Equal(t, "Acme", got[0]["company"])
	assert.Equal(t, "applied", got[0]["status"])

	w = httptest.NewRecorder()
	h.ListMine(w, newRequest(http.MethodGet, "/api/my-applications", "", &faculty))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogbooksHandler_Create(t *testing.T) {
	svc := new(MockLogbooksService)
	h := NewLogbooksHandler(svc, testEnv)
	params := logbooks.CreateParams{InternshipID: 3, EntryDate: "2024-03-09", Content: "Wrote tests"}
	svc.On("Create", mock.Anything, student, params).
		Return(&logbooks.Entry{ID: 5, StudentID: 7, InternshipID: 3, EntryDate: "2024-03-09", Content: "Wrote tests"}, nil)

	w := httptest.NewRecorder()
	h.Create(w, newRequest(http.MethodPost, "/api/logbook", `{"internship_id":3,"entry_date":"2024-03-09","content":"Wrote tests"}`, &student))

	assert.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "2024-03-09", got["entry_date"])
	assert.Equal(t, false, got["faculty_approved"])
}

func TestLogbooksHandler_List(t *testing.T) {
	svc := new(MockLogbooksService)
	h := NewLogbooksHandler(svc, testEnv)
	svc.On("ListForInternship", mock.Anything, faculty, int64(3)).
		Return([]logbooks.Entry{{ID: 1, StudentID: 7, InternshipID: 3, StudentName: "Ana"}}, nil)

	w := serve("GET /api/logbooks/{internshipId}", h.List, newRequest(http.MethodGet, "/api/logbooks/3", "", &faculty))
	assert.Equal(t, http.StatusOK, w.Code)
	var got []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0]["student_name"])

	w = serve("GET /api/logbooks/{internshipId}", h.List, newRequest(http.MethodGet, "/api/logbooks/x", "", &faculty))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogbooksHandler_Approve(t *testing.T) {
	svc := new(MockLogbooksService)
	h := NewLogbooksHandler(svc, testEnv)
	svc.On("Approve", mock.Anything, faculty, int64(5)).Return(nil)
	svc.On("Approve", mock.Anything, faculty, int64(6)).Return(logbooks.ErrEntryNotFound)
	svc.On("Approve", mock.Anything, student, int64(5)).Return(auth.ErrForbidden)

	const pattern = "POST /api/logbooks/{id}/approve"

	for i := 0; i < 2; i++ {
		w := serve(pattern, h.Approve, newRequest(http.MethodPost, "/api/logbooks/5/approve", "", &faculty))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	}

	w := serve(pattern, h.Approve, newRequest(http.MethodPost, "/api/logbooks/6/approve", "", &faculty))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(pattern, h.Approve, newRequest(http.MethodPost, "/api/logbooks/5/approve", "", &student))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(pattern, h.Approve, newRequest(http.MethodPost, "/api/logbooks/0/approve", "", &faculty))
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertNumberOfCalls(t, "Approve", 4)
}

func TestRequestBodyLimitIsValidationError(t *testing.T) {
	svc := new(MockUsersService)
	h := NewUsersHandler(svc, testEnv)

	big := bytes.Repeat([]byte("a"), 64)
	req := newRequest(http.MethodPost, "/api/register", `{"name":"`+string(big)+`"}`, nil)
	w := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(w, req.Body, 16)
	h.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, "is too large", p.Errors["body"])
}
