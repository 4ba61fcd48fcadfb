package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tasktracker/internal/handler"
	"tasktracker/internal/model"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload"`
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	return env
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func setupAuthTest(userID, sessionID uuid.UUID) (*gin.Engine, *MockAuthService) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockAuth := new(MockAuthService)
	authHandler := handler.NewAuthHandler(mockAuth)

	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)
	r.POST("/logout-anonymous", authHandler.Logout)

	authed := r.Group("/", withIdentity(userID, sessionID))
	authed.POST("/logout", authHandler.Logout)
	authed.GET("/users", authHandler.ListUsers)
	authed.POST("/create", authHandler.CreateAdmin)

	return r, mockAuth
}

func TestSignup_Success(t *testing.T) {
	router, mockAuth := setupAuthTest(uuid.New(), uuid.New())
	user := &model.User{ID: uuid.New(), Username: "alice", PasswordHash: "secret-hash", Role: model.RoleUser}
	mockAuth.On("Signup", mock.Anything, "alice", "password123").Return(user, nil)

	resp := doJSON(router, http.MethodPost, "/signup", handler.CredentialsRequest{Username: "alice", Password: "password123"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	env := decodeEnvelope(t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, "User created successfully", env.Message)

	var view handler.UserView
	require.NoError(t, json.Unmarshal(env.Payload, &view))
	assert.Equal(t, user.ID, view.ID)
	assert.Equal(t, "alice", view.Username)
	assert.NotContains(t, resp.Body.String(), "secret-hash")
}

func TestSignup_MissingFields(t *testing.T) {
	router, mockAuth := setupAuthTest(uuid.New(), uuid.New())

	resp := doJSON(router, http.MethodPost, "/signup", map[string]string{"username": "alice"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.False(t, decodeEnvelope(t, resp).Success)
	mockAuth.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignup_UserAlreadyExists(t *testing.T) {
	router, mockAuth := setupAuthTest(uuid.New(), uuid.New())
	mockAuth.On("Signup", mock.Anything, "alice", "password123").Return(nil, service.ErrUserAlreadyExists)

	resp := doJSON(router, http.MethodPost, "/signup", handler.CredentialsRequest{Username: "alice", Password: "password123"})

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "User already exists", decodeEnvelope(t, resp).Message)
}

func TestLogin_Success(t *testing.T) {
	router, mockAuth := setupAuthTest(uuid.New(), uuid.New())
	mockAuth.On("Login", mock.Anything, "alice", "password123").Return("signed-token", nil)

	resp := doJSON(router, http.MethodPost, "/login", handler.CredentialsRequest{Username: "alice", Password: "password123"})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"success":true,"message":"Login successful","payload":{"token":"signed-token"}}`, resp.Body.String())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router, mockAuth := setupAuthTest(uuid.New(), uuid.New())
	mockAuth.On("Login", mock.Anything, "alice", "wrong").Return("", service.ErrInvalidCredentials)

	resp := doJSON(router, http.MethodPost, "/login", handler.CredentialsRequest{Username: "alice", Password: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid credentials","payload":null}`, resp.Body.String())
}

func TestLogin_MalformedBody(t *testing.T) {
	router, _ := setupAuthTest(uuid.New(), uuid.New())

	resp := doJSON(router, http.MethodPost, "/login", "not-an-object")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Invalid credentials", decodeEnvelope(t, resp).Message)
}

func TestLogout_Success(t *testing.T) {
	userID, sessionID := uuid.New(), uuid.New()
	router, mockAuth := setupAuthTest(userID, sessionID)
	mockAuth.On("Logout", mock.Anything, userID, sessionID).Return(nil)

	resp := doJSON(router, http.MethodPost, "/logout", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Logged out successfully", decodeEnvelope(t, resp).Message)
	mockAuth.AssertExpectations(t)
}

func TestLogout_WithoutIdentity(t *testing.T) {
	router, mockAuth := setupAuthTest(uuid.New(), uuid.New())

	resp := doJSON(router, http.MethodPost, "/logout-anonymous", nil)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockAuth.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything, mock.Anything)
}

func TestListUsers_Pagination(t *testing.T) {
	router, mockAuth := setupAuthTest(uuid.New(), uuid.New())
	bob := model.UserSummary{ID: uuid.New(), Username: "bob"}
	mockAuth.On("ListUsers", mock.Anything, model.Page{Number: 2, Limit: 5}, "bo").
		Return([]model.UserSummary{bob}, int64(12), nil)

	resp := doJSON(router, http.MethodGet, "/users?page=2&limit=5&search=bo", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope(t, resp)

	var payload handler.UserListView
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, []model.UserSummary{bob}, payload.Users)
	assert.Equal(t, handler.PaginationView{Page: 2, Limit: 5, Total: 12, TotalPages: 3}, payload.Pagination)
	assert.Contains(t, resp.Body.String(), `"_id":"`+bob.ID.String()+`"`)
}

func TestListUsers_DefaultPage(t *testing.T) {
	router, mockAuth := setupAuthTest(uuid.New(), uuid.New())
	mockAuth.On("ListUsers", mock.Anything, model.Page{Number: 1, Limit: 10}, "").
		Return([]model.UserSummary{}, int64(0), nil)

	resp := doJSON(router, http.MethodGet, "/users?page=abc", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	mockAuth.AssertExpectations(t)
}

func TestCreateAdmin_Success(t *testing.T) {
	router, mockAuth := setupAuthTest(uuid.New(), uuid.New())
	admin := &model.User{ID: uuid.New(), Username: "root", Role: model.RoleAdmin}
	mockAuth.On("CreateAdmin", mock.Anything, "root", "password123").Return(admin, nil)

	resp := doJSON(router, http.MethodPost, "/create", handler.CredentialsRequest{Username: "root", Password: "password123"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), `"role":"admin"`)
}
