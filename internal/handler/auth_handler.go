package handler

import (
	"context"
	"net/http"
	"strconv"

	"tasktracker/internal/middleware"
	"tasktracker/internal/model"
	"tasktracker/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthService interface {
	Signup(ctx context.Context, username, password string) (*model.User, error)
	CreateAdmin(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, userID, sessionID uuid.UUID) error
	ListUsers(ctx context.Context, page model.Page, search string) ([]model.UserSummary, int64, error)
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// CredentialsRequest is the body of signup, login and admin creation.
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup godoc
// @Summary      User signup
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      CredentialsRequest  true  "Credentials"
// @Success      201   {object}  response.Envelope{payload=UserView}
// @Failure      400   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.JSON(c, http.StatusBadRequest, "Username and password are required", nil)
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, "User created successfully", newUserView(user))
}

// CreateAdmin godoc
// @Summary      Create an administrator
// @Tags         Auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CredentialsRequest  true  "Credentials"
// @Success      201   {object}  response.Envelope{payload=UserView}
// @Failure      403   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Router       /auth/create [post]
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.JSON(c, http.StatusBadRequest, "Username and password are required", nil)
		return
	}

	user, err := h.auth.CreateAdmin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, "User created successfully", newUserView(user))
}

// Login godoc
// @Summary      User login
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      CredentialsRequest  true  "Credentials"
// @Success      200   {object}  response.Envelope{payload=TokenView}
// @Failure      401   {object}  response.Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.JSON(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Login successful", TokenView{Token: token})
}

// Logout godoc
// @Summary      Logout the current session
// @Tags         Auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, okUser := middleware.CurrentUserID(c)
	sessionID, okSession := middleware.CurrentSessionID(c)
	if !okUser || !okSession {
		response.JSON(c, http.StatusBadRequest, "User ID and Session ID are required", nil)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), userID, sessionID); err != nil {
		respondError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Logged out successfully", nil)
}

// ListUsers godoc
// @Summary      List assignable users
// @Description  Returns non-admin users with only _id and username.
// @Tags         Auth
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Username substring"
// @Success      200     {object}  response.Envelope{payload=UserListView}
// @Router       /auth/users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	page := pageFromQuery(c)

	users, total, err := h.auth.ListUsers(c.Request.Context(), page, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Users retrieved successfully", UserListView{
		Users:      users,
		Pagination: newPaginationView(page, total),
	})
}

// pageFromQuery reads page and limit; unparsable values fall back to the defaults.
func pageFromQuery(c *gin.Context) model.Page {
	number, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return model.NewPage(number, limit)
}
