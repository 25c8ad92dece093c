package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-user-terms/internal/application"
	"github.com/oksasatya/go-ddd-user-terms/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-user-terms/pkg/response"
)

type UserHandler struct {
	Svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type deleteRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Create handles POST /users.
func (h *UserHandler) Create(c *gin.Context) {
	var in application.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, msgInvalidJSON, err)
		return
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, u)
}

// Login handles POST /users/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, msgInvalidJSON, err)
		return
	}
	token, err := h.Svc.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"token": token})
}

// List handles GET /users. With ?email= it returns a single record.
func (h *UserHandler) List(c *gin.Context) {
	res, err := h.Svc.GetUsers(c.Request.Context(), application.UserQuery{
		Email:     c.Query("email"),
		FirstName: c.Query("firstName"),
		LastName:  c.Query("lastName"),
		Pagination: &application.PaginationParams{
			Page:  queryInt(c, "page"),
			Limit: queryInt(c, "limit"),
		},
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	if res.User != nil {
		response.JSON(c, http.StatusOK, res.User)
		return
	}
	response.JSON(c, http.StatusOK, res.Page)
}

// Search handles GET /users/search?q=&size=.
func (h *UserHandler) Search(c *gin.Context) {
	size := 0
	if v := queryInt(c, "size"); v != nil {
		size = *v
	}
	users, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"data": users})
}

// Update handles PATCH /users/:email.
func (h *UserHandler) Update(c *gin.Context) {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Message(c, http.StatusUnauthorized, "Unauthorized: No token provided or invalid format")
		return
	}
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		failBind(c, msgInvalidJSON, err)
		return
	}
	patch, err := application.NewUserPatch(raw)
	if err != nil {
		response.Fail(c, err)
		return
	}
	u, err := h.Svc.UpdateUser(c.Request.Context(), caller, c.Param("email"), patch)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, u)
}

// Delete handles DELETE /users with {email, password}; the record is soft-deleted.
func (h *UserHandler) Delete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, msgInvalidJSON, err)
		return
	}
	if _, err := h.Svc.DeleteUser(c.Request.Context(), req.Email, req.Password); err != nil {
		response.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// queryInt returns nil when the parameter is missing or not a number.
func queryInt(c *gin.Context, key string) *int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}
