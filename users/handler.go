package users

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/userservice/server/middleware"
	"github.com/kbukum/userservice/server/respond"
	"github.com/kbukum/userservice/validation"
)

// Page size bounds for List.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Registration is the sign-up body.
type Registration struct {
	Email    string `json:"email" validate:"required,email,min=8,max=50"`
	Password string `json:"password" validate:"required,min=8,max=50,maxbytes=72,strongpassword"`
	Name     string `json:"name" validate:"required,min=8,max=50"`
	Phone    string `json:"phone" validate:"required,max=20"`
}

// UpdateRequest is the profile update body.
type UpdateRequest struct {
	Email string `json:"email" validate:"required,email,min=8,max=50"`
	Name  string `json:"name" validate:"required,min=2,max=50"`
	Phone string `json:"phone" validate:"required,max=20"`
}

// Handler exposes Service over HTTP.
type Handler struct {
	svc *Service
	// basePath prefixes Location headers, e.g. "/api/v1/users".
	basePath string
}

// NewHandler creates a Handler. basePath is the public path of the users
// collection.
func NewHandler(svc *Service, basePath string) *Handler {
	return &Handler{svc: svc, basePath: basePath}
}

// Register handles POST /users.
func (h *Handler) Register(c *gin.Context) {
	var req Registration
	if err := validation.BindJSON(c, &req); err != nil {
		respond.Error(c, err)
		return
	}
	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, fmt.Sprintf("%s/%d", h.basePath, user.ID), user)
}

// List handles GET /users?page=&size=.
func (h *Handler) List(c *gin.Context) {
	v := validation.New()
	page := v.Int("page", c.Query("page"), 1)
	size := v.Int("size", c.Query("size"), DefaultPageSize)
	v.Min("page", page, 1).Range("size", size, 1, MaxPageSize)
	if err := v.Validate(); err != nil {
		respond.Error(c, err)
		return
	}

	p, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, p)
}

// Get handles GET /users/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := middleware.ParseID(c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, user)
}

// Update handles PUT /users/:id. Ownership is checked upstream.
func (h *Handler) Update(c *gin.Context) {
	id, err := middleware.ParseID(c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	var req UpdateRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respond.Error(c, err)
		return
	}
	user, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, user)
}

// Delete handles DELETE /users/:id. Ownership is checked upstream.
func (h *Handler) Delete(c *gin.Context) {
	id, err := middleware.ParseID(c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respond.Error(c, err)
		return
	}
	respond.NoContent(c)
}

// VerifyAccount handles PATCH /users/:id/account_status.
func (h *Handler) VerifyAccount(c *gin.Context) {
	id, err := middleware.ParseID(c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	res, err := h.svc.VerifyAccount(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, res)
}
