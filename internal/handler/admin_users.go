package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/FranBistrovic/QuantumHotel/internal/config"
	"github.com/FranBistrovic/QuantumHotel/internal/model"
	"github.com/FranBistrovic/QuantumHotel/internal/repository"
)

// AdminUserHandler implements account administration: listing accounts,
// provisioning STAFF/ADMIN users and changing roles.  This is the only
// path that creates non-USER accounts; self-registration always yields
// USER.
type AdminUserHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

// NewAdminUserHandler constructs an AdminUserHandler; all dependencies must be non-nil.
func NewAdminUserHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AdminUserHandler {
	if u == nil || t == nil {
		panic("nil repository passed to NewAdminUserHandler")
	}
	return &AdminUserHandler{Cfg: cfg, Users: u, Tokens: t}
}

type userView struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserView(u *model.User) userView {
	return userView{ID: u.ID, Email: u.Email, Role: u.Role, IsActive: u.IsActive, CreatedAt: u.CreatedAt}
}

func validRole(role string) bool {
	switch role {
	case model.RoleUser, model.RoleStaff, model.RoleAdmin:
		return true
	}
	return false
}

// ListUsers handles GET /v1/admin/users.
func (h *AdminUserHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
	}
	items := make([]userView, 0, len(users))
	for i := range users {
		items = append(items, toUserView(&users[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetUser handles GET /v1/admin/users/:id.
func (h *AdminUserHandler) GetUser(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toUserView(u)})
}

type createUserReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser handles POST /v1/admin/users.  Unlike self-registration the
// role is caller-chosen, which is how STAFF and ADMIN accounts come to
// exist.
func (h *AdminUserHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if !validRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be USER, STAFF or ADMIN"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, req.Role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": userView{
		ID: uid, Email: req.Email, Role: req.Role, IsActive: true,
	}})
}

type updateUserReq struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// UpdateUser handles PATCH /v1/admin/users/:id.  Fields are optional;
// a role change or deactivation revokes the account's refresh tokens so
// the old access level cannot be renewed.
func (h *AdminUserHandler) UpdateUser(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email must not be empty"})
	}
	if req.Password != nil && *req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must not be empty"})
	}
	if req.Role != nil && !validRole(*req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be USER, STAFF or ADMIN"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	upd := repository.UserUpdate{Email: req.Email, Password: req.Password, Role: req.Role, IsActive: req.IsActive}
	if err := h.Users.Update(ctx, id, upd, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	if req.Password != nil || req.Role != nil || (req.IsActive != nil && !*req.IsActive) {
		_ = h.Tokens.RevokeAllForUser(ctx, id)
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toUserView(u)})
}

// DeleteUser handles DELETE /v1/admin/users/:id.  Accounts with
// reservation history cannot be removed and answer 409; deactivating
// them via PATCH is the supported way out.
func (h *AdminUserHandler) DeleteUser(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user still has reservations"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
