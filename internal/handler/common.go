package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"socialnet/internal/model"
)

// getUserID extracts the authenticated user id stored in the context by
// the JWT middleware and converts it to uint64. JWT numeric claims
// decode as float64, so several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the authenticated role claim is ADMIN.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleAdmin
}

// pathID parses a numeric :id style path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// userResponse is the sanitized user shape returned by the API. The
// password hash never appears here.
type userResponse struct {
	ID             uint64 `json:"id"`
	Email          string `json:"email,omitempty"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           string `json:"role,omitempty"`
	IsPrivate      bool   `json:"is_private"`
	ProfilePicture string `json:"profile_picture"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		IsPrivate:      u.IsPrivate,
		ProfilePicture: u.ProfilePicture,
	}
}

// toPublicUserResponse strips contact and role details, used for
// follower lists and private profiles viewed by non-followers.
func toPublicUserResponse(u model.User) userResponse {
	return userResponse{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		IsPrivate:      u.IsPrivate,
		ProfilePicture: u.ProfilePicture,
	}
}
