package handler

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"socialnet/internal/follow"
	"socialnet/internal/repository"
	"socialnet/internal/storage"
)

// ProfileHandler serves profile reads and edits. Profile operations are
// pass-through to the user repository; the privacy check consults the
// follow service.
type ProfileHandler struct {
	Users   *repository.UserRepo
	Follows *follow.Service
	Store   *storage.ObjectStore // nil when object storage is not configured
}

func NewProfileHandler(users *repository.UserRepo, follows *follow.Service, store *storage.ObjectStore) *ProfileHandler {
	return &ProfileHandler{Users: users, Follows: follows, Store: store}
}

type updateProfileReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsPrivate bool   `json:"is_private"`
}

// Me returns the authenticated user's own profile.
func (h *ProfileHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// GetUser returns another user's profile. A private profile viewed by
// someone who is not an accepted follower is reduced to its public
// fields.
func (h *ProfileHandler) GetUser(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if u.IsPrivate && uid != u.ID {
		follower, err := h.Follows.IsFollower(ctx, uid, u.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if !follower {
			return c.JSON(http.StatusOK, toPublicUserResponse(u))
		}
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// UpdateMe edits name and privacy fields.
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, req.FirstName, req.LastName, req.IsPrivate); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// UploadPicture stages a multipart upload to a temp file, pushes it to
// object storage and stores the resulting URL. The temp file is removed
// on every path; the uploaded object is removed again when the database
// write fails so storage and database stay in step.
func (h *ProfileHandler) UploadPicture(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "object storage not configured"})
	}

	fh, err := c.FormFile("picture")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "picture file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable upload"})
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "avatar-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "staging failed"})
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "staging failed"})
	}
	if err := tmp.Close(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "staging failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	key, publicURL, err := h.Store.UploadFile(ctx, tmpPath, fh.Header.Get("Content-Type"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	if err := h.Users.UpdateProfilePicture(ctx, uid, publicURL); err != nil {
		if rmErr := h.Store.Remove(ctx, key); rmErr != nil {
			c.Logger().Warnf("orphaned avatar object %s: %v", key, rmErr)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"profile_picture": publicURL})
}

// DeleteMe removes the account and, via cascading foreign keys, its
// tokens, edges and posts.
func (h *ProfileHandler) DeleteMe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUsers returns every account, admin only.
func (h *ProfileHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}
