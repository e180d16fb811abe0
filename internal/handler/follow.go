package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"socialnet/internal/follow"
	"socialnet/internal/model"
)

// FollowHandler exposes the follow state machine under the profile
// resource.
type FollowHandler struct {
	Follows *follow.Service
}

func NewFollowHandler(f *follow.Service) *FollowHandler {
	return &FollowHandler{Follows: f}
}

// followErr maps follow sentinel errors to responses, shared by the
// mutating endpoints.
func followErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, follow.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, follow.ErrSelfFollow),
		errors.Is(err, follow.ErrAlreadyFollowing),
		errors.Is(err, follow.ErrAlreadyRequested),
		errors.Is(err, follow.ErrNoRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "follow operation failed"})
}

// Follow starts following a public user or requests to follow a
// private one. POST /v1/users/:id/follow
func (h *FollowHandler) Follow(c echo.Context) error {
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

	status, err := h.Follows.Follow(ctx, uid, targetID)
	if err != nil {
		return followErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": status})
}

// Accept promotes a pending request from :id into a follower edge.
// POST /v1/follow-requests/:id/accept
func (h *FollowHandler) Accept(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requesterID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Follows.Accept(ctx, uid, requesterID); err != nil {
		return followErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": follow.StatusFollowing})
}

// Cancel withdraws the caller's pending request to :id.
// DELETE /v1/follow-requests/:id
func (h *FollowHandler) Cancel(c echo.Context) error {
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

	if err := h.Follows.Cancel(ctx, uid, targetID); err != nil {
		return followErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Unfollow removes the caller's follower edge to :id. Idempotent: a
// second call is still 204. DELETE /v1/users/:id/follow
func (h *FollowHandler) Unfollow(c echo.Context) error {
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

	if err := h.Follows.Unfollow(ctx, uid, targetID); err != nil {
		return followErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Followers lists the users following :id. GET /v1/users/:id/followers
func (h *FollowHandler) Followers(c echo.Context) error {
	return h.listEdges(c, h.Follows.Followers)
}

// Following lists the users :id follows. GET /v1/users/:id/following
func (h *FollowHandler) Following(c echo.Context) error {
	return h.listEdges(c, h.Follows.Following)
}

func (h *FollowHandler) listEdges(c echo.Context, list func(ctx context.Context, id uint64) ([]model.User, error)) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := list(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toPublicUserResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Requests lists the pending follow requests awaiting the caller.
// GET /v1/me/follow-requests
func (h *FollowHandler) Requests(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	reqs, err := h.Follows.Requests(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	type requestResp struct {
		RequesterID uint64 `json:"requester_id"`
		CreatedAt   string `json:"created_at"`
	}
	out := make([]requestResp, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, requestResp{
			RequesterID: r.RequesterID,
			CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, out)
}
