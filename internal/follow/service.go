// Package follow implements the follow/follow-request state machine.
// Each ordered (requester, target) pair is in exactly one of three
// states: none, requested (private target, pending acceptance) or
// following. Transitions:
//
//	none      -> following  Follow, public target
//	none      -> requested  Follow, private target
//	requested -> following  Accept (transactional promote)
//	requested -> none       Cancel
//	following -> none       Unfollow (idempotent)
package follow

import (
	"context"
	"database/sql"
	"errors"

	"socialnet/internal/model"
)

var (
	// ErrUserNotFound signals the target account does not exist (404).
	ErrUserNotFound = errors.New("user not found")
	// ErrSelfFollow rejects following your own account (400).
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrAlreadyFollowing rejects a duplicate follow of a public account (400).
	ErrAlreadyFollowing = errors.New("already following this user")
	// ErrAlreadyRequested rejects a duplicate request to a private account (400).
	ErrAlreadyRequested = errors.New("follow request already sent")
	// ErrNoRequest signals accept/cancel without a pending request (400).
	ErrNoRequest = errors.New("no follow request found")
)

// Pair-state outcomes returned by Follow.
const (
	StatusFollowing = "following"
	StatusRequested = "requested"
)

// UserStore is the slice of user persistence the follow service needs.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// EdgeStore persists follower edges and pending requests.
// PromoteRequest must delete the request and create the edge in one
// transaction, reporting false when no request existed.
type EdgeStore interface {
	FollowerExists(ctx context.Context, followerID, followingID uint64) (bool, error)
	CreateFollower(ctx context.Context, followerID, followingID uint64) error
	DeleteFollower(ctx context.Context, followerID, followingID uint64) error
	RequestExists(ctx context.Context, requesterID, targetID uint64) (bool, error)
	CreateRequest(ctx context.Context, requesterID, targetID uint64) error
	DeleteRequest(ctx context.Context, requesterID, targetID uint64) (bool, error)
	PromoteRequest(ctx context.Context, requesterID, targetID uint64) (bool, error)
	ListFollowers(ctx context.Context, userID uint64) ([]model.User, error)
	ListFollowing(ctx context.Context, userID uint64) ([]model.User, error)
	ListRequests(ctx context.Context, targetID uint64) ([]model.FollowRequest, error)
}

type Service struct {
	users UserStore
	edges EdgeStore
}

func NewService(users UserStore, edges EdgeStore) *Service {
	return &Service{users: users, edges: edges}
}

// Follow moves the (userID, targetID) pair out of the none state. A
// public target gains a follower edge immediately; a private target
// gains a pending request instead. The returned status is one of
// StatusFollowing or StatusRequested.
func (s *Service) Follow(ctx context.Context, userID, targetID uint64) (string, error) {
	if userID == targetID {
		return "", ErrSelfFollow
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if !target.IsPrivate {
		exists, err := s.edges.FollowerExists(ctx, userID, targetID)
		if err != nil {
			return "", err
		}
		if exists {
			return "", ErrAlreadyFollowing
		}
		if err := s.edges.CreateFollower(ctx, userID, targetID); err != nil {
			return "", err
		}
		return StatusFollowing, nil
	}

	exists, err := s.edges.RequestExists(ctx, userID, targetID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrAlreadyRequested
	}
	if err := s.edges.CreateRequest(ctx, userID, targetID); err != nil {
		return "", err
	}
	return StatusRequested, nil
}

// Accept promotes requesterID's pending request into a follower edge on
// targetID's account. The requester becomes the follower, never the
// other way round.
func (s *Service) Accept(ctx context.Context, targetID, requesterID uint64) error {
	promoted, err := s.edges.PromoteRequest(ctx, requesterID, targetID)
	if err != nil {
		return err
	}
	if !promoted {
		return ErrNoRequest
	}
	return nil
}

// Cancel withdraws a pending request the requester previously sent.
func (s *Service) Cancel(ctx context.Context, requesterID, targetID uint64) error {
	deleted, err := s.edges.DeleteRequest(ctx, requesterID, targetID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNoRequest
	}
	return nil
}

// Unfollow removes the follower edge if present. Absence is not an
// error, so repeated calls succeed.
func (s *Service) Unfollow(ctx context.Context, followerID, targetID uint64) error {
	return s.edges.DeleteFollower(ctx, followerID, targetID)
}

// Followers lists the users following userID.
func (s *Service) Followers(ctx context.Context, userID uint64) ([]model.User, error) {
	return s.edges.ListFollowers(ctx, userID)
}

// Following lists the users userID follows.
func (s *Service) Following(ctx context.Context, userID uint64) ([]model.User, error) {
	return s.edges.ListFollowing(ctx, userID)
}

// Requests lists the pending requests awaiting userID's decision.
func (s *Service) Requests(ctx context.Context, userID uint64) ([]model.FollowRequest, error) {
	return s.edges.ListRequests(ctx, userID)
}

// IsFollower reports whether followerID currently follows targetID,
// used by the profile handler to decide how much of a private profile
// to reveal.
func (s *Service) IsFollower(ctx context.Context, followerID, targetID uint64) (bool, error) {
	return s.edges.FollowerExists(ctx, followerID, targetID)
}
