package repository

import (
	"context"
	"database/sql"

	"socialnet/internal/model"
)

// FollowRepo provides persistence for follower edges and pending follow
// requests. Both tables carry a unique index on their ordered user pair.
type FollowRepo struct{ db *sql.DB }

func NewFollowRepo(db *sql.DB) *FollowRepo { return &FollowRepo{db: db} }

// FollowerExists reports whether an accepted edge follower -> following exists.
func (r *FollowRepo) FollowerExists(ctx context.Context, followerID, followingID uint64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM followers WHERE follower_id=? AND following_id=?)",
		followerID, followingID).Scan(&exists)
	return exists, err
}

// CreateFollower inserts an accepted edge.
func (r *FollowRepo) CreateFollower(ctx context.Context, followerID, followingID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO followers (follower_id, following_id) VALUES (?,?)",
		followerID, followingID)
	return err
}

// DeleteFollower removes the edge if present. The delete is idempotent:
// a missing edge is not an error.
func (r *FollowRepo) DeleteFollower(ctx context.Context, followerID, followingID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM followers WHERE follower_id=? AND following_id=?",
		followerID, followingID)
	return err
}

// RequestExists reports whether a pending request requester -> target exists.
func (r *FollowRepo) RequestExists(ctx context.Context, requesterID, targetID uint64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM follow_requests WHERE requester_id=? AND target_id=?)",
		requesterID, targetID).Scan(&exists)
	return exists, err
}

// CreateRequest inserts a pending follow request.
func (r *FollowRepo) CreateRequest(ctx context.Context, requesterID, targetID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO follow_requests (requester_id, target_id) VALUES (?,?)",
		requesterID, targetID)
	return err
}

// DeleteRequest removes a pending request, reporting whether a row was
// actually deleted so callers can reject cancels of nonexistent requests.
func (r *FollowRepo) DeleteRequest(ctx context.Context, requesterID, targetID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM follow_requests WHERE requester_id=? AND target_id=?",
		requesterID, targetID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// PromoteRequest atomically converts a pending request into an accepted
// follower edge. The delete and insert share one transaction: either the
// request row disappears and the edge appears, or neither happens. The
// returned bool reports whether a request existed to promote.
func (r *FollowRepo) PromoteRequest(ctx context.Context, requesterID, targetID uint64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM follow_requests WHERE requester_id=? AND target_id=?",
		requesterID, targetID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO followers (follower_id, following_id) VALUES (?,?)",
		requesterID, targetID); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// listUsers joins an edge table with users so list endpoints can return
// display data without a second round trip.
func (r *FollowRepo) listUsers(ctx context.Context, query string, id uint64) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName,
			&u.IsPrivate, &u.ProfilePicture); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListFollowers returns the users following the given user.
func (r *FollowRepo) ListFollowers(ctx context.Context, userID uint64) ([]model.User, error) {
	return r.listUsers(ctx,
		`SELECT u.id,u.email,u.first_name,u.last_name,u.is_private,u.profile_picture
		 FROM followers f JOIN users u ON u.id=f.follower_id
		 WHERE f.following_id=? ORDER BY f.created_at DESC`, userID)
}

// ListFollowing returns the users the given user follows.
func (r *FollowRepo) ListFollowing(ctx context.Context, userID uint64) ([]model.User, error) {
	return r.listUsers(ctx,
		`SELECT u.id,u.email,u.first_name,u.last_name,u.is_private,u.profile_picture
		 FROM followers f JOIN users u ON u.id=f.following_id
		 WHERE f.follower_id=? ORDER BY f.created_at DESC`, userID)
}

// ListRequests returns the pending requests targeting the given user.
func (r *FollowRepo) ListRequests(ctx context.Context, targetID uint64) ([]model.FollowRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,requester_id,target_id,created_at FROM follow_requests WHERE target_id=? ORDER BY created_at",
		targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []model.FollowRequest
	for rows.Next() {
		var fr model.FollowRequest
		if err := rows.Scan(&fr.ID, &fr.RequesterID, &fr.TargetID, &fr.CreatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, fr)
	}
	return reqs, rows.Err()
}
