package model

import "time"

// Follower is an accepted, directional "follower follows following"
// edge in the `followers` table.  The ordered pair is unique.
type Follower struct {
	ID          uint64    // followers.id
	FollowerID  uint64    // followers.follower_id
	FollowingID uint64    // followers.following_id
	CreatedAt   time.Time // followers.created_at
}

// FollowRequest is a pending, directional proposal in the
// `follow_requests` table, created when the target account is private.
// Accepting a request promotes it to a Follower edge; cancelling
// deletes it.  The ordered pair is unique.
type FollowRequest struct {
	ID          uint64    // follow_requests.id
	RequesterID uint64    // follow_requests.requester_id
	TargetID    uint64    // follow_requests.target_id
	CreatedAt   time.Time // follow_requests.created_at
}
