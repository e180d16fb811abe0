package follow

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialnet/internal/model"
)

type pair struct{ from, to uint64 }

type memUsers struct {
	byID map[uint64]model.User
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

type memEdges struct {
	followers map[pair]bool
	requests  map[pair]time.Time
}

func newMemEdges() *memEdges {
	return &memEdges{followers: map[pair]bool{}, requests: map[pair]time.Time{}}
}

func (m *memEdges) FollowerExists(_ context.Context, followerID, followingID uint64) (bool, error) {
	return m.followers[pair{followerID, followingID}], nil
}

func (m *memEdges) CreateFollower(_ context.Context, followerID, followingID uint64) error {
	m.followers[pair{followerID, followingID}] = true
	return nil
}

func (m *memEdges) DeleteFollower(_ context.Context, followerID, followingID uint64) error {
	delete(m.followers, pair{followerID, followingID})
	return nil
}

func (m *memEdges) RequestExists(_ context.Context, requesterID, targetID uint64) (bool, error) {
	_, ok := m.requests[pair{requesterID, targetID}]
	return ok, nil
}

func (m *memEdges) CreateRequest(_ context.Context, requesterID, targetID uint64) error {
	m.requests[pair{requesterID, targetID}] = time.Now().UTC()
	return nil
}

func (m *memEdges) DeleteRequest(_ context.Context, requesterID, targetID uint64) (bool, error) {
	p := pair{requesterID, targetID}
	if _, ok := m.requests[p]; !ok {
		return false, nil
	}
	delete(m.requests, p)
	return true, nil
}

func (m *memEdges) PromoteRequest(_ context.Context, requesterID, targetID uint64) (bool, error) {
	p := pair{requesterID, targetID}
	if _, ok := m.requests[p]; !ok {
		return false, nil
	}
	delete(m.requests, p)
	m.followers[p] = true
	return true, nil
}

func (m *memEdges) ListFollowers(_ context.Context, userID uint64) ([]model.User, error) {
	var out []model.User
	for p := range m.followers {
		if p.to == userID {
			out = append(out, model.User{ID: p.from})
		}
	}
	return out, nil
}

func (m *memEdges) ListFollowing(_ context.Context, userID uint64) ([]model.User, error) {
	var out []model.User
	for p := range m.followers {
		if p.from == userID {
			out = append(out, model.User{ID: p.to})
		}
	}
	return out, nil
}

func (m *memEdges) ListRequests(_ context.Context, targetID uint64) ([]model.FollowRequest, error) {
	var out []model.FollowRequest
	for p, at := range m.requests {
		if p.to == targetID {
			out = append(out, model.FollowRequest{RequesterID: p.from, TargetID: p.to, CreatedAt: at})
		}
	}
	return out, nil
}

const (
	alice  = uint64(1) // public
	bob    = uint64(2) // private
	carol  = uint64(3) // public
	ghost  = uint64(99)
)

func newService() (*Service, *memEdges) {
	users := &memUsers{byID: map[uint64]model.User{
		alice: {ID: alice},
		bob:   {ID: bob, IsPrivate: true},
		carol: {ID: carol},
	}}
	edges := newMemEdges()
	return NewService(users, edges), edges
}

func TestFollowPublicTarget(t *testing.T) {
	svc, edges := newService()
	ctx := context.Background()

	status, err := svc.Follow(ctx, carol, alice)
	require.NoError(t, err)
	assert.Equal(t, StatusFollowing, status)
	assert.True(t, edges.followers[pair{carol, alice}])
	assert.Empty(t, edges.requests, "public follow must not leave a request behind")

	_, err = svc.Follow(ctx, carol, alice)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)
}

func TestFollowPrivateTarget(t *testing.T) {
	svc, edges := newService()
	ctx := context.Background()

	status, err := svc.Follow(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, status)
	assert.Empty(t, edges.followers, "private follow must not create an edge yet")
	assert.Contains(t, edges.requests, pair{alice, bob})

	_, err = svc.Follow(ctx, alice, bob)
	assert.ErrorIs(t, err, ErrAlreadyRequested)
}

func TestFollowRejections(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Follow(ctx, alice, alice)
	assert.ErrorIs(t, err, ErrSelfFollow)

	_, err = svc.Follow(ctx, alice, ghost)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAccept(t *testing.T) {
	svc, edges := newService()
	ctx := context.Background()

	_, err := svc.Follow(ctx, alice, bob)
	require.NoError(t, err)

	require.NoError(t, svc.Accept(ctx, bob, alice))

	// Exactly one edge, in the requester-follows-target direction, and
	// the request is gone.
	assert.Len(t, edges.followers, 1)
	assert.True(t, edges.followers[pair{alice, bob}])
	assert.Empty(t, edges.requests)

	// A second accept finds nothing to promote.
	assert.ErrorIs(t, svc.Accept(ctx, bob, alice), ErrNoRequest)
}

func TestAcceptWithoutRequest(t *testing.T) {
	svc, _ := newService()
	assert.ErrorIs(t, svc.Accept(context.Background(), bob, alice), ErrNoRequest)
}

func TestCancel(t *testing.T) {
	svc, edges := newService()
	ctx := context.Background()

	_, err := svc.Follow(ctx, alice, bob)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, alice, bob))
	assert.Empty(t, edges.requests)
	assert.Empty(t, edges.followers, "cancel must not create an edge")

	assert.ErrorIs(t, svc.Cancel(ctx, alice, bob), ErrNoRequest)
}

func TestUnfollowIdempotent(t *testing.T) {
	svc, edges := newService()
	ctx := context.Background()

	_, err := svc.Follow(ctx, carol, alice)
	require.NoError(t, err)

	require.NoError(t, svc.Unfollow(ctx, carol, alice))
	assert.Empty(t, edges.followers)

	// Already gone; still no error.
	require.NoError(t, svc.Unfollow(ctx, carol, alice))
}

func TestListsAndIsFollower(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Follow(ctx, carol, alice)
	require.NoError(t, err)

	followers, err := svc.Followers(ctx, alice)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, carol, followers[0].ID)

	following, err := svc.Following(ctx, carol)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, alice, following[0].ID)

	ok, err := svc.IsFollower(ctx, carol, alice)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsFollower(ctx, alice, carol)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequestsList(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Follow(ctx, alice, bob)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, carol, bob)
	require.NoError(t, err)

	reqs, err := svc.Requests(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, reqs, 2)
	for _, r := range reqs {
		assert.Equal(t, bob, r.TargetID)
	}
}
