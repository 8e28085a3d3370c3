package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gopher0727/LinkUp/internal/apperrors"
	"github.com/Gopher0727/LinkUp/internal/models"
	"github.com/Gopher0727/LinkUp/internal/notify"
)

type connFixture struct {
	svc         *ConnectionService
	connections *fakeConnectionStore
	users       *fakeUserStore
	chats       *fakeChatStore
	notifier    *fakeNotifier
}

func newConnFixture() *connFixture {
	connections := newFakeConnectionStore()
	users := newFakeUserStore()
	chats := &fakeChatStore{}
	notifier := &fakeNotifier{}
	return &connFixture{
		svc:         NewConnectionService(connections, users, chats, notifier),
		connections: connections,
		users:       users,
		chats:       chats,
		notifier:    notifier,
	}
}

func TestSendConnectionRequest(t *testing.T) {
	t.Run("creates pending request and notifies receiver", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")

		dto, err := f.svc.SendConnectionRequest(alice.ID, bob.ID)
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, dto.Status)
		assert.Equal(t, alice.ID, dto.Sender.ID)
		assert.Equal(t, bob.ID, dto.ReceiverID)
		assert.Contains(t, f.notifier.eventsFor(bob.ID), notify.EventNewUserRequest)
	})

	t.Run("self request rejected", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")

		_, err := f.svc.SendConnectionRequest(alice.ID, alice.ID)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("unknown target", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")

		_, err := f.svc.SendConnectionRequest(alice.ID, 999)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("duplicate in same direction rejected", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")

		_, err := f.svc.SendConnectionRequest(alice.ID, bob.ID)
		require.NoError(t, err)
		_, err = f.svc.SendConnectionRequest(alice.ID, bob.ID)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("reverse direction also rejected", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")

		_, err := f.svc.SendConnectionRequest(alice.ID, bob.ID)
		require.NoError(t, err)
		_, err = f.svc.SendConnectionRequest(bob.ID, alice.ID)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestReviewConnectionRequest(t *testing.T) {
	send := func(f *connFixture, from, to uint) uint {
		dto, err := f.svc.SendConnectionRequest(from, to)
		if err != nil {
			panic(err)
		}
		return dto.ID
	}

	t.Run("accept persists the edge and notifies sender", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")
		reqID := send(f, alice.ID, bob.ID)

		dto, err := f.svc.ReviewConnectionRequest(bob.ID, reqID, models.StatusAccepted)
		require.NoError(t, err)

		assert.Equal(t, models.StatusAccepted, dto.Status)
		stored, err := f.connections.GetByID(reqID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, models.StatusAccepted, stored.Status)
		assert.Contains(t, f.notifier.eventsFor(alice.ID), notify.EventNewConnection)
	})

	t.Run("reject deletes the record", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")
		reqID := send(f, alice.ID, bob.ID)

		dto, err := f.svc.ReviewConnectionRequest(bob.ID, reqID, models.StatusRejected)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, dto.Status)

		stored, err := f.connections.GetByID(reqID)
		require.NoError(t, err)
		assert.Nil(t, stored)

		// Second review of the same id reports the record as gone.
		_, err = f.svc.ReviewConnectionRequest(bob.ID, reqID, models.StatusRejected)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("rejection frees the pair for a fresh request", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")
		reqID := send(f, alice.ID, bob.ID)

		_, err := f.svc.ReviewConnectionRequest(bob.ID, reqID, models.StatusRejected)
		require.NoError(t, err)

		_, err = f.svc.SendConnectionRequest(alice.ID, bob.ID)
		assert.NoError(t, err)
	})

	t.Run("only receiver can review", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")
		carol := f.users.add("carol")
		reqID := send(f, alice.ID, bob.ID)

		_, err := f.svc.ReviewConnectionRequest(carol.ID, reqID, models.StatusAccepted)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

		// The sender reviewing their own request is rejected too.
		_, err = f.svc.ReviewConnectionRequest(alice.ID, reqID, models.StatusAccepted)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("already reviewed", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")
		reqID := send(f, alice.ID, bob.ID)

		_, err := f.svc.ReviewConnectionRequest(bob.ID, reqID, models.StatusAccepted)
		require.NoError(t, err)
		_, err = f.svc.ReviewConnectionRequest(bob.ID, reqID, models.StatusAccepted)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("invalid decision", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")
		reqID := send(f, alice.ID, bob.ID)

		_, err := f.svc.ReviewConnectionRequest(bob.ID, reqID, "maybe")
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestRemoveConnection(t *testing.T) {
	connect := func(f *connFixture, a, b uint) {
		dto, err := f.svc.SendConnectionRequest(a, b)
		if err != nil {
			panic(err)
		}
		if _, err := f.svc.ReviewConnectionRequest(b, dto.ID, models.StatusAccepted); err != nil {
			panic(err)
		}
	}

	t.Run("removes edge and purges chat history", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")
		connect(f, alice.ID, bob.ID)

		require.NoError(t, f.svc.RemoveConnection(alice.ID, bob.ID))

		req, err := f.connections.GetByPair(alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Nil(t, req)
		assert.Contains(t, f.chats.purgedPairs, [2]uint{alice.ID, bob.ID})
		assert.Contains(t, f.notifier.eventsFor(bob.ID), notify.EventRemovedConnection)
	})

	t.Run("either party can remove", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")
		connect(f, alice.ID, bob.ID)

		require.NoError(t, f.svc.RemoveConnection(bob.ID, alice.ID))
	})

	t.Run("pending request is not removable as a connection", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")
		_, err := f.svc.SendConnectionRequest(alice.ID, bob.ID)
		require.NoError(t, err)

		err = f.svc.RemoveConnection(alice.ID, bob.ID)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestGetConnectionsAndExplore(t *testing.T) {
	f := newConnFixture()
	alice := f.users.add("alice")
	bob := f.users.add("bob")
	carol := f.users.add("carol")
	dave := f.users.add("dave")

	// alice<->bob accepted, alice->carol pending, dave untouched
	dto, err := f.svc.SendConnectionRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = f.svc.ReviewConnectionRequest(bob.ID, dto.ID, models.StatusAccepted)
	require.NoError(t, err)
	_, err = f.svc.SendConnectionRequest(alice.ID, carol.ID)
	require.NoError(t, err)

	conns, err := f.svc.GetConnections(alice.ID)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, bob.ID, conns[0].ID)

	explore, err := f.svc.ExploreUsers(alice.ID)
	require.NoError(t, err)
	require.Len(t, explore, 1)
	assert.Equal(t, dave.ID, explore[0].ID)
}

func TestGetPendingRequests(t *testing.T) {
	f := newConnFixture()
	alice := f.users.add("alice")
	bob := f.users.add("bob")
	carol := f.users.add("carol")

	_, err := f.svc.SendConnectionRequest(alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = f.svc.SendConnectionRequest(bob.ID, carol.ID)
	require.NoError(t, err)

	reqs, err := f.svc.GetPendingRequests(carol.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, alice.ID, reqs[0].Sender.ID)
	assert.Equal(t, bob.ID, reqs[1].Sender.ID)
}

func TestSearchUser(t *testing.T) {
	t.Run("finds user and includes existing request", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")
		_, err := f.svc.SendConnectionRequest(alice.ID, bob.ID)
		require.NoError(t, err)

		result, err := f.svc.SearchUser(alice.ID, alice.Handle, "bob")
		require.NoError(t, err)

		assert.Equal(t, bob.ID, result.User.ID)
		require.NotNil(t, result.Request)
		assert.Equal(t, models.StatusPending, result.Request.Status)
	})

	t.Run("no request yet", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")
		bob := f.users.add("bob")

		result, err := f.svc.SearchUser(alice.ID, alice.Handle, "bob")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, result.User.ID)
		assert.Nil(t, result.Request)
	})

	t.Run("validations", func(t *testing.T) {
		f := newConnFixture()
		alice := f.users.add("alice")

		_, err := f.svc.SearchUser(alice.ID, alice.Handle, "")
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

		_, err = f.svc.SearchUser(alice.ID, alice.Handle, alice.Handle)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

		_, err = f.svc.SearchUser(alice.ID, alice.Handle, "way_too_long_handle_for_search")
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

		_, err = f.svc.SearchUser(alice.ID, alice.Handle, "bad handle!")
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

		_, err = f.svc.SearchUser(alice.ID, alice.Handle, "ghost")
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}
