package notify

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger "github.com/Gopher0727/LinkUp/middleware/log"
)

// syncPool runs jobs inline so tests stay deterministic.
type syncPool struct{}

func (syncPool) Submit(job func()) { job() }

type stubLocal struct {
	online    map[uint]bool
	delivered []uint
}

func (s *stubLocal) Send(userID uint, event string, payload any) bool {
	if !s.online[userID] {
		return false
	}
	s.delivered = append(s.delivered, userID)
	return true
}

type stubProducer struct {
	sent []Envelope
	err  error
}

func (s *stubProducer) SendMessage(key string, message any) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, message.(Envelope))
	return nil
}

func newTestEngine(local *stubLocal, producer Producer) *Engine {
	log, err := logger.NewDevelopmentLogger()
	if err != nil {
		panic(err)
	}
	return NewEngine(local, producer, syncPool{}, log)
}

func TestEngine_LocalDeliveryFirst(t *testing.T) {
	local := &stubLocal{online: map[uint]bool{1: true}}
	producer := &stubProducer{}
	e := newTestEngine(local, producer)

	e.Notify(1, EventNewMember, map[string]any{"group_id": 5})

	assert.Equal(t, []uint{1}, local.delivered)
	assert.Empty(t, producer.sent, "online user must not be forwarded to kafka")
}

func TestEngine_ForwardsWhenNotLocal(t *testing.T) {
	local := &stubLocal{online: map[uint]bool{}}
	producer := &stubProducer{}
	e := newTestEngine(local, producer)

	e.Notify(2, EventNewGroup, "payload")

	require.Len(t, producer.sent, 1)
	assert.Equal(t, uint(2), producer.sent[0].UserID)
	assert.Equal(t, EventNewGroup, producer.sent[0].Event)
}

func TestEngine_OfflineSingleNodeDrops(t *testing.T) {
	local := &stubLocal{online: map[uint]bool{}}
	e := newTestEngine(local, nil)

	// Must not panic and must not surface anything.
	e.Notify(3, EventRemovedGroup, nil)
	assert.Empty(t, local.delivered)
}

func TestEngine_ProducerFailureIsSwallowed(t *testing.T) {
	local := &stubLocal{online: map[uint]bool{}}
	producer := &stubProducer{err: errors.New("broker down")}
	e := newTestEngine(local, producer)

	// Failure is logged, never propagated.
	e.Notify(4, EventNewConnection, nil)
}

func TestEngine_NotifyMany(t *testing.T) {
	local := &stubLocal{online: map[uint]bool{1: true, 3: true}}
	producer := &stubProducer{}
	e := newTestEngine(local, producer)

	e.NotifyMany([]uint{1, 2, 3}, EventUpdatedMembers, nil)

	assert.Equal(t, []uint{1, 3}, local.delivered)
	require.Len(t, producer.sent, 1)
	assert.Equal(t, uint(2), producer.sent[0].UserID)
}

func TestEnvelope_RoundTrip(t *testing.T) {
	env := Envelope{UserID: 9, Event: EventNewGroupRequest, Payload: map[string]any{"id": float64(1)}}

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var got Envelope
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, env.UserID, got.UserID)
	assert.Equal(t, env.Event, got.Event)
}
