package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"linkup-go/internal/metrics"
	"linkup-go/internal/model"
	"linkup-go/internal/repository"
	"linkup-go/internal/service"
	"linkup-go/internal/testutil"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMessage struct {
	topic string
	key   string
	value []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, sentMessage{topic: topic, key: key, value: value})
	return nil
}

func seedEvents(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	ids := testutil.SeedUsers(t, db, "sender", "receiver")
	d := service.NewNotificationDispatcher("linkup.notifications", 100)
	for i := 0; i < n; i++ {
		require.NoError(t, d.Dispatch(context.Background(), db, &model.Notification{
			SenderID:   ids[0],
			ReceiverID: ids[1],
			Type:       model.NotificationFollow,
		}))
	}
}

func countStatus(t *testing.T, db *gorm.DB, status model.OutboxStatus) int64 {
	t.Helper()
	n, err := repository.NewOutboxRepository(db).CountByStatus(context.Background(), status)
	require.NoError(t, err)
	return n
}

func TestOutboxRelay_PublishesPending(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedEvents(t, db, 3)
	pub := &fakePublisher{}
	relay := NewOutboxRelay(db, pub, 2, 3, time.Millisecond)
	ctx := context.Background()

	n, err := relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.Len(t, pub.sent, 3)
	assert.Equal(t, "linkup.notifications", pub.sent[0].topic)
	assert.Equal(t, int64(3), countStatus(t, db, model.OutboxPublished))
	assert.Zero(t, countStatus(t, db, model.OutboxPending))
}

func TestOutboxRelay_Backlog(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedEvents(t, db, 3)
	relay := NewOutboxRelay(db, &fakePublisher{}, 2, 3, time.Millisecond)
	ctx := context.Background()

	n, err := relay.Backlog(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, float64(3), promtestutil.ToFloat64(metrics.OutboxBacklog))

	_, err = relay.RelayOnce(ctx)
	require.NoError(t, err)
	n, err = relay.Backlog(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, float64(1), promtestutil.ToFloat64(metrics.OutboxBacklog))
}

func TestOutboxRelay_FailsAfterMaxAttempts(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedEvents(t, db, 1)
	pub := &fakePublisher{err: errors.New("broker down")}
	relay := NewOutboxRelay(db, pub, 10, 2, time.Millisecond)
	ctx := context.Background()

	_, err := relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), countStatus(t, db, model.OutboxPending))

	_, err = relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, countStatus(t, db, model.OutboxPending))
	assert.Equal(t, int64(1), countStatus(t, db, model.OutboxFailed))

	var ev model.OutboxEvent
	require.NoError(t, db.First(&ev).Error)
	assert.Equal(t, 2, ev.Attempts)
	assert.Equal(t, "broker down", ev.LastError)
}

func TestOutboxRelay_RunStopsOnCancel(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedEvents(t, db, 1)
	pub := &fakePublisher{}
	relay := NewOutboxRelay(db, pub, 10, 3, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		pub.mu.Lock()
		defer pub.mu.Unlock()
		return len(pub.sent) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
