package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

type mockOutboxSource struct {
	pending []usecase.OutboxEntry
	sent    []string
	failed  map[string]time.Time
}

func newMockOutboxSource(entries ...usecase.OutboxEntry) *mockOutboxSource {
	return &mockOutboxSource{pending: entries, failed: map[string]time.Time{}}
}

func (m *mockOutboxSource) FetchPending(context.Context, int64) ([]usecase.OutboxEntry, error) {
	return m.pending, nil
}

func (m *mockOutboxSource) MarkSent(_ context.Context, id string) error {
	m.sent = append(m.sent, id)
	return nil
}

func (m *mockOutboxSource) MarkFailed(_ context.Context, id string, next time.Time) error {
	m.failed[id] = next
	return nil
}

type mockPublisher struct {
	published map[string][]byte
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, channel string, body []byte) error {
	if m.err != nil {
		return m.err
	}
	if m.published == nil {
		m.published = map[string][]byte{}
	}
	m.published[channel] = body
	return nil
}

func TestDrain_PublishesAndMarksSent(t *testing.T) {
	src := newMockOutboxSource(
		usecase.OutboxEntry{ID: "e1", Channel: ChannelOrderPlaced, Payload: []byte(`{"orderId":"o1"}`)},
		usecase.OutboxEntry{ID: "e2", Channel: ChannelOrderPlaced, Payload: []byte(`{"orderId":"o2"}`)},
	)
	pub := &mockPublisher{}
	p := NewOutboxPoller(src, pub, time.Second, 100)

	p.drain(context.Background())

	assert.Equal(t, []string{"e1", "e2"}, src.sent)
	assert.Empty(t, src.failed)
	require.Contains(t, pub.published, ChannelOrderPlaced)
}

func TestDrain_FailureBacksOff(t *testing.T) {
	src := newMockOutboxSource(usecase.OutboxEntry{ID: "e1", Channel: ChannelOrderPlaced, RetryCount: 2})
	pub := &mockPublisher{err: errors.New("broker down")}
	p := NewOutboxPoller(src, pub, time.Second, 100)

	before := time.Now()
	p.drain(context.Background())

	assert.Empty(t, src.sent)
	next, ok := src.failed["e1"]
	require.True(t, ok)
	// retry count 2 -> third attempt, 15s linear backoff
	assert.WithinDuration(t, before.Add(15*time.Second), next, 2*time.Second)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	src := newMockOutboxSource()
	p := NewOutboxPoller(src, &mockPublisher{}, 10*time.Millisecond, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
