package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPubSub(t *testing.T) (*Publisher, *Subscriber) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewPublisher(client), NewSubscriber(client)
}

func TestPublishSubscribe(t *testing.T) {
	pub, sub := setupPubSub(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *AttendanceEvent, 1)
	go func() {
		_ = sub.Subscribe(ctx, func(event *AttendanceEvent) {
			received <- event
		})
	}()

	// 等订阅建立
	time.Sleep(100 * time.Millisecond)

	err := pub.PublishAttendance(ctx, &AttendanceEvent{
		RecordID: "a1",
		UserID:   "u1",
		UserName: "ahmed",
		Date:     "2025-01-15",
		Time:     "09:00:00",
		Kind:     "check-in",
		Synced:   true,
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, "attendance", event.Type)
		assert.Equal(t, "a1", event.RecordID)
		assert.Equal(t, "ahmed", event.UserName)
		assert.True(t, event.Synced)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestSubscribeStopsOnCancel(t *testing.T) {
	_, sub := setupPubSub(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sub.Subscribe(ctx, func(*AttendanceEvent) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}
