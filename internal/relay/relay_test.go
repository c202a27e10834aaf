package relay_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/VincentIliano/QuizMaster/internal/relay"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type recordingPublisher struct {
	mu  sync.Mutex
	got [][]byte
	err error
}

func (p *recordingPublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, payload)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.got)
}

func TestAsyncDelivers(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("ignored")}
	a := relay.NewAsync("test", pub, 8, discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	for _, msg := range []string{"a", "b", "c"} {
		a.Publish([]byte(msg))
	}

	deadline := time.Now().Add(2 * time.Second)
	for pub.count() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("delivered %d events, want 3", pub.count())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if string(pub.got[0]) != "a" || string(pub.got[2]) != "c" {
		t.Errorf("order = %q", pub.got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
}

func TestAsyncDropsWhenFull(t *testing.T) {
	pub := &recordingPublisher{}
	a := relay.NewAsync("test", pub, 2, discard())
	var drops int
	a.OnDrop = func(string) { drops++ }

	for range 5 {
		a.Publish([]byte("x"))
	}
	if drops != 3 {
		t.Errorf("drops = %d, want 3", drops)
	}
}

func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         "localhost:1",
		DialTimeout:  10 * time.Millisecond,
		ReadTimeout:  10 * time.Millisecond,
		WriteTimeout: 10 * time.Millisecond,
		MaxRetries:   -1,
	})
}

func TestRedisDown(t *testing.T) {
	rdb := deadRedis()
	defer rdb.Close()
	r := relay.NewRedis(rdb, "quizmaster.events")

	ctx := context.Background()
	if err := r.Publish(ctx, []byte(`{}`)); err == nil {
		t.Error("Publish to dead redis succeeded")
	}
	if err := r.Check(ctx); err == nil {
		t.Error("Check on dead redis succeeded")
	}
	if _, err := relay.OpenRedis(ctx, "redis://localhost:1/0?dial_timeout=10ms"); err == nil {
		t.Error("OpenRedis on dead redis succeeded")
	}
	if _, err := relay.OpenRedis(ctx, "not a url"); err == nil {
		t.Error("OpenRedis accepted a bad url")
	}
}

func TestNATSDown(t *testing.T) {
	if _, err := relay.OpenNATS("nats://localhost:1", discard()); err == nil {
		t.Error("OpenNATS on dead server succeeded")
	}
}
