package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmlogistics/portal/internal/core/domain"
)

// blockingResolver holds each query until its release channel is closed.
type blockingResolver struct {
	started chan string
	release map[string]chan struct{}
}

func (r *blockingResolver) Resolve(ctx context.Context, rawID string) (*domain.TrackingView, error) {
	r.started <- rawID
	select {
	case <-r.release[rawID]:
	case <-ctx.Done():
	}
	return &domain.TrackingView{TrackingID: rawID}, nil
}

func TestTrackingSessions_DiscardsStaleResult(t *testing.T) {
	r := &blockingResolver{
		started: make(chan string, 3),
		release: map[string]chan struct{}{
			"OLD":   make(chan struct{}),
			"NEW":   make(chan struct{}),
			"AGAIN": make(chan struct{}),
		},
	}
	sessions := NewTrackingSessions(r, time.Minute)

	type result struct {
		view *domain.TrackingView
		err  error
	}
	oldDone := make(chan result, 1)
	go func() {
		v, err := sessions.Track(context.Background(), "browser-1", "OLD")
		oldDone <- result{v, err}
	}()
	<-r.started

	newDone := make(chan result, 1)
	go func() {
		v, err := sessions.Track(context.Background(), "browser-1", "NEW")
		newDone <- result{v, err}
	}()
	<-r.started

	// The newer query cancelled the older one's context.
	old := <-oldDone
	if !errors.Is(old.err, domain.ErrSupersededQuery) {
		t.Fatalf("stale query: expected ErrSupersededQuery, got view=%v err=%v", old.view, old.err)
	}

	close(r.release["NEW"])
	latest := <-newDone
	if latest.err != nil {
		t.Fatalf("latest query failed: %v", latest.err)
	}
	if latest.view.TrackingID != "NEW" {
		t.Errorf("expected NEW, got %q", latest.view.TrackingID)
	}

	// A third query on a finished session runs normally.
	close(r.release["AGAIN"])
	again, err := sessions.Track(context.Background(), "browser-1", "AGAIN")
	if err != nil || again.TrackingID != "AGAIN" {
		t.Errorf("follow-up query: view=%v err=%v", again, err)
	}
}

func TestTrackingSessions_IndependentSessions(t *testing.T) {
	r := &blockingResolver{
		started: make(chan string, 2),
		release: map[string]chan struct{}{
			"A": make(chan struct{}),
			"B": make(chan struct{}),
		},
	}
	close(r.release["A"])
	close(r.release["B"])
	sessions := NewTrackingSessions(r, time.Minute)

	a, err := sessions.Track(context.Background(), "s1", "A")
	if err != nil {
		t.Fatalf("s1: %v", err)
	}
	b, err := sessions.Track(context.Background(), "s2", "B")
	if err != nil {
		t.Fatalf("s2: %v", err)
	}
	if a.TrackingID != "A" || b.TrackingID != "B" {
		t.Errorf("unexpected views %q %q", a.TrackingID, b.TrackingID)
	}
}

func TestTrackingSessions_PropagatesResolverError(t *testing.T) {
	svc := NewTrackingService(newStubTrackingGateway(), zerolog.Nop())
	sessions := NewTrackingSessions(svc, 0)

	_, err := sessions.Track(context.Background(), "s1", "  ")
	if !errors.Is(err, domain.ErrMissingTrackingNumber) {
		t.Fatalf("expected ErrMissingTrackingNumber, got %v", err)
	}
}
