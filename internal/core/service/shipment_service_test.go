package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubShipmentGateway struct {
	flat      []ports.FlatShipment
	nested    []ports.NestedShipment
	listErr   error
	createRes *ports.MutationResult
	createErr error
	updateRes *ports.MutationResult
	updateErr error

	allCalls    int
	recentCalls int
	recentEmail string
	updates     []ports.StatusUpdateInput
}

func (g *stubShipmentGateway) AllShipments(_ context.Context) ([]ports.FlatShipment, error) {
	g.allCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.flat, nil
}

func (g *stubShipmentGateway) RecentShipments(_ context.Context, email string) ([]ports.NestedShipment, error) {
	g.recentCalls++
	g.recentEmail = email
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.nested, nil
}

func (g *stubShipmentGateway) CreateShipment(_ context.Context, _ ports.CreateShipmentInput) (*ports.MutationResult, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	res := *g.createRes
	return &res, nil
}

func (g *stubShipmentGateway) UpdateStatus(_ context.Context, _ string, input ports.StatusUpdateInput) (*ports.MutationResult, error) {
	g.updates = append(g.updates, input)
	if g.updateErr != nil {
		return nil, g.updateErr
	}
	res := *g.updateRes
	return &res, nil
}

type stubDedup struct {
	seen     map[string]bool
	checkErr error
}

func newStubDedup() *stubDedup { return &stubDedup{seen: make(map[string]bool)} }

func (d *stubDedup) IsDuplicate(_ context.Context, tn, status, loc string) (bool, error) {
	if d.checkErr != nil {
		return false, d.checkErr
	}
	return d.seen[tn+"|"+status+"|"+loc], nil
}

func (d *stubDedup) Mark(_ context.Context, tn, status, loc string) error {
	d.seen[tn+"|"+status+"|"+loc] = true
	return nil
}

type captureRecorder struct {
	mu      sync.Mutex
	entries []domain.ActivityEntry
}

func (c *captureRecorder) Record(e domain.ActivityEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

var (
	adminActor = domain.Actor{Email: "ops@dml.test", Name: "Ops", Role: "Super Admin"}
	userActor  = domain.Actor{Email: "Kim@Example.com", Name: "Kim", Role: domain.RoleUser}
)

func newTestShipmentService(gw *stubShipmentGateway) (*ShipmentService, *stubDedup, *captureRecorder) {
	dedup := newStubDedup()
	rec := &captureRecorder{}
	return NewShipmentService(gw, dedup, rec, time.Minute, zerolog.Nop()), dedup, rec
}

// ---------------------------------------------------------------------------
// ListShipments
// ---------------------------------------------------------------------------

func TestListShipments_AdminUsesFlatListing(t *testing.T) {
	gw := &stubShipmentGateway{flat: []ports.FlatShipment{{
		TrackingNumber:  "DML1",
		SenderName:      "Ana",
		SenderAddress:   "1 Main St",
		ReceiverName:    "Kim",
		ReceiverAddress: "9 Elm St",
		PackageType:     "Box",
		Weight:          2.5,
		Cost:            12,
		Status:          "In Transit",
		CreatedAt:       "2025-01-01T10:00:00Z",
	}}}
	svc, _, _ := newTestShipmentService(gw)

	got := svc.ListShipments(context.Background(), adminActor)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if gw.allCalls != 1 || gw.recentCalls != 0 {
		t.Errorf("admin must use the full listing: all=%d recent=%d", gw.allCalls, gw.recentCalls)
	}
	r := got[0]
	if r.Sender.Name != "Ana" || r.Receiver.Address != "9 Elm St" || r.Package.Weight != 2.5 {
		t.Errorf("flat fields not mapped: %+v", r)
	}
	if r.RegisteredAt.IsZero() {
		t.Error("RegisteredAt must be parsed")
	}
}

func TestListShipments_UserUsesNestedListing(t *testing.T) {
	gw := &stubShipmentGateway{nested: []ports.NestedShipment{{
		TrackingNumber: "DML2",
		Sender:         ports.PartyInput{Name: "Kim", Address: "9 Elm St"},
		Receiver:       ports.PartyInput{Name: "Lee", Address: "4 Oak Ave"},
		PackageType:    "Envelope",
	}}}
	svc, _, _ := newTestShipmentService(gw)

	got := svc.ListShipments(context.Background(), userActor)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if gw.recentCalls != 1 || gw.allCalls != 0 {
		t.Errorf("user must use the recent listing: all=%d recent=%d", gw.allCalls, gw.recentCalls)
	}
	if gw.recentEmail != userActor.Email {
		t.Errorf("recent listing must be queried by email, got %q", gw.recentEmail)
	}
	if got[0].Receiver.Name != "Lee" || got[0].Package.Type != "Envelope" {
		t.Errorf("nested fields not mapped: %+v", got[0])
	}
}

func TestListShipments_MissingStatusDefaultsOnBothShapes(t *testing.T) {
	gw := &stubShipmentGateway{
		flat:   []ports.FlatShipment{{TrackingNumber: "A"}},
		nested: []ports.NestedShipment{{TrackingNumber: "B", Status: "  "}},
	}
	svc, _, _ := newTestShipmentService(gw)

	if s := svc.ListShipments(context.Background(), adminActor)[0].Status; s != domain.StatusRegistered {
		t.Errorf("flat: want %q, got %q", domain.StatusRegistered, s)
	}
	if s := svc.ListShipments(context.Background(), userActor)[0].Status; s != domain.StatusRegistered {
		t.Errorf("nested: want %q, got %q", domain.StatusRegistered, s)
	}
}

func TestListShipments_ErrorYieldsEmptyList(t *testing.T) {
	gw := &stubShipmentGateway{listErr: errors.New("backend down")}
	svc, _, _ := newTestShipmentService(gw)

	got := svc.ListShipments(context.Background(), adminActor)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestListShipments_UserWithoutEmail(t *testing.T) {
	gw := &stubShipmentGateway{}
	svc, _, _ := newTestShipmentService(gw)

	got := svc.ListShipments(context.Background(), domain.Actor{Role: domain.RoleUser})
	if len(got) != 0 {
		t.Errorf("expected no shipments, got %d", len(got))
	}
	if gw.recentCalls != 0 {
		t.Error("backend must not be queried without an email")
	}
}

func TestListShipments_CachedPerScope(t *testing.T) {
	gw := &stubShipmentGateway{
		flat:   []ports.FlatShipment{{TrackingNumber: "A"}},
		nested: []ports.NestedShipment{{TrackingNumber: "B"}},
	}
	svc, _, _ := newTestShipmentService(gw)
	ctx := context.Background()

	first := svc.ListShipments(ctx, adminActor)
	first[0].Status = "mutated by caller"
	second := svc.ListShipments(ctx, adminActor)
	_ = svc.ListShipments(ctx, userActor)

	if gw.allCalls != 1 {
		t.Errorf("second admin listing must come from cache, got %d calls", gw.allCalls)
	}
	if gw.recentCalls != 1 {
		t.Errorf("user scope is cached separately, got %d calls", gw.recentCalls)
	}
	if second[0].Status == "mutated by caller" {
		t.Error("cached listing must not be aliased to a previous result")
	}
}

// ---------------------------------------------------------------------------
// GetShipment
// ---------------------------------------------------------------------------

func TestGetShipment(t *testing.T) {
	gw := &stubShipmentGateway{flat: []ports.FlatShipment{{TrackingNumber: "DML9", ReceiverName: "Kim"}}}
	svc, _, _ := newTestShipmentService(gw)
	ctx := context.Background()

	got, err := svc.GetShipment(ctx, adminActor, " dml9 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Receiver.Name != "Kim" {
		t.Errorf("wrong record: %+v", got)
	}

	if _, err := svc.GetShipment(ctx, adminActor, "NOPE"); !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Errorf("expected ErrShipmentNotFound, got %v", err)
	}
	if _, err := svc.GetShipment(ctx, adminActor, " "); !errors.Is(err, domain.ErrMissingTrackingNumber) {
		t.Errorf("expected ErrMissingTrackingNumber, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// CreateShipment
// ---------------------------------------------------------------------------

func TestCreateShipment_RefreshesListing(t *testing.T) {
	gw := &stubShipmentGateway{
		nested:    []ports.NestedShipment{{TrackingNumber: "OLD"}},
		createRes: &ports.MutationResult{Success: true, TrackingNumber: "NEW"},
	}
	svc, _, rec := newTestShipmentService(gw)
	ctx := context.Background()

	_ = svc.ListShipments(ctx, userActor)
	gw.nested = append(gw.nested, ports.NestedShipment{TrackingNumber: "NEW"})

	res := svc.CreateShipment(ctx, userActor, ports.CreateShipmentInput{PackageType: "Box"})
	if !res.Success || res.TrackingNumber != "NEW" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if gw.recentCalls != 2 {
		t.Errorf("create must trigger a refetch, got %d calls", gw.recentCalls)
	}
	if got := svc.ListShipments(ctx, userActor); len(got) != 2 {
		t.Errorf("listing after create: want 2 records, got %d", len(got))
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != domain.ActivityShipmentCreated {
		t.Errorf("expected one shipment_created entry, got %+v", rec.entries)
	}
}

func TestCreateShipment_Failures(t *testing.T) {
	ctx := context.Background()

	gw := &stubShipmentGateway{createErr: errors.New("timeout")}
	svc, _, rec := newTestShipmentService(gw)
	res := svc.CreateShipment(ctx, userActor, ports.CreateShipmentInput{})
	if res.Success || res.Error == "" {
		t.Errorf("transport failure must yield an error result, got %+v", res)
	}

	gw = &stubShipmentGateway{createRes: &ports.MutationResult{Error: "invalid weight"}}
	svc, _, rec = newTestShipmentService(gw)
	res = svc.CreateShipment(ctx, userActor, ports.CreateShipmentInput{})
	if res.Success || res.Error != "invalid weight" {
		t.Errorf("backend rejection must be passed through, got %+v", res)
	}
	if len(rec.entries) != 0 {
		t.Error("failed creates must not be recorded")
	}
	if gw.recentCalls != 0 {
		t.Error("failed creates must not refresh")
	}
}

// ---------------------------------------------------------------------------
// UpdateStatus
// ---------------------------------------------------------------------------

func TestUpdateStatus_SkipsDuplicates(t *testing.T) {
	gw := &stubShipmentGateway{updateRes: &ports.MutationResult{Success: true}}
	svc, _, rec := newTestShipmentService(gw)
	ctx := context.Background()
	input := ports.StatusUpdateInput{Status: "In Transit", Location: "Dallas"}

	first := svc.UpdateStatus(ctx, adminActor, "DML1", input)
	if !first.Success || first.Duplicate || first.TrackingNumber != "DML1" {
		t.Fatalf("first update: %+v", first)
	}
	second := svc.UpdateStatus(ctx, adminActor, "DML1", input)
	if !second.Success || !second.Duplicate {
		t.Fatalf("second update must be flagged duplicate: %+v", second)
	}
	if len(gw.updates) != 1 {
		t.Errorf("backend must be called once, got %d", len(gw.updates))
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != domain.ActivityStatusUpdated {
		t.Errorf("expected one status_updated entry, got %+v", rec.entries)
	}

	other := svc.UpdateStatus(ctx, adminActor, "DML1", ports.StatusUpdateInput{Status: "In Transit", Location: "Austin"})
	if other.Duplicate {
		t.Error("a different location is a new update")
	}
}

func TestUpdateStatus_DedupErrorStillUpdates(t *testing.T) {
	gw := &stubShipmentGateway{updateRes: &ports.MutationResult{Success: true}}
	svc, dedup, _ := newTestShipmentService(gw)
	dedup.checkErr = errors.New("redis unavailable")

	res := svc.UpdateStatus(context.Background(), adminActor, "DML1", ports.StatusUpdateInput{Status: "Delivered"})
	if !res.Success || res.Duplicate {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(gw.updates) != 1 {
		t.Errorf("backend must be called, got %d", len(gw.updates))
	}
}

func TestUpdateStatus_FailureNotMarked(t *testing.T) {
	gw := &stubShipmentGateway{updateErr: errors.New("502")}
	svc, dedup, _ := newTestShipmentService(gw)
	ctx := context.Background()
	input := ports.StatusUpdateInput{Status: "Delayed"}

	if res := svc.UpdateStatus(ctx, adminActor, "DML1", input); res.Success {
		t.Fatalf("expected failure, got %+v", res)
	}
	if len(dedup.seen) != 0 {
		t.Error("failed update must not be marked as applied")
	}
	if res := svc.UpdateStatus(ctx, adminActor, "", input); res.Success || res.Error == "" {
		t.Errorf("empty tracking number must fail, got %+v", res)
	}
}

func TestRecordReceipt(t *testing.T) {
	svc, _, rec := newTestShipmentService(&stubShipmentGateway{})
	svc.RecordReceipt(userActor, "DML1")

	if len(rec.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Action != domain.ActivityReceiptGenerated || e.TrackingNumber != "DML1" || e.ActorEmail != userActor.Email {
		t.Errorf("unexpected entry: %+v", e)
	}
}
