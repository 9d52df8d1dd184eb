package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Branch A: history present
// ---------------------------------------------------------------------------

func TestReconcile_History_SortsAscending(t *testing.T) {
	out := fetchOutcome{
		history: &ports.StatusPayload{HasHistory: true, History: []domain.StatusLogEntry{
			{Status: "Delivered", Timestamp: "2025-01-05T00:00:00Z"},
			{Status: "Registered", Timestamp: "2025-01-01T00:00:00Z"},
			{Status: "In Transit", Timestamp: "2025-01-03T00:00:00Z"},
		}},
		historyID: "DML123",
	}

	view, branch, err := reconcile(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if branch != branchHistory {
		t.Errorf("branch: want %q, got %q", branchHistory, branch)
	}

	want := []string{"Registered", "In Transit", "Delivered"}
	for i, e := range view.Timeline {
		if e.Status != want[i] {
			t.Errorf("timeline[%d]: want %q, got %q", i, want[i], e.Status)
		}
	}
	if view.TrackingID != "DML123" {
		t.Errorf("TrackingID: want %q, got %q", "DML123", view.TrackingID)
	}
}

func TestReconcile_History_LatestNonEmptyLocation(t *testing.T) {
	out := fetchOutcome{
		history: &ports.StatusPayload{HasHistory: true, History: []domain.StatusLogEntry{
			{Status: "Registered", Location: "", Timestamp: "2025-01-01T00:00:00Z"},
			{Status: "In Transit", Location: "Chicago Hub", Timestamp: "2025-01-03T00:00:00Z"},
			{Status: "Delivered", Location: "", Timestamp: "2025-01-05T00:00:00Z"},
		}},
		historyID: "DML123",
	}

	view, _, err := reconcile(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.CurrentLocation != "Chicago Hub" {
		t.Errorf("CurrentLocation: want %q, got %q", "Chicago Hub", view.CurrentLocation)
	}
	if view.Status != "Delivered" {
		t.Errorf("Status: want %q, got %q", "Delivered", view.Status)
	}
	last := view.Timeline[len(view.Timeline)-1]
	if !last.Completed {
		t.Error("last entry must be completed when delivered")
	}
	if last.Location != domain.NotAvailable {
		t.Errorf("empty location must read %q, got %q", domain.NotAvailable, last.Location)
	}
}

func TestReconcile_History_CompletedFlags(t *testing.T) {
	cases := []struct {
		latest   string
		wantLast bool
	}{
		{"Delivered", true},
		{"delivered", true},
		{"In Transit", false},
		{"Delayed", false},
	}

	for _, tc := range cases {
		out := fetchOutcome{
			history: &ports.StatusPayload{HasHistory: true, History: []domain.StatusLogEntry{
				{Status: "Registered", Timestamp: "2025-01-01T00:00:00Z"},
				{Status: "At Facility", Timestamp: "2025-01-02T00:00:00Z"},
				{Status: tc.latest, Timestamp: "2025-01-03T00:00:00Z"},
			}},
		}
		view, _, err := reconcile(out)
		if err != nil {
			t.Fatalf("latest=%q: unexpected error: %v", tc.latest, err)
		}
		for i, e := range view.Timeline[:len(view.Timeline)-1] {
			if !e.Completed {
				t.Errorf("latest=%q: timeline[%d] must be completed", tc.latest, i)
			}
		}
		if got := view.Timeline[len(view.Timeline)-1].Completed; got != tc.wantLast {
			t.Errorf("latest=%q: last completed = %v, want %v", tc.latest, got, tc.wantLast)
		}
	}
}

func TestReconcile_History_UnparseableTimestampsSortFirst(t *testing.T) {
	out := fetchOutcome{
		history: &ports.StatusPayload{HasHistory: true, History: []domain.StatusLogEntry{
			{Status: "In Transit", Location: "Denver", Timestamp: "2025-02-01T10:00:00Z"},
			{Status: "Registered", Location: "Old Depot", Timestamp: "not a date"},
			{Status: "Out for Delivery", Location: "", Timestamp: ""},
		}},
	}

	view, _, err := reconcile(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Status != "In Transit" {
		t.Errorf("Status: want %q, got %q", "In Transit", view.Status)
	}
	if view.CurrentLocation != "Denver" {
		t.Errorf("CurrentLocation: want %q, got %q", "Denver", view.CurrentLocation)
	}
	if view.Timeline[0].Status != "Registered" || view.Timeline[1].Status != "Out for Delivery" {
		t.Errorf("undated entries must keep backend order at the front, got %+v", view.Timeline)
	}
}

func TestReconcile_History_DateTimePairTimestamps(t *testing.T) {
	out := fetchOutcome{
		history: &ports.StatusPayload{HasHistory: true, History: []domain.StatusLogEntry{
			{Status: "At Facility", Timestamp: "2025-03-02 09:15"},
			{Status: "Registered", Timestamp: "2025-03-01 17:40:00"},
		}},
	}

	view, _, err := reconcile(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Status != "At Facility" {
		t.Errorf("Status: want %q, got %q", "At Facility", view.Status)
	}
	if view.Timeline[0].Date != "2025-03-01 17:40:00" {
		t.Errorf("Date must keep the raw timestamp, got %q", view.Timeline[0].Date)
	}
	if view.Timeline[0].Time != "" {
		t.Errorf("Time must be left for the presenter, got %q", view.Timeline[0].Time)
	}
}

func TestReconcile_History_USLocaleTimestamps(t *testing.T) {
	out := fetchOutcome{
		history: &ports.StatusPayload{HasHistory: true, History: []domain.StatusLogEntry{
			{Status: "Delivered", Location: "Austin", Timestamp: "1/5/2025 2:30:15 PM"},
			{Status: "Registered", Location: "Dallas", Timestamp: "1/1/2025 9:00:00 AM"},
			{Status: "In Transit", Location: "Waco", Timestamp: "1/3/2025 11:15:00 AM"},
		}},
	}

	view, _, err := reconcile(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Registered", "In Transit", "Delivered"}
	for i, status := range want {
		if view.Timeline[i].Status != status {
			t.Errorf("entry %d: want %q, got %q", i, status, view.Timeline[i].Status)
		}
	}
	if view.Status != "Delivered" {
		t.Errorf("Status: want %q, got %q", "Delivered", view.Status)
	}
	if view.CurrentLocation != "Austin" {
		t.Errorf("CurrentLocation: want %q, got %q", "Austin", view.CurrentLocation)
	}
}

func TestReconcile_History_FallsBackToSnapshotLocation(t *testing.T) {
	out := fetchOutcome{
		details: &ports.ShipmentSnapshot{
			CurrentLocation: "Memphis Sort Center",
			SenderAddress:   "1 Main St",
		},
		history: &ports.StatusPayload{HasHistory: true, History: []domain.StatusLogEntry{
			{Status: "Registered", Timestamp: "2025-01-01T00:00:00Z"},
		}},
	}

	view, _, err := reconcile(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.CurrentLocation != "Memphis Sort Center" {
		t.Errorf("CurrentLocation: want snapshot location, got %q", view.CurrentLocation)
	}
}

func TestReconcile_History_NeverUsesSenderAddress(t *testing.T) {
	out := fetchOutcome{
		details: &ports.ShipmentSnapshot{SenderAddress: "1 Main St"},
		history: &ports.StatusPayload{HasHistory: true, History: []domain.StatusLogEntry{
			{Status: "Registered", Timestamp: "2025-01-01T00:00:00Z"},
			{Status: "In Transit", Timestamp: "2025-01-02T00:00:00Z"},
		}},
	}

	view, _, err := reconcile(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.CurrentLocation == "1 Main St" {
		t.Fatal("sender address must never be reported as current location")
	}
	if view.CurrentLocation != domain.LocationNotSpecified {
		t.Errorf("CurrentLocation: want %q, got %q", domain.LocationNotSpecified, view.CurrentLocation)
	}
}

func TestReconcile_History_CarriesCoordinatesAndNotes(t *testing.T) {
	out := fetchOutcome{
		history: &ports.StatusPayload{HasHistory: true, History: []domain.StatusLogEntry{
			{Status: "At Facility", Timestamp: "2025-01-01T00:00:00Z", Location: "Reno", Coordinates: "39.5, -119.8", Note: "scanned"},
		}},
	}

	view, _, _ := reconcile(out)
	e := view.Timeline[0]
	if e.Coordinates != "39.5, -119.8" || e.Note != "scanned" {
		t.Errorf("coordinates/note not carried: %+v", e)
	}
}

func TestReconcile_History_SnapshotFieldsFillView(t *testing.T) {
	out := fetchOutcome{
		details: &ports.ShipmentSnapshot{
			ReceiverName:      "Ada Lovelace",
			ReceiverAddress:   "12 Analytical Way",
			PackageType:       "Express",
			EstimatedDelivery: "2025-01-07T00:00:00Z",
		},
		history: &ports.StatusPayload{HasHistory: true, History: []domain.StatusLogEntry{
			{Status: "Registered", Timestamp: "2025-01-01T00:00:00Z"},
		}},
	}

	view, _, _ := reconcile(out)
	if view.RecipientName != "Ada Lovelace" || view.DestinationAddress != "12 Analytical Way" || view.ServiceType != "Express" {
		t.Errorf("snapshot fields not applied: %+v", view)
	}
	if view.EstimatedDelivery == nil || view.EstimatedDelivery.Day() != 7 {
		t.Errorf("EstimatedDelivery not parsed: %v", view.EstimatedDelivery)
	}
}

// ---------------------------------------------------------------------------
// Branch B: snapshot only
// ---------------------------------------------------------------------------

func TestReconcile_Snapshot_NeverUsesSenderAddress(t *testing.T) {
	out := fetchOutcome{
		details: &ports.ShipmentSnapshot{
			Status:        "Registered",
			SenderAddress: "1 Main St",
			CreatedAt:     "2025-01-01T00:00:00Z",
		},
		detailsID: "DML123",
		history:   &ports.StatusPayload{HasHistory: true},
	}

	view, branch, err := reconcile(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if branch != branchSnapshot {
		t.Errorf("branch: want %q, got %q", branchSnapshot, branch)
	}
	if view.CurrentLocation != domain.LocationNotSpecified {
		t.Errorf("CurrentLocation: want %q, got %q", domain.LocationNotSpecified, view.CurrentLocation)
	}
	if len(view.Timeline) != 1 {
		t.Fatalf("expected one synthesized entry, got %d", len(view.Timeline))
	}
	if view.Timeline[0].Date != "2025-01-01T00:00:00Z" {
		t.Errorf("synthesized entry must use registration time, got %q", view.Timeline[0].Date)
	}
	if view.Timeline[0].Completed {
		t.Error("registered shipment must not be completed")
	}
}

func TestReconcile_Snapshot_UsesCurrentLocation(t *testing.T) {
	out := fetchOutcome{
		details: &ports.ShipmentSnapshot{Status: "delivered", CurrentLocation: "Front porch"},
	}

	view, _, _ := reconcile(out)
	if view.CurrentLocation != "Front porch" {
		t.Errorf("CurrentLocation: want %q, got %q", "Front porch", view.CurrentLocation)
	}
	if !view.Timeline[0].Completed {
		t.Error("delivered snapshot must be completed")
	}
}

// ---------------------------------------------------------------------------
// Branch C and D
// ---------------------------------------------------------------------------

func TestReconcile_BareStatus(t *testing.T) {
	out := fetchOutcome{
		bare:   &ports.StatusPayload{Status: "In Transit", CurrentLocation: "Atlanta"},
		bareID: "dml9",
	}

	view, branch, err := reconcile(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if branch != branchStatus {
		t.Errorf("branch: want %q, got %q", branchStatus, branch)
	}
	if view.TrackingID != "dml9" || view.Status != "In Transit" || view.CurrentLocation != "Atlanta" {
		t.Errorf("unexpected view: %+v", view)
	}
	if len(view.Timeline) != 1 {
		t.Fatalf("expected one entry, got %d", len(view.Timeline))
	}
}

func TestReconcile_NothingResolves(t *testing.T) {
	_, branch, err := reconcile(fetchOutcome{})
	if !errors.Is(err, domain.ErrTrackingNotFound) {
		t.Fatalf("expected ErrTrackingNotFound, got %v", err)
	}
	if branch != branchNone {
		t.Errorf("branch: want %q, got %q", branchNone, branch)
	}
}

func TestReconcile_IsDeterministic(t *testing.T) {
	out := fetchOutcome{
		details: &ports.ShipmentSnapshot{ReceiverName: "Bo"},
		history: &ports.StatusPayload{HasHistory: true, History: []domain.StatusLogEntry{
			{Status: "In Transit", Location: "Hub", Timestamp: "2025-01-02T00:00:00Z"},
			{Status: "Registered", Timestamp: "2025-01-01T00:00:00Z"},
		}},
	}

	first, _, _ := reconcile(out)
	second, _, _ := reconcile(out)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("reconcile is not deterministic:\n%+v\n%+v", first, second)
	}
	if out.history.History[0].Status != "In Transit" {
		t.Error("reconcile must not reorder the caller's history slice")
	}
}
