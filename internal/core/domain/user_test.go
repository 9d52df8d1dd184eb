package domain

import "testing"

func TestIsAdminTier(t *testing.T) {
	cases := map[string]bool{
		"admin":         true,
		"Admin":         true,
		"SUPER ADMIN":   true,
		"superadmin":    true,
		" Manager ":     true,
		"support":       true,
		"user":          false,
		"":              false,
		"administrator": false,
	}
	for role, want := range cases {
		if got := IsAdminTier(role); got != want {
			t.Errorf("IsAdminTier(%q) = %v, want %v", role, got, want)
		}
	}
}

func TestStatusIs(t *testing.T) {
	if !StatusIs("delivered", StatusDelivered) {
		t.Error("expected case-insensitive match")
	}
	if !StatusIs(" In Transit ", "in transit") {
		t.Error("expected whitespace-insensitive match")
	}
	if StatusIs("Delayed", StatusDelivered) {
		t.Error("unexpected match")
	}
}

func TestShipmentRecord_SameTracking(t *testing.T) {
	s := ShipmentRecord{TrackingNumber: "DML123"}
	if !s.SameTracking("dml123") {
		t.Error("expected case-insensitive tracking match")
	}
	if s.SameTracking("DML124") {
		t.Error("unexpected match")
	}
}
