package enums

import "testing"

func TestParseOrderStatusIgnoresCase(t *testing.T) {
	cases := map[string]OrderStatus{
		"ordered":          OrderStatusOrdered,
		"OUT FOR DELIVERY": OrderStatusOutForDelivery,
		"  picked up ":     OrderStatusPickedUp,
		"Pickup Scheduled": OrderStatusPickupScheduled,
		"delivered":        OrderStatusDelivered,
	}
	for raw, want := range cases {
		got, err := ParseOrderStatus(raw)
		if err != nil {
			t.Fatalf("ParseOrderStatus(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseOrderStatus(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseOrderStatusRejectsUnknown(t *testing.T) {
	if _, err := ParseOrderStatus("lost at sea"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
	if _, err := ParseOrderStatus(""); err == nil {
		t.Fatal("expected empty status to fail")
	}
}

func TestOrderStatusMatches(t *testing.T) {
	if !OrderStatusInTransit.Matches("in transit") {
		t.Fatal("expected case-insensitive match")
	}
	if OrderStatusInTransit.Matches("in-transit") {
		t.Fatal("expected punctuation mismatch")
	}
}
