package orders

import "testing"

func TestNextOrderNumber(t *testing.T) {
	cases := []struct {
		last string
		want string
	}{
		{"", "ORD-0000001"},
		{"ORD-0000001", "ORD-0000002"},
		{"ORD-0000999", "ORD-0001000"},
		{" ORD-0041999 ", "ORD-0042000"},
		{"garbage", "ORD-0000001"},
		{"ORD-9999999", "ORD-10000000"},
	}
	for _, tc := range cases {
		if got := NextOrderNumber(tc.last); got != tc.want {
			t.Errorf("NextOrderNumber(%q) = %s, want %s", tc.last, got, tc.want)
		}
	}
}
