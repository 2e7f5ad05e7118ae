package util

import "testing"

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"alice@example.com", "a…@e….com"},
		{"Bob@Example.COM", "b…@e….com"},
		{"a@b.io", "a@b.io"},
		{"", ""},
		{"xy", "***"},
		{"not-an-email", "n…l"},
	}
	for _, tc := range cases {
		if got := MaskEmail(tc.in); got != tc.want {
			t.Fatalf("MaskEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
