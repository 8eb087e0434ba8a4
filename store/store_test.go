package store

import "testing"

func TestClampLimit(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"negative", -5, 1},
		{"zero", 0, 1},
		{"one", 1, 1},
		{"in range", 3, 3},
		{"upper bound", 50, 50},
		{"above bound", 500, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampLimit(tc.limit); got != tc.want {
				t.Fatalf("ClampLimit(%d) = %d, want %d", tc.limit, got, tc.want)
			}
		})
	}
}
