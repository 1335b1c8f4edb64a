package hdd

import "testing"

func TestFormatSize(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{131, "131 B"},
		{999, "999 B"},
		{1000, "1 KB"},
		{1500, "1.5 KB"},
		{58812, "58.81 KB"},
		{68819826, "68.81 MB"},
		{39756861649, "39.75 GB"},
		{18754875155724, "18.75 TB"},
		{2500000000000000, "2.5 PB"},
		{7000000000000000000, "7000 PB"},
	}
	for _, c := range cases {
		if got := FormatSize(c.in); got != c.want {
			t.Fatalf("FormatSize(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
