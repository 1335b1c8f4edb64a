package hdd

import "testing"

func TestNormalizeTarget(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"0", `\\.\PhysicalDrive0`},
		{" 12 ", `\\.\PhysicalDrive12`},
		{"PhysicalDrive3", `\\.\PhysicalDrive3`},
		{"PHYSICALDRIVE3", `\\.\PHYSICALDRIVE3`},
		{`\\.\PhysicalDrive1`, `\\.\PhysicalDrive1`},
		{"/dev/sdb", "/dev/sdb"},
		{"ps2.img", "ps2.img"},
	}
	for _, c := range cases {
		if got := NormalizeTarget(c.in); got != c.want {
			t.Fatalf("NormalizeTarget(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestToolTargetAndLabel(t *testing.T) {
	cases := []struct {
		in, tool, label string
	}{
		{`\\.\PHYSICALDRIVE2`, "hdd2:", "HDD2"},
		{"1", "hdd1:", "HDD1"},
		{"physicaldrive10", "hdd10:", "HDD10"},
		{"/dev/sdc", "/dev/sdc", "/dev/sdc"},
	}
	for _, c := range cases {
		if got := ToolTarget(c.in); got != c.tool {
			t.Fatalf("ToolTarget(%q) = %q, want %q", c.in, got, c.tool)
		}
		if got := DriveLabel(c.in); got != c.label {
			t.Fatalf("DriveLabel(%q) = %q, want %q", c.in, got, c.label)
		}
	}
}
