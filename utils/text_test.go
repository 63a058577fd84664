package utils

import "testing"

func TestParseInt(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"$32,500", 32500, true},
		{"45000 mi.", 45000, true},
		{"price on request", 0, false},
		{"", 0, false},
		{"1,200", 1200, true},
	}

	for _, tt := range tests {
		got := ParseInt(tt.raw)
		if tt.ok {
			if got == nil || *got != tt.want {
				t.Errorf("ParseInt(%q) = %v; want %d", tt.raw, got, tt.want)
			}
		} else if got != nil {
			t.Errorf("ParseInt(%q) = %d; want nil", tt.raw, *got)
		}
	}
}

func TestRoundUp1k(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{45000, "45k"},
		{45001, "46k"},
		{32000, "32k"},
		{999999, "1,000k"},
		{500, "1k"},
	}

	for _, tt := range tests {
		if got := RoundUp1k(tt.n); got != tt.want {
			t.Errorf("RoundUp1k(%d) = %q; want %q", tt.n, got, tt.want)
		}
	}
}

func TestIsMono(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Black", true},
		{"Arctic Silver Metallic", true},
		{"Meteor Gray", true},
		{"Carrara White", true},
		{"Guards Red", false},
		{"Aqua Blue Metallic", false},
		{"", true},
	}

	for _, tt := range tests {
		if got := IsMono(tt.name); got != tt.want {
			t.Errorf("IsMono(%q) = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestMileageBand(t *testing.T) {
	band := func(n int) *int { return &n }

	tests := []struct {
		m    *int
		want string
	}{
		{nil, "unknown"},
		{band(12000), "0-39999"},
		{band(39999), "0-39999"},
		{band(40000), "40000-59999"},
		{band(75000), "60000-79999"},
		{band(99999), "80000-99999"},
		{band(140000), "100000+"},
	}

	for _, tt := range tests {
		if got := MileageBand(tt.m); got != tt.want {
			t.Errorf("MileageBand(%v) = %q; want %q", tt.m, got, tt.want)
		}
	}
}
