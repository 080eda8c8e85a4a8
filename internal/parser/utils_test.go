package parser

import "testing"

func TestExtractRIR_Pattern(t *testing.T) {
	t.Parallel()

	got := ExtractRIR("r(2) tempo slow")
	if got == nil || *got != 2 {
		t.Fatalf("r(2) tempo slow: want 2 got %v", got)
	}
}

func TestExtractRIR_FallbackFirstInteger(t *testing.T) {
	t.Parallel()

	got := ExtractRIR("3")
	if got == nil || *got != 3 {
		t.Fatalf("3: want 3 got %v", got)
	}

	got = ExtractRIR("aim for 1 left")
	if got == nil || *got != 1 {
		t.Fatalf("aim for 1 left: want 1 got %v", got)
	}
}

func TestExtractRIR_NoDigits(t *testing.T) {
	t.Parallel()

	if got := ExtractRIR("none"); got != nil {
		t.Fatalf("none: want nil got %v", got)
	}
	if got := ExtractRIR(""); got != nil {
		t.Fatalf("empty: want nil got %v", got)
	}
}

func TestLeadingInt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{"3x10", 3},
		{"12", 12},
		{"", 0},
		{"none", 0},
		{"x3", 0},
	}
	for _, tc := range cases {
		if got := leadingInt(tc.in); got != tc.want {
			t.Fatalf("leadingInt(%q): want %d got %d", tc.in, tc.want, got)
		}
	}
}

func TestNormalizeMuscleGroup(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Legs", "Legs"},
		{"LEGS", "Legs"},
		{`**"pecho"**`, "Pecho"},
		{"  back and biceps ", "Back And Biceps"},
		{"", "General"},
		{`"**"`, "General"},
	}
	for _, tc := range cases {
		if got := normalizeMuscleGroup(tc.in); got != tc.want {
			t.Fatalf("normalizeMuscleGroup(%q): want %q got %q", tc.in, tc.want, got)
		}
	}
}

func TestCleanCell(t *testing.T) {
	t.Parallel()

	if got := cleanCell(`  "90s" `); got != "90s" {
		t.Fatalf("want 90s got %q", got)
	}
}
