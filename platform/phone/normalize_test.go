package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"514-555-0123", "+15145550123"},
		{"(514) 555-0123", "+15145550123"},
		{"+1 514 555 0123", "+15145550123"},
		{" 5145550123 ", "+15145550123"},
		// Unparseable or invalid input passes through trimmed.
		{"123", "123"},
		{" allo ", "allo"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.input); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
