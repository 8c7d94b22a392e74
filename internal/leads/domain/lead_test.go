package domain

import "testing"

func TestFormTypeFor(t *testing.T) {
	cases := []struct {
		propertyType string
		want         string
	}{
		{"immeuble-revenus-5-et-plus", FormTypeIncomeProperty},
		{"immeuble-revenus", FormTypeIncomeProperty},
		{"duplex", FormTypeIncomeProperty},
		{"triplex", FormTypeIncomeProperty},
		{"quadruplex", FormTypeIncomeProperty},
		{"unifamiliale", FormTypeStandard},
		{"condo", FormTypeStandard},
		{"", FormTypeStandard},
	}
	for _, c := range cases {
		if got := FormTypeFor(c.propertyType); got != c.want {
			t.Errorf("FormTypeFor(%q) = %q, want %q", c.propertyType, got, c.want)
		}
	}
}
