package names

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"  jean-LUC   o’brien ", "Jean-Luc O'Brien"},
		{"MARIE CLAUDE", "Marie Claude"},
		{"élise tremblay", "Élise Tremblay"},
		{"jean--pierre", "Jean--Pierre"},
		{"-marie ", "Marie"},
		{"   ", ""},
		{"123", ""},
	}

	for _, tc := range cases {
		if got := Normalize(tc.input); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSplitFirstLast(t *testing.T) {
	first, last := SplitFirstLast("Jean Luc Tremblay")
	if first == nil || *first != "Jean" {
		t.Fatalf("expected first name Jean, got %v", first)
	}
	if last == nil || *last != "Luc Tremblay" {
		t.Fatalf("expected last name 'Luc Tremblay', got %v", last)
	}

	first, last = SplitFirstLast("Madonna")
	if first == nil || *first != "Madonna" {
		t.Fatalf("expected single first name, got %v", first)
	}
	if last != nil {
		t.Fatalf("expected nil last name, got %q", *last)
	}

	first, last = SplitFirstLast("")
	if first != nil || last != nil {
		t.Fatal("expected nil parts for empty input")
	}
}
