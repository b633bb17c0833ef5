package utils

import "testing"

func TestIsSingleChar(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{".", true},
		{"I", true},
		{"ß", true},
		{"日", true},
		{"ab", false},
		{"日本", false},
		{"\xff", true},
	}

	for _, tc := range testCases {
		if got := IsSingleChar(tc.input); got != tc.expected {
			t.Errorf("IsSingleChar(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

func TestFormatWithCommas(t *testing.T) {
	testCases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for n, expected := range testCases {
		if got := FormatWithCommas(n); got != expected {
			t.Errorf("FormatWithCommas(%d): expected '%s', got '%s'", n, expected, got)
		}
	}
}

func TestIsComment(t *testing.T) {
	for _, line := range []string{"", "   ", "# note", "  #x"} {
		if !IsComment(line) {
			t.Errorf("expected %q to be skipped", line)
		}
	}
	if IsComment("the") {
		t.Errorf("did not expect 'the' to be skipped")
	}
}

func TestNormalizeWord(t *testing.T) {
	testCases := []struct {
		a, b string
	}{
		{"The", "the"},
		{"MARKET", "market"},
		{"Straße", "STRASSE"},
		{"ΣΟΦΟΣ", "σοφος"},
	}
	for _, tc := range testCases {
		if NormalizeWord(tc.a) != NormalizeWord(tc.b) {
			t.Errorf("expected %q and %q to normalize alike: %q vs %q",
				tc.a, tc.b, NormalizeWord(tc.a), NormalizeWord(tc.b))
		}
	}
}
