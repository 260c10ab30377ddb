package names

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Atlético Madrid", "atletico madrid"},
		{"FC Barcelona", "barcelona"},
		{"Manchester Utd", "manchester united"},
		{"Real Sociedad", "real sociedad"},
		{"Borussia Mönchengladbach", "borussia monchengladbach"},
		{"AFC Bournemouth", "bournemouth"},
		{"Saint-Étienne", "saint etienne"},
		{"  Chelsea FC  ", "chelsea"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	once := Normalize("Atlético Madrid CF")
	if twice := Normalize(once); twice != once {
		t.Fatalf("normalization must be idempotent: %q vs %q", once, twice)
	}
}

func TestNormalizeAllSuffixName(t *testing.T) {
	t.Parallel()

	// A name made only of club tokens keeps its raw tokens instead of
	// collapsing to nothing.
	if got := Normalize("FC"); got == "" {
		t.Fatal("suffix-only names must not normalize to empty")
	}
}

func TestFirstToken(t *testing.T) {
	t.Parallel()

	if got := FirstToken("manchester united"); got != "manchester" {
		t.Fatalf("first token: %q", got)
	}
	if got := FirstToken("chelsea"); got != "chelsea" {
		t.Fatalf("single token: %q", got)
	}
}
