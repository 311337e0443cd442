package postgres

import (
	"strings"
	"testing"

	domainsubmission "petrodata-cloud/internal/submission/domain"
)

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Lagos", "Lagos"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}
	for _, tc := range cases {
		if got := escapeLike(tc.in); got != tc.want {
			t.Fatalf("escapeLike(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFilterClause_SearchPatternIsLiteral(t *testing.T) {
	where, args := filterClause(domainsubmission.Filter{Search: "100%"})

	if len(args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(args))
	}
	if args[0] != `%100\%%` {
		t.Fatalf("expected escaped pattern, got %q", args[0])
	}
	if !strings.Contains(where, `ESCAPE '\'`) {
		t.Fatalf("expected ESCAPE clause, got %q", where)
	}
}

func TestFilterClause_StatusAndSearchCombine(t *testing.T) {
	where, args := filterClause(domainsubmission.Filter{
		Status: domainsubmission.StatusPending,
		Search: "kano",
	})

	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	if args[0] != "pending" || args[1] != "%kano%" {
		t.Fatalf("unexpected args %v", args)
	}
	if !strings.Contains(where, "status = $1") || !strings.Contains(where, "ILIKE $2") {
		t.Fatalf("unexpected clause %q", where)
	}
}
