package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("pick_id", "market_type").
		From("picks").
		Where(Eq("match_id", "m1"), IsNull("closing_odds"), Lt("kickoff", "2026-04-02")).
		OrderBy("kickoff").
		Limit(50).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT pick_id, market_type FROM picks WHERE match_id = $1 AND closing_odds IS NULL AND kickoff < $2 ORDER BY kickoff LIMIT 50"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "m1" || args[1] != "2026-04-02" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestComparisonConditions(t *testing.T) {
	query, args, err := Select("*").
		From("odds_snapshots").
		Where(Gte("collected_at", 1), Lte("collected_at", 2), Gt("home_odds", 1.0), IsNotNull("over_odds")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM odds_snapshots WHERE collected_at >= $1 AND collected_at <= $2 AND home_odds > $3 AND over_odds IS NOT NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("picks").
		Columns("pick_id", "match_id").
		Values("p1", "m1").
		Suffix("ON CONFLICT (pick_id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO picks (pick_id, match_id) VALUES ($1, $2) ON CONFLICT (pick_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "p1" || args[1] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("picks").
		Set("closing_odds", 1.95).
		SetExpr("resolved_at", "NOW()").
		Where(Eq("pick_id", "p1"), IsNull("closing_odds")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE picks SET closing_odds = $1, resolved_at = NOW() WHERE pick_id = $2 AND closing_odds IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 1.95 || args[1] != "p1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
