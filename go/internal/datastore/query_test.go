package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		sql  string
		args []any
	}{
		{
			name: "all rows",
			q:    From("debates"),
			sql:  `SELECT * FROM "debates"`,
		},
		{
			name: "filtered and ordered",
			q:    From("debates").Eq("organizer_id", "u1").Order("debate_date", false),
			sql:  `SELECT * FROM "debates" WHERE "organizer_id" = $1 ORDER BY "debate_date" ASC`,
			args: []any{"u1"},
		},
		{
			name: "two filters descending with limit",
			q:    From("awards").Eq("debate_id", "d1").Eq("award_type", "best_speaker").Order("created_at", true).Take(5),
			sql:  `SELECT * FROM "awards" WHERE "debate_id" = $1 AND "award_type" = $2 ORDER BY "created_at" DESC LIMIT 5`,
			args: []any{"d1", "best_speaker"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := buildSelect(tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			if len(tt.args) == 0 {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestBuildSelect_Rejects(t *testing.T) {
	_, _, err := buildSelect(From("users"))
	assert.ErrorIs(t, err, ErrUnknownTable)

	_, _, err = buildSelect(From("debates").Eq("id; DROP TABLE debates", 1))
	assert.ErrorIs(t, err, ErrInvalidColumn)

	_, _, err = buildSelect(From("debates").Order("Title", false))
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestQuery_EqDoesNotAlias(t *testing.T) {
	base := From("teams").Eq("debate_id", "d1")
	a := base.Eq("team_name", "for")
	b := base.Eq("team_name", "against")

	assert.Len(t, base.Filters, 1)
	assert.Equal(t, "for", a.Filters[1].Value)
	assert.Equal(t, "against", b.Filters[1].Value)
}

func TestBuildInsert(t *testing.T) {
	sql, args, err := buildInsert("teams", []Values{
		{"debate_id": "d1", "team_name": "for", "team_score": 0},
		{"debate_id": "d1", "team_name": "against", "team_score": 0},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`INSERT INTO "teams" ("debate_id","team_name","team_score") VALUES ($1,$2,$3),($4,$5,$6) RETURNING *`,
		sql)
	assert.Equal(t, []any{"d1", "for", 0, "d1", "against", 0}, args)
}

func TestBuildInsert_Rejects(t *testing.T) {
	_, _, err := buildInsert("teams", nil)
	assert.ErrorIs(t, err, ErrNoValues)

	_, _, err = buildInsert("teams", []Values{{"debate_id": "d1"}, {"team_name": "for"}})
	assert.ErrorIs(t, err, ErrInvalidColumn)

	_, _, err = buildInsert("secrets", []Values{{"a": 1}})
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestBuildUpdate(t *testing.T) {
	sql, args, err := buildUpdate(From("participants").Eq("id", "p1"), Values{"individual_score": 7})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "participants" SET "individual_score" = $1 WHERE "id" = $2 RETURNING *`, sql)
	assert.Equal(t, []any{7, "p1"}, args)

	_, _, err = buildUpdate(From("participants"), Values{"individual_score": 7})
	assert.ErrorIs(t, err, ErrNoFilter, "unfiltered updates are refused")

	_, _, err = buildUpdate(From("participants").Eq("id", "p1"), Values{})
	assert.ErrorIs(t, err, ErrNoValues)
}

func TestBuildDelete(t *testing.T) {
	sql, args, err := buildDelete(From("awards").Eq("id", "a1"))
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "awards" WHERE "id" = $1`, sql)
	assert.Equal(t, []any{"a1"}, args)

	_, _, err = buildDelete(From("awards"))
	assert.ErrorIs(t, err, ErrNoFilter)
}

func TestBuildInsert_SingleRow(t *testing.T) {
	sql, args, err := buildInsert("awards", []Values{
		{"participant_id": "p1", "debate_id": "d1", "award_type": "best_speaker"},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`INSERT INTO "awards" ("award_type","debate_id","participant_id") VALUES ($1,$2,$3) RETURNING *`,
		sql)
	assert.Equal(t, []any{"best_speaker", "d1", "p1"}, args)
}

func TestBuildUpdate_PlaceholdersFollowSetClauses(t *testing.T) {
	sql, args, err := buildUpdate(
		From("debates").Eq("id", "d1").Eq("organizer_id", "u1"),
		Values{"status": "completed", "updated_at": "now"},
	)
	require.NoError(t, err)
	assert.Equal(t,
		`UPDATE "debates" SET "status" = $1, "updated_at" = $2 WHERE "id" = $3 AND "organizer_id" = $4 RETURNING *`,
		sql)
	assert.Equal(t, []any{"completed", "now", "d1", "u1"}, args)
}

func TestBuildUpdate_RejectsBadColumns(t *testing.T) {
	_, _, err := buildUpdate(From("teams").Eq("id", "t1"), Values{"team score": 1})
	assert.ErrorIs(t, err, ErrInvalidColumn)

	_, _, err = buildUpdate(From("teams").Eq("ID", "t1"), Values{"team_score": 1})
	assert.ErrorIs(t, err, ErrInvalidColumn)
}
