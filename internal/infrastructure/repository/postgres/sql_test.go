package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestViolatedConstraint(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unique violation",
			err:  &pq.Error{Code: "23505", Constraint: "uq_games_public_id"},
			want: "uq_games_public_id",
		},
		{
			name: "wrapped unique violation",
			err:  fmt.Errorf("insert game: %w", &pq.Error{Code: "23505", Constraint: "uq_games_natural_key"}),
			want: "uq_games_natural_key",
		},
		{
			name: "other pq error",
			err:  &pq.Error{Code: "23503", Constraint: "fk_games_home_team"},
			want: "",
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: "",
		},
		{
			name: "nil",
			err:  nil,
			want: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := violatedConstraint(tc.err); got != tc.want {
				t.Fatalf("violatedConstraint = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("sql.ErrNoRows not recognized")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatal("unrelated error treated as not-found")
	}
}
