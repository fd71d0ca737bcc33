/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package placements

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// Result counts what Apply did.
type Result struct {
	Skipped          int // already in the division
	Created          int
	Moved            int
	Ignored          int // ambiguous or in another league
	DivisionsCreated int
}

// existingTeam is a team with the name being placed, in whatever division it
// currently plays.
type existingTeam struct {
	Division string `db:"division"`
	ID       int64  `db:"id"`
}

// Open connects to the teamvite sqlite database at path.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v: %w", path, err)
	}

	return db, nil
}

// Apply places every team in a single transaction, rolled back when dryRun is
// set or anything fails.
func Apply(ctx context.Context, db *sqlx.DB, placements []Placement,
	dryRun bool, log zerolog.Logger) (Result, error) {

	var res Result
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("unable to begin placements: %w", err)
	}
	defer tx.Rollback()

	for _, p := range placements {
		log.Info().Str("division", p.Division).Int("teams", len(p.Teams)).
			Msg("working on division")
		for _, team := range p.Teams {
			if err := placeTeam(ctx, tx, p.Division, team, &res, log); err != nil {
				return res, err
			}
		}
	}

	if dryRun {
		log.Info().Msg("dry run; not committing changes")
		return res, nil
	}
	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("unable to commit placements: %w", err)
	}

	return res, nil
}

func placeTeam(ctx context.Context, tx *sqlx.Tx, division string, team string,
	res *Result, log zerolog.Logger) error {

	log = log.With().Str("division", division).Str("team", team).Logger()

	var n int
	err := tx.GetContext(ctx, &n,
		`SELECT count(*) FROM teams t JOIN divisions d ON t.division_id = d.id
		 WHERE d.name = ? AND t.name = ?`, division, team)
	if err != nil {
		return fmt.Errorf("unable to look up team %v: %w", team, err)
	}
	if n > 0 {
		log.Debug().Msg("skipping team")
		res.Skipped++
		return nil
	}

	divID, err := divisionID(ctx, tx, division, res, log)
	if err != nil {
		return err
	}

	var found []existingTeam
	err = tx.SelectContext(ctx, &found,
		`SELECT d.name AS division, t.id FROM teams t
		 JOIN divisions d ON t.division_id = d.id WHERE t.name = ?`, team)
	if err != nil {
		return fmt.Errorf("unable to look up team %v: %w", team, err)
	}

	switch {
	case len(found) == 0:
		log.Info().Msg("creating team")
		_, err = tx.ExecContext(ctx,
			`INSERT INTO teams (division_id, name) VALUES (?, ?)`, divID, team)
		if err != nil {
			return fmt.Errorf("unable to create team %v: %w", team, err)
		}
		res.Created++
	case len(found) == 1 && sameLeague(found[0].Division, division):
		log.Info().Str("from", found[0].Division).Msg("moving team")
		_, err = tx.ExecContext(ctx,
			`UPDATE teams SET division_id = ? WHERE id = ?`, divID, found[0].ID)
		if err != nil {
			return fmt.Errorf("unable to move team %v: %w", team, err)
		}
		res.Moved++
	default:
		log.Warn().Int("matches", len(found)).
			Msg("team already exists elsewhere; ignoring")
		res.Ignored++
	}

	return nil
}

func divisionID(ctx context.Context, tx *sqlx.Tx, division string,
	res *Result, log zerolog.Logger) (int64, error) {

	var id int64
	err := tx.GetContext(ctx, &id, `SELECT id FROM divisions WHERE name = ?`,
		division)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("unable to look up division %v: %w", division, err)
	}

	log.Info().Msg("creating division")
	r, err := tx.ExecContext(ctx, `INSERT INTO divisions (name) VALUES (?)`,
		division)
	if err != nil {
		return 0, fmt.Errorf("unable to create division %v: %w", division, err)
	}
	id, err = r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("unable to create division %v: %w", division, err)
	}
	res.DivisionsCreated++

	return id, nil
}

// divisions are named m/w/c + number for men's, women's and coed
func sameLeague(a, b string) bool {
	return a != "" && b != "" && a[0] == b[0]
}
