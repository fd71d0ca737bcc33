/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package teamvite

import (
	"context"
	"fmt"
	"os"

	"github.com/mikeb26/pdxsched/schedule"
)

// Upload creates one game per record and stops at the first failure. It
// returns the number of records uploaded before stopping.
func (c *Client) Upload(ctx context.Context,
	recs []schedule.GameRecord) (int, error) {

	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		season, err := c.Season(ctx, rec.Season)
		if err != nil {
			return i, fmt.Errorf("unable to upload %q: %w", rec.Line(), err)
		}
		team, err := c.Team(ctx, rec.Team)
		if err != nil {
			return i, fmt.Errorf("unable to upload %q: %w", rec.Line(), err)
		}
		err = c.CreateGame(ctx, Game{
			TeamID:      team.ID,
			SeasonID:    season.ID,
			Time:        gameTime(rec.Time),
			Description: rec.Description,
		})
		if err != nil {
			return i, fmt.Errorf("unable to upload %q: %w", rec.Line(), err)
		}
	}

	return len(recs), nil
}

// UploadFile reads an interchange file and uploads every record in it.
func (c *Client) UploadFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("unable to open %v: %w", path, err)
	}
	defer f.Close()

	recs, err := schedule.ReadRecords(f)
	if err != nil {
		return 0, fmt.Errorf("unable to read %v: %w", path, err)
	}
	c.log.Info().Str("file", path).Int("records", len(recs)).
		Msg("uploading games")

	n, err := c.Upload(ctx, recs)
	if err != nil {
		return n, err
	}
	c.log.Info().Str("file", path).Int("games", n).Msg("created games")

	return n, nil
}
