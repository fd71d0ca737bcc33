/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/mikeb26/pdxsched/schedule"
	"github.com/rs/zerolog"
)

var ErrBadWebhookURL = errors.New("bad discord webhook url")

const botName = "pdxsched"

// Discord posts scrape summaries to a channel webhook.
type Discord struct {
	session   *discordgo.Session
	webhookID string
	token     string
	log       zerolog.Logger
}

// ParseWebhookURL splits https://discord.com/api/webhooks/<id>/<token> into
// its id and token.
func ParseWebhookURL(raw string) (string, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrBadWebhookURL, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}

	return "", "", fmt.Errorf("%w: %q", ErrBadWebhookURL, raw)
}

func NewDiscord(webhookURL string, log zerolog.Logger) (*Discord, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	// webhooks carry their own token; no bot authorization needed
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("unable to initialize discord client: %w", err)
	}
	session.UserAgent = botName

	return &Discord{session: session, webhookID: id, token: token, log: log}, nil
}

// Notify posts the summary of one scrape.
func (d *Discord) Notify(ctx context.Context, season schedule.Season,
	stats schedule.RunStats, location string) error {

	params := &discordgo.WebhookParams{
		Username: botName,
		Content:  truncateContent(Summary(season, stats, location)),
	}
	_, err := d.session.WebhookExecute(d.webhookID, d.token, false, params,
		discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("unable to post discord summary: %w", err)
	}
	d.log.Debug().Str("season", season.Label()).Msg("posted discord summary")

	return nil
}

// Summary renders a scrape result as discord markdown.
func Summary(season schedule.Season, stats schedule.RunStats,
	location string) string {

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%v schedule harvest**\n", season.Label())
	fmt.Fprintf(&sb, "%d games (%d records) from %d of %d divisions\n",
		stats.Games, stats.Records, stats.Fetched, stats.Addresses)
	if stats.Missing > 0 {
		fmt.Fprintf(&sb, "%d divisions not published\n", stats.Missing)
	}
	if stats.Skipped > 0 {
		fmt.Fprintf(&sb, ":warning: %d divisions skipped after fetch errors\n",
			stats.Skipped)
	}
	if location != "" {
		fmt.Fprintf(&sb, "`%v`\n", location)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
