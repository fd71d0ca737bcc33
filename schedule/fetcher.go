/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package schedule

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/pdxsched/internal"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrNotSchedule      = errors.New("response is not a schedule")
)

// RunStats summarizes one harvest.
type RunStats struct {
	Addresses int // addresses attempted
	Fetched   int // schedules retrieved and parsed
	Missing   int // not published (404)
	Skipped   int // any other fetch failure
	Games     int
	Records   int
	Elapsed   time.Duration
}

func (s RunStats) String() string {
	return fmt.Sprintf("%d addresses: %d fetched, %d missing, %d skipped; %d games (%d records) in %v",
		s.Addresses, s.Fetched, s.Missing, s.Skipped, s.Games, s.Records,
		s.Elapsed.Round(time.Millisecond))
}

// Fetcher walks every schedule address with a small pool of workers and feeds
// the games it finds into a GameSink.
type Fetcher struct {
	client     *http.Client
	baseURL    string
	sink       *GameSink
	workers    int
	timeout    time.Duration
	addresses  []Address
	normalizer *Normalizer
	parser     LineParser
	resolver   TimeResolver
	log        zerolog.Logger
}

type FetcherOption func(*Fetcher)

func WithWorkers(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithTimeout bounds each individual schedule fetch.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithAddresses restricts the run to addrs instead of AllAddresses().
func WithAddresses(addrs []Address) FetcherOption {
	return func(f *Fetcher) { f.addresses = addrs }
}

func WithNormalizer(n *Normalizer) FetcherOption {
	return func(f *Fetcher) { f.normalizer = n }
}

func WithParser(p LineParser) FetcherOption {
	return func(f *Fetcher) { f.parser = p }
}

func WithResolver(r TimeResolver) FetcherOption {
	return func(f *Fetcher) { f.resolver = r }
}

func WithLogger(log zerolog.Logger) FetcherOption {
	return func(f *Fetcher) { f.log = log }
}

func NewFetcher(client *http.Client, baseURL string, sink *GameSink,
	opts ...FetcherOption) *Fetcher {

	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{
		client:    client,
		baseURL:   baseURL,
		sink:      sink,
		workers:   internal.DefaultWorkers,
		timeout:   internal.DefaultFetchTimeout,
		addresses: AllAddresses(),
		parser:    RegexParser{},
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.normalizer == nil {
		f.normalizer = NewNormalizer(Latin1Recovery, nil, f.log)
	}

	return f
}

// Run harvests every address for season. Individual fetch failures are
// logged and skipped; only cancellation of ctx is returned as an error.
func (f *Fetcher) Run(ctx context.Context, season Season) (RunStats, error) {
	start := time.Now()
	queue := NewWorkQueue(f.addresses)

	var (
		mu    sync.Mutex
		stats = RunStats{Addresses: queue.Len()}
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < f.workers; i++ {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				addr, ok := queue.Next()
				if !ok {
					return nil
				}
				recs, err := f.FetchAddress(gctx, season, addr)

				mu.Lock()
				switch {
				case errors.Is(err, ErrScheduleNotFound):
					stats.Missing++
				case err != nil:
					stats.Skipped++
				default:
					stats.Fetched++
					stats.Games += len(recs) / 2
					stats.Records += len(recs)
				}
				mu.Unlock()

				if err == nil {
					f.sink.Add(recs...)
				}
			}
		})
	}
	err := g.Wait()
	stats.Elapsed = time.Since(start)

	return stats, err
}

// FetchAddress retrieves and parses one schedule. The returned records are
// all-or-nothing: a failure part way through the body yields none.
func (f *Fetcher) FetchAddress(ctx context.Context, season Season,
	addr Address) ([]GameRecord, error) {

	url := addr.URL(f.baseURL, season)
	log := f.log.With().Str("address", addr.String()).Logger()
	log.Debug().Str("url", url).Msg("working on")

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch schedule (new): %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("unable to fetch schedule")
		return nil, fmt.Errorf("unable to fetch schedule (do): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Debug().Msg("no schedule published")
		return nil, fmt.Errorf("%w: %v", ErrScheduleNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("unexpected status fetching schedule")
		return nil, fmt.Errorf("%w %d fetching %v", ErrUnexpectedStatus,
			resp.StatusCode, url)
	}
	var body io.Reader = resp.Body
	if isHTML(resp.Header.Get("Content-Type")) {
		body, err = scheduleFromPage(resp.Body, url, log)
		if err != nil {
			return nil, err
		}
	}

	recs, err := f.ParseSchedule(body, season, addr)
	if err != nil {
		log.Warn().Err(err).Msg("unable to read schedule")
		return nil, err
	}
	log.Info().Int("records", len(recs)).Msg("found schedule")

	return recs, nil
}

// ParseSchedule runs every line of r through normalize, parse and resolve.
// Lines that are not games, or whose time cannot be resolved, are skipped.
func (f *Fetcher) ParseSchedule(r io.Reader, season Season,
	addr Address) ([]GameRecord, error) {

	var out []GameRecord
	br := bufio.NewReader(r)
	for {
		raw, readErr := br.ReadBytes('\n')
		if len(raw) > 0 {
			recs, ok := f.parseLine(raw, season, addr)
			if ok {
				out = append(out, recs[0], recs[1])
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("unable to read schedule: %w", readErr)
		}
	}

	return out, nil
}

func (f *Fetcher) parseLine(raw []byte, season Season,
	addr Address) ([2]GameRecord, bool) {

	line := f.normalizer.Normalize(raw)
	if line == "" {
		return [2]GameRecord{}, false
	}
	m, ok := f.parser.Parse(line)
	if !ok {
		return [2]GameRecord{}, false
	}
	kickoff, err := f.resolver.Resolve(m, season.Year)
	if err != nil {
		f.log.Warn().Err(err).Str("address", addr.String()).Str("line", line).
			Msg("unable to resolve game time")
		return [2]GameRecord{}, false
	}
	recs, err := RecordsFor(season, addr, m, kickoff)
	if err != nil {
		f.log.Warn().Err(err).Str("address", addr.String()).Str("line", line).
			Msg("unable to build game records")
		return [2]GameRecord{}, false
	}

	return recs, true
}

func isHTML(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}

var notFoundRe = regexp.MustCompile(`(?i)\b(404|not found|nothing (was )?found)\b`)

// scheduleFromPage handles a web page served in place of a schedule file. The
// publisher's site answers unknown paths with its "not found" page and a 200;
// that is treated like a 404. A page that wraps the schedule in <pre> yields
// the preformatted text; anything else is not a schedule.
func scheduleFromPage(r io.Reader, url string,
	log zerolog.Logger) (io.Reader, error) {

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(r, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrNotSchedule, url, err)
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	heading := strings.TrimSpace(doc.Find("h1").First().Text())
	if notFoundRe.MatchString(title) || notFoundRe.MatchString(heading) {
		log.Debug().Str("title", title).Msg("no schedule published (not found page)")
		return nil, fmt.Errorf("%w: %v (%q)", ErrScheduleNotFound, url, title)
	}

	var sb strings.Builder
	doc.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		sb.WriteString(pre.Text())
		sb.WriteString("\n")
	})
	if strings.TrimSpace(sb.String()) == "" {
		log.Warn().Str("title", title).Msg("publisher returned a web page instead of a schedule")
		return nil, fmt.Errorf("%w: %v (%q)", ErrNotSchedule, url, title)
	}
	log.Debug().Str("title", title).Msg("reading schedule from web page")

	return strings.NewReader(sb.String()), nil
}
