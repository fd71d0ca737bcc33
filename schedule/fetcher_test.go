/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package schedule

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const men3Schedule = "MEN'S DIVISION 3\r\n" +
	"\r\n" +
	"MON JAN 15 7:30 PM EAGLES VS HAWKS\r\n" +
	"Tue Jan 16 Noon O\x92Briens vs Caf\xe9 United\r\n" +
	"WED JAN 17 9:00 PM GARBLED\x00 VS LINE\r\n" +
	"THU FEB 30 8:00 PM BAD DATE VS SKIPPED\r\n" +
	"FRI JAN 19 MIDNITE NIGHT OWLS VS LATE KICKS"

const notFoundPage = `<html><head><title>Page not found – PDX Indoor Soccer</title></head>
<body><h1>Oops! That page can’t be found.</h1></body></html>`

const preSchedulePage = `<html><head><title>Coed 3</title></head><body>
<pre>COED DIVISION 3
SUN JAN 21 6:00 PM SHIN PADS VS GOAL DIGGERS
</pre></body></html>`

func newScheduleServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/spring/men/DIV 3.TXT":
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte(men3Schedule))
		case "/spring/men/DIV 4.TXT":
			w.WriteHeader(http.StatusNoContent)
		case "/spring/men/DIV 5.TXT":
			select {
			case <-time.After(3 * time.Second):
			case <-r.Context().Done():
			}
		case "/spring/women/DIV 1A.TXT":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/spring/coed/Multi-Gender 2.txt":
			w.Header().Set("Content-Type", "text/html; charset=UTF-8")
			w.Write([]byte(notFoundPage))
		case "/spring/coed/Multi-Gender 3.txt":
			w.Header().Set("Content-Type", "text/html; charset=UTF-8")
			w.Write([]byte(preSchedulePage))
		case "/spring/coed/Multi-Gender 4.txt":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html><head><title>Coed Leagues</title></head><body><p>Coming soon</p></body></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestFetcher(srv *httptest.Server, sink *GameSink, bad BadLineRecorder,
	opts ...FetcherOption) *Fetcher {

	base := []FetcherOption{
		WithTimeout(250 * time.Millisecond),
		WithNormalizer(NewNormalizer(Latin1Recovery, bad, zerolog.Nop())),
		WithResolver(TimeResolver{Now: fixedNow(2024, time.January, 1, 12, 0)}),
	}
	return NewFetcher(srv.Client(), srv.URL, sink, append(base, opts...)...)
}

func TestFetcherEndToEndLine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/spring/men/DIV 3.TXT" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("MON JAN 15 7:30 PM EAGLES VS HAWKS\n"))
	}))
	defer srv.Close()

	sink := NewGameSink()
	f := newTestFetcher(srv, sink, &memBadLines{},
		WithAddresses([]Address{{League: LeagueMen, Division: 3}}))
	season, err := NewSeason("spring", 2024)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Run(context.Background(), season); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	recs := sink.Drain()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(recs), recs)
	}
	kickoff := time.Date(2024, time.January, 15, 19, 30, 0, 0, time.UTC)
	for i, team := range []string{"EAGLES", "HAWKS"} {
		want := GameRecord{Season: "2024-spring", Division: "m3", Team: team,
			Time: kickoff, Description: "EAGLES vs HAWKS"}
		if recs[i] != want {
			t.Errorf("record %d = %+v; want %+v", i, recs[i], want)
		}
	}
}

func TestFetcherRun(t *testing.T) {
	srv := newScheduleServer(t)
	sink := NewGameSink()
	bad := &memBadLines{}
	f := newTestFetcher(srv, sink, bad)

	season, _ := NewSeason("spring", 2024)
	stats, err := f.Run(context.Background(), season)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if stats.Addresses != 72 {
		t.Errorf("Addresses = %d; want 72", stats.Addresses)
	}
	if stats.Fetched != 2 {
		t.Errorf("Fetched = %d; want 2", stats.Fetched)
	}
	// 204, slow, 500 and the page without a schedule
	if stats.Skipped != 4 {
		t.Errorf("Skipped = %d; want 4", stats.Skipped)
	}
	// 65 404s plus the not found page
	if stats.Missing != 66 {
		t.Errorf("Missing = %d; want 66", stats.Missing)
	}
	if stats.Games != 4 || stats.Records != 8 {
		t.Errorf("Games/Records = %d/%d; want 4/8", stats.Games, stats.Records)
	}
	if bad.count() != 1 {
		t.Errorf("expected 1 bad line, got %d", bad.count())
	}

	recs := sink.Drain()
	var teams []string
	for _, r := range recs {
		teams = append(teams, r.Division+":"+r.Team)
		if r.Season != "2024-spring" {
			t.Errorf("unexpected record %+v", r)
		}
	}
	sort.Strings(teams)
	want := []string{"c3:GOAL DIGGERS", "c3:SHIN PADS", "m3:CAFE UNITED", "m3:EAGLES",
		"m3:HAWKS", "m3:LATE KICKS", "m3:NIGHT OWLS", "m3:O'BRIENS"}
	if strings.Join(teams, ",") != strings.Join(want, ",") {
		t.Errorf("teams = %v; want %v", teams, want)
	}

	for _, r := range recs {
		switch r.Team {
		case "O'BRIENS":
			if r.Description != "O'BRIENS vs CAFE UNITED" ||
				!r.Time.Equal(time.Date(2024, time.January, 16, 12, 0, 0, 0, time.UTC)) {
				t.Errorf("unexpected noon record %+v", r)
			}
		case "NIGHT OWLS":
			if !r.Time.Equal(time.Date(2024, time.January, 19, 23, 59, 0, 0, time.UTC)) {
				t.Errorf("unexpected midnite record %+v", r)
			}
		}
	}
}

func TestFetchAddressErrors(t *testing.T) {
	srv := newScheduleServer(t)
	f := newTestFetcher(srv, NewGameSink(), &memBadLines{})
	season, _ := NewSeason("spring", 2024)

	cases := []struct {
		name string
		addr Address
		want error
	}{
		{"not found", Address{League: LeagueMen, Division: 1}, ErrScheduleNotFound},
		{"no content", Address{League: LeagueMen, Division: 4}, ErrUnexpectedStatus},
		{"server error", Address{League: LeagueWomen, Division: 1, Subdivision: "A"}, ErrUnexpectedStatus},
		{"not found page", Address{League: LeagueCoed, Division: 2}, ErrScheduleNotFound},
		{"page without schedule", Address{League: LeagueCoed, Division: 4}, ErrNotSchedule},
		{"timeout", Address{League: LeagueMen, Division: 5}, context.DeadlineExceeded},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			recs, err := f.FetchAddress(context.Background(), season, c.addr)
			if !errors.Is(err, c.want) {
				t.Errorf("FetchAddress(%v) error = %v; want %v", c.addr, err, c.want)
			}
			if len(recs) != 0 {
				t.Errorf("expected no records, got %d", len(recs))
			}
		})
	}
}

func TestFetchAddressSchedulePage(t *testing.T) {
	srv := newScheduleServer(t)
	f := newTestFetcher(srv, NewGameSink(), &memBadLines{})
	season, _ := NewSeason("spring", 2024)

	recs, err := f.FetchAddress(context.Background(), season,
		Address{League: LeagueCoed, Division: 3})
	if err != nil {
		t.Fatalf("FetchAddress returned error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	want := time.Date(2024, time.January, 21, 18, 0, 0, 0, time.UTC)
	if recs[0].Team != "SHIN PADS" || recs[1].Team != "GOAL DIGGERS" ||
		!recs[0].Time.Equal(want) || recs[0].Description != "SHIN PADS vs GOAL DIGGERS" {
		t.Errorf("unexpected records %+v", recs)
	}
}

func TestFetcherNotFoundLeavesSinkUnchanged(t *testing.T) {
	srv := newScheduleServer(t)
	sink := NewGameSink()
	f := newTestFetcher(srv, sink, &memBadLines{},
		WithAddresses([]Address{{League: LeagueWomen, Division: 6, Subdivision: "C"}}))
	season, _ := NewSeason("spring", 2024)

	stats, err := f.Run(context.Background(), season)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Missing != 1 || sink.Len() != 0 {
		t.Errorf("expected one missing address and an empty sink, got %+v, %d records",
			stats, sink.Len())
	}
}

func TestFetcherCancelled(t *testing.T) {
	srv := newScheduleServer(t)
	sink := NewGameSink()
	f := newTestFetcher(srv, sink, &memBadLines{})
	season, _ := NewSeason("spring", 2024)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Run(ctx, season); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if sink.Len() != 0 {
		t.Errorf("expected empty sink, got %d", sink.Len())
	}
}

func TestParseSchedule(t *testing.T) {
	f := NewFetcher(nil, "", NewGameSink(),
		WithResolver(TimeResolver{Now: fixedNow(2024, time.October, 20, 9, 0)}))
	season, _ := NewSeason("1fall", 2024)
	addr := Address{League: LeagueCoed, Division: 2, Subdivision: "B"}

	in := "SAT DEC 14 8:15 PM SNOW BALLS VS ICE ICE BABY\n" +
		"SAT JAN 4 9:00 PM ICE ICE BABY VS SNOW BALLS\n"
	recs, err := f.ParseSchedule(strings.NewReader(in), season, addr)
	if err != nil {
		t.Fatalf("ParseSchedule returned error: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("expected 4 records, got %d", len(recs))
	}
	if recs[0].Division != "c2b" || recs[0].Season != "2024-1fall" {
		t.Errorf("unexpected record %+v", recs[0])
	}
	if recs[0].Time.Year() != 2024 {
		t.Errorf("December game year = %d; want 2024", recs[0].Time.Year())
	}
	if recs[2].Time.Year() != 2025 {
		t.Errorf("January game year = %d; want 2025 after rollover", recs[2].Time.Year())
	}
}
