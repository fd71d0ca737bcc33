/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(c.in, &buf)
			if l.GetLevel() != c.want {
				t.Errorf("New(%q) level = %v; want %v", c.in, l.GetLevel(), c.want)
			}
		})
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New("info", &buf)
	l.Debug().Msg("hidden")
	l.Info().Str("address", "men/3A").Msg("working on")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not a single JSON entry: %v (%q)", err, buf.String())
	}
	if entry["message"] != "working on" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["address"] != "men/3A" {
		t.Errorf("address = %v", entry["address"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected timestamp field")
	}
}
