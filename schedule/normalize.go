/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package schedule

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ErrUnrecoverableLine = errors.New("unrecoverable line encoding")

// Recovery turns the raw bytes of one line into text.
type Recovery interface {
	Recover(raw []byte) (string, error)
}

type RecoveryFunc func(raw []byte) (string, error)

func (f RecoveryFunc) Recover(raw []byte) (string, error) {
	return f(raw)
}

// Latin1Recovery reads non-UTF-8 input as Windows-1252 (the publisher's
// ISO-8859-1 in practice) and transliterates the result to ASCII.
var Latin1Recovery = RecoveryFunc(recoverLatin1)

// ASCIIRecovery only tolerates the 0x92 apostrophe; any other non-ASCII byte
// is an error.
var ASCIIRecovery = RecoveryFunc(recoverASCII)

var translit = map[rune]string{
	'‘': "'", '’': "'", '‚': "'", '‛': "'",
	'´': "'", '`': "'",
	'“': "\"", '”': "\"", '„': "\"",
	'–': "-", '—': "-", '…': "...",
	'\u00a0': " ", '×': "x",
	'ß': "ss", 'æ': "ae", 'Æ': "AE", 'œ': "oe", 'Œ': "OE",
	'ø': "o", 'Ø': "O", 'đ': "d", 'Đ': "D", 'ð': "d", 'Ð': "D",
	'ł': "l", 'Ł': "L", 'þ': "th", 'Þ': "TH",
}

func recoverLatin1(raw []byte) (string, error) {
	var s string
	if utf8.Valid(raw) {
		s = string(raw)
	} else {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnrecoverableLine, err)
		}
		s = string(decoded)
	}

	return transliterate(s)
}

func recoverASCII(raw []byte) (string, error) {
	var sb strings.Builder
	for _, b := range raw {
		if b == 0x92 {
			b = '\''
		}
		if b >= utf8.RuneSelf {
			return "", fmt.Errorf("%w: non-ascii byte 0x%02x", ErrUnrecoverableLine, b)
		}
		if isGarbled(rune(b)) {
			return "", fmt.Errorf("%w: control byte 0x%02x", ErrUnrecoverableLine, b)
		}
		sb.WriteByte(b)
	}

	return sb.String(), nil
}

func transliterate(s string) (string, error) {
	var sb strings.Builder
	for _, r := range s {
		if sub, ok := translit[r]; ok {
			sb.WriteString(sub)
		} else {
			sb.WriteRune(r)
		}
	}

	// decompose and drop combining marks: "é" -> "e"
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, sb.String())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnrecoverableLine, err)
	}
	for _, r := range out {
		if isGarbled(r) {
			return "", fmt.Errorf("%w: %U", ErrUnrecoverableLine, r)
		}
	}

	return out, nil
}

func isGarbled(r rune) bool {
	if r == utf8.RuneError {
		return true
	}
	return unicode.IsControl(r) && !unicode.IsSpace(r)
}

// BadLineRecorder receives lines that could not be decoded.
type BadLineRecorder interface {
	RecordBadLine(raw []byte) error
}

// BadLineFile appends bad lines to a file for manual inspection. The file is
// only created once there is something to write.
type BadLineFile struct {
	Path string

	mu    sync.Mutex
	count int
}

func NewBadLineFile(path string) *BadLineFile {
	return &BadLineFile{Path: path}
}

func (f *BadLineFile) RecordBadLine(raw []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.OpenFile(f.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("unable to open bad lines file: %w", err)
	}
	defer fh.Close()

	line := raw
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line = append(append([]byte(nil), raw...), '\n')
	}
	if _, err := fh.Write(line); err != nil {
		return fmt.Errorf("unable to write bad lines file: %w", err)
	}
	f.count++

	return nil
}

// Count is the number of lines recorded by this process.
func (f *BadLineFile) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

// Normalizer cleans one raw line into the canonical form the parser expects:
// ASCII, upper case, single spaced, restricted to letters, digits, space and
// : & ! . / '
type Normalizer struct {
	recovery Recovery
	badLines BadLineRecorder
	log      zerolog.Logger
}

// NewNormalizer builds a Normalizer; nil recovery means Latin1Recovery and a
// nil badLines discards bad lines after logging them.
func NewNormalizer(recovery Recovery, badLines BadLineRecorder,
	log zerolog.Logger) *Normalizer {

	if recovery == nil {
		recovery = Latin1Recovery
	}
	return &Normalizer{recovery: recovery, badLines: badLines, log: log}
}

// Normalize never fails: an undecodable line is handed to the bad line
// recorder and comes back as "".
func (n *Normalizer) Normalize(raw []byte) string {
	text, err := n.recovery.Recover(raw)
	if err != nil {
		n.log.Warn().Err(err).Bytes("line", raw).Msg("bad line saved")
		if n.badLines != nil {
			if recErr := n.badLines.RecordBadLine(raw); recErr != nil {
				n.log.Error().Err(recErr).Msg("unable to save bad line")
			}
		}
		return ""
	}

	return cleanLine(text)
}

func cleanLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ToUpper(s)

	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune(":&!./' ", r):
			return r
		}
		return -1
	}, s)
}
