package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/examgrid/core/model"
)

// Request selects the month and the filters of one report.
type Request struct {
	Year     int
	Month    int
	Shift    model.Shift
	Window   model.Window
	Company  string
	Employee string
	Priority bool
}

// DefaultRequest is the unfiltered view of the month containing now.
func DefaultRequest(now time.Time) Request {
	return Request{Year: now.Year(), Month: int(now.Month())}
}

// Validate checks the target month.
func (r Request) Validate() error {
	if r.Month < 1 || r.Month > 12 {
		return fmt.Errorf("month must be within 1..12, got %d", r.Month)
	}
	if r.Year < 1900 || r.Year > 9999 {
		return fmt.Errorf("year out of range: %d", r.Year)
	}
	return nil
}

// maxTermRunes bounds the search terms embedded in cache keys.
const maxTermRunes = 30

// CacheKey identifies a timeline result:
// timeline:v1:<year>:<month>:<priority>:<company>:<employee>:<shift>:<window>.
// Search terms are trimmed, lowercased, escaped and truncated; a truncated term
// carries a digest of its full text.
func CacheKey(r Request) string {
	return strings.Join([]string{
		"timeline", "v1",
		strconv.Itoa(r.Year), strconv.Itoa(r.Month),
		strconv.FormatBool(r.Priority),
		term(r.Company), term(r.Employee),
		r.Shift.String(), r.Window.String(),
	}, ":")
}

// ClinicalKey identifies a clinical rollup: clinical:v1:<year>:<month>:<priority>.
func ClinicalKey(r Request) string {
	return fmt.Sprintf("clinical:v1:%d:%d:%t", r.Year, r.Month, r.Priority)
}

var termEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

func term(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	rs := []rune(s)
	if len(rs) <= maxTermRunes {
		return termEscaper.Replace(s)
	}
	sum := sha256.Sum256([]byte(s))
	return termEscaper.Replace(string(rs[:maxTermRunes])) + "~" + hex.EncodeToString(sum[:4])
}
