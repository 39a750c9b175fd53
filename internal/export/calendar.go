package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/domain"
)

// ErrInvalidStart is returned when the session start is missing or unparsable.
// No calendar document is produced.
var ErrInvalidStart = errors.New("invalid session start")

const (
	// DefaultProdID is the PRODID written when CalendarOptions leaves it empty.
	DefaultProdID = "-//TrainHub//Session Planner//EN"
	// DefaultUIDDomain is the host part of event UIDs when none is configured.
	DefaultUIDDomain = "trainhub.local"

	icsTime      = "20060102T150405Z"
	maxLineOctet = 75
)

// CalendarOptions tunes the generated calendar. Zero values use defaults.
type CalendarOptions struct {
	ProdID    string
	UIDDomain string
	// Now stamps DTSTAMP; defaults to time.Now.
	Now func() time.Time
}

func (o CalendarOptions) withDefaults() CalendarOptions {
	if o.ProdID == "" {
		o.ProdID = DefaultProdID
	}
	if o.UIDDomain == "" {
		o.UIDDomain = DefaultUIDDomain
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Calendar renders plan as an iCalendar document with one VEVENT per agenda
// item, offset from start by the item's start and end minutes.
func Calendar(plan *domain.SessionPlan, activities catalog.ActivityLookup, label CategoryLabel, start time.Time, opts CalendarOptions) (string, error) {
	if start.IsZero() {
		return "", fmt.Errorf("%w: start time is not set", ErrInvalidStart)
	}
	opts = opts.withDefaults()
	stamp := opts.Now().UTC().Format(icsTime)

	w := &icsWriter{}
	w.line("BEGIN:VCALENDAR")
	w.line("VERSION:2.0")
	w.line("PRODID:" + opts.ProdID)
	w.line("CALSCALE:GREGORIAN")
	w.line("METHOD:PUBLISH")
	w.line("X-WR-CALNAME:" + escapeText(plan.Title))

	uids := make(map[string]bool, len(plan.Agenda))
	for _, item := range plan.Agenda {
		r := resolve(item, activities, label, UntitledActivity)
		itemStart := start.Add(time.Duration(item.StartTime) * time.Minute)
		itemEnd := start.Add(time.Duration(item.EndTime) * time.Minute)

		description := fmt.Sprintf("Part of session: %s\nCategory: %s\nJustification: %s",
			plan.Title, r.category, item.Justification)

		w.line("BEGIN:VEVENT")
		w.line("UID:" + uniqueUID(uids, item.ActivityID, itemStart, opts.UIDDomain))
		w.line("DTSTAMP:" + stamp)
		w.line("DTSTART:" + itemStart.UTC().Format(icsTime))
		w.line("DTEND:" + itemEnd.UTC().Format(icsTime))
		w.line("SUMMARY:" + escapeText(r.title))
		w.line("DESCRIPTION:" + escapeText(description))
		w.line("END:VEVENT")
	}

	w.line("END:VCALENDAR")
	return w.String(), nil
}

// uniqueUID derives "<activity>-<startMillis>@<domain>". Items that share
// both activity and start (zero-length slots) get a -n suffix.
func uniqueUID(seen map[string]bool, activityID string, at time.Time, host string) string {
	base := fmt.Sprintf("%s-%d", activityID, at.UnixMilli())
	uid := base
	for n := 1; seen[uid]; n++ {
		uid = fmt.Sprintf("%s-%d", base, n)
	}
	seen[uid] = true
	return uid + "@" + host
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// escapeText escapes an iCalendar TEXT value.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// icsWriter accumulates CRLF-terminated content lines, folding each at 75
// octets without splitting a UTF-8 sequence.
type icsWriter struct {
	b strings.Builder
}

func (w *icsWriter) line(s string) {
	limit := maxLineOctet
	for len(s) > limit {
		cut := limit
		for cut > 0 && s[cut]&0xC0 == 0x80 {
			cut--
		}
		w.b.WriteString(s[:cut])
		w.b.WriteString("\r\n ")
		s = s[cut:]
		// continuation lines carry a leading space
		limit = maxLineOctet - 1
	}
	w.b.WriteString(s)
	w.b.WriteString("\r\n")
}

func (w *icsWriter) String() string {
	return w.b.String()
}

// ParseSessionStart combines a YYYY-MM-DD date and an HH:MM (or HH:MM:SS)
// clock in loc. An empty clock accepts a full RFC 3339 instant in date.
// A nil loc means local time.
func ParseSessionStart(date, clock string, loc *time.Location) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if loc == nil {
		loc = time.Local
	}
	if date == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidStart)
	}
	if clock == "" {
		t, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q is not an RFC 3339 instant and no time was given", ErrInvalidStart, date)
		}
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q time %q", ErrInvalidStart, date, clock)
}
