package chat

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jeswanthsaravanan/smartcampus/dates"
)

// Extractors pulls structured fragments (period numbers, clock times,
// subjects, days, dates) out of free-form utterances. All methods take
// the raw message and are case-insensitive.
type Extractors struct {
	aliases []SubjectAlias
}

// NewExtractors builds extractors over the given alias table. Aliases
// are matched longest first; equal lengths keep declaration order.
func NewExtractors(aliases []SubjectAlias) *Extractors {
	sorted := make([]SubjectAlias, len(aliases))
	copy(sorted, aliases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Alias) > len(sorted[j].Alias)
	})
	return &Extractors{aliases: sorted}
}

var (
	periodNoPattern  = regexp.MustCompile(`period\s*(?:no\.?\s*)?(\d+)`)
	ordinalPattern   = regexp.MustCompile(`(\d+)\s*(?:st|nd|rd|th)\s*(?:period|class)?`)
	clockPattern     = regexp.MustCompile(`(\d{1,2})[:.](\d{2})\s*(am|pm)?`)
	bareHourPattern  = regexp.MustCompile(`(\d{1,2})\s*(am|pm)`)
	ordinalWordsList = []string{"first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth", "ninth", "tenth"}
	ordinalWordPat   = regexp.MustCompile(`(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\s+(?:period|class)`)
)

// Period extracts a period number. Recognized forms: "period 3",
// "period no 5", "3rd period", "5th", "third period".
func (x *Extractors) Period(message string) (int, bool) {
	lower := strings.ToLower(message)
	if m := periodNoPattern.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return n, true
		}
	}
	if m := ordinalPattern.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return n, true
		}
	}
	if m := ordinalWordPat.FindStringSubmatch(lower); m != nil {
		for i, w := range ordinalWordsList {
			if w == m[1] {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// ClockTime extracts a wall-clock time, normalized to zero-padded
// 24-hour "HH:MM". Recognized forms: "10:30", "10.30", "10:30 am",
// "2 pm", "14:00". A bare hour without am/pm is not a time. Hours above
// 23 or minutes above 59 never match.
func (x *Extractors) ClockTime(message string) (string, bool) {
	lower := strings.ToLower(message)
	if m := clockPattern.FindStringSubmatch(lower); m != nil {
		hours, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		if hours <= 23 && mins <= 59 {
			switch m[3] {
			case "pm":
				if hours < 12 {
					hours += 12
				}
			case "am":
				if hours == 12 {
					hours = 0
				}
			}
			return fmt.Sprintf("%02d:%02d", hours, mins), true
		}
	}
	if m := bareHourPattern.FindStringSubmatch(lower); m != nil {
		hours, _ := strconv.Atoi(m[1])
		if hours <= 23 {
			if m[2] == "pm" && hours < 12 {
				hours += 12
			}
			if m[2] == "am" && hours == 12 {
				hours = 0
			}
			return fmt.Sprintf("%02d:00", hours), true
		}
	}
	return "", false
}

// Subject resolves the first matching alias to its canonical subject.
func (x *Extractors) Subject(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, a := range x.aliases {
		if strings.Contains(lower, a.Alias) {
			return a.Subject, true
		}
	}
	return "", false
}

// Day extracts a weekday name mentioned anywhere in the message.
func (x *Extractors) Day(message string) (time.Weekday, bool) {
	return dates.Weekday(message)
}

// Date extracts an explicit calendar date (dd-mm-yyyy, dd/mm/yyyy or
// yyyy-mm-dd).
func (x *Extractors) Date(message string) (time.Time, bool) {
	return dates.ParseExplicitDate(message)
}
