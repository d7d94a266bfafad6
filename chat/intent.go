package chat

import (
	"regexp"
	"strings"
	"time"

	"github.com/jeswanthsaravanan/smartcampus/dates"
)

// Intent tags produced by the classifier. Weekday intents are the
// lowercase day name itself ("monday" .. "sunday").
const (
	IntentCurrent            = "current"
	IntentNext               = "next"
	IntentPeriod             = "period"
	IntentTime               = "time"
	IntentSubject            = "subject"
	IntentToday              = "today"
	IntentYesterday          = "yesterday"
	IntentTomorrow           = "tomorrow"
	IntentDayAfterTomorrow   = "day_after_tomorrow"
	IntentDayBeforeYesterday = "day_before_yesterday"
	IntentFutureDate         = "future_date"
	IntentExplicitDate       = "explicit_date"
	IntentLastWeekDay        = "last_week_day"
	IntentStatus             = "status"
	IntentAll                = "all"
	IntentUnknown            = "unknown"
)

var (
	classNowPattern  = regexp.MustCompile(`what('?s| is)\s+(my\s+)?class\s+now`)
	nextSlotPattern  = regexp.MustCompile(`next\s+(period|class)`)
	allWordPattern   = regexp.MustCompile(`\ball\b`)
	weekdayIntentSet = map[string]bool{
		"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
		"friday": true, "saturday": true, "sunday": true,
	}
)

// Classifier assigns one intent tag per utterance by walking an ordered
// rule chain and taking the first match. Rule order is load-bearing:
// reordering changes classifications, so the chains are fixed slices
// covered by tests rather than a map.
type Classifier struct {
	ex         *Extractors
	resolver   *dates.Resolver
	timetable  []rule
	attendance []rule
}

type rule struct {
	name string
	eval func(p *probe) (string, bool)
}

// probe is one utterance with its extraction results, computed once.
type probe struct {
	lower      string
	period     int
	hasPeriod  bool
	clock      string
	hasClock   bool
	subject    string
	hasSubject bool
	weekday    string
	hasWeekday bool
	date       time.Time
	hasDate    bool
}

func NewClassifier(ex *Extractors, clock dates.Clock) *Classifier {
	if clock == nil {
		clock = time.Now
	}
	c := &Classifier{ex: ex, resolver: dates.NewResolver(clock)}
	c.timetable = c.timetableRules()
	c.attendance = c.attendanceRules()
	return c
}

// Classify tags the message for the given module. Result and
// notification modules answer the same way regardless of phrasing.
func (c *Classifier) Classify(module Module, message string) string {
	switch module {
	case ModuleTimetable:
		return c.walk(c.timetable, message)
	case ModuleAttendance:
		return c.walk(c.attendance, message)
	case ModuleResult, ModuleNotification:
		return IntentAll
	}
	return IntentUnknown
}

// RuleNames lists the module's rule chain in evaluation order.
func (c *Classifier) RuleNames(module Module) []string {
	var chain []rule
	switch module {
	case ModuleTimetable:
		chain = c.timetable
	case ModuleAttendance:
		chain = c.attendance
	default:
		return nil
	}
	names := make([]string, len(chain))
	for i, r := range chain {
		names[i] = r.name
	}
	return names
}

func (c *Classifier) walk(chain []rule, message string) string {
	p := c.probe(message)
	for _, r := range chain {
		if tag, ok := r.eval(p); ok {
			return tag
		}
	}
	return IntentUnknown
}

func (c *Classifier) probe(message string) *probe {
	p := &probe{lower: strings.ToLower(message)}
	p.period, p.hasPeriod = c.ex.Period(p.lower)
	p.clock, p.hasClock = c.ex.ClockTime(p.lower)
	p.subject, p.hasSubject = c.ex.Subject(p.lower)
	if wd, ok := c.ex.Day(p.lower); ok {
		p.weekday = strings.ToLower(wd.String())
		p.hasWeekday = true
	}
	p.date, p.hasDate = c.ex.Date(p.lower)
	return p
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func (c *Classifier) timetableRules() []rule {
	return []rule{
		{"compound_past_day", func(p *probe) (string, bool) {
			if containsAny(p.lower, "day before yesterday", "two days ago") {
				return IntentDayBeforeYesterday, true
			}
			return "", false
		}},
		{"compound_future_day", func(p *probe) (string, bool) {
			if containsAny(p.lower, "day after tomorrow", "overmorrow", "two days from now") {
				return IntentDayAfterTomorrow, true
			}
			return "", false
		}},
		{"current", func(p *probe) (string, bool) {
			if containsAny(p.lower, "current", "present", "ongoing", "right now", "happening now") ||
				classNowPattern.MatchString(p.lower) {
				return IntentCurrent, true
			}
			return "", false
		}},
		{"next", func(p *probe) (string, bool) {
			if nextSlotPattern.MatchString(p.lower) || containsAny(p.lower, "upcoming", "after this") {
				return IntentNext, true
			}
			return "", false
		}},
		{"period", func(p *probe) (string, bool) {
			if p.hasPeriod {
				return IntentPeriod, true
			}
			return "", false
		}},
		{"time", func(p *probe) (string, bool) {
			if p.hasClock && containsAny(p.lower, "class", "period", "what", "which") {
				return IntentTime, true
			}
			return "", false
		}},
		{"subject", func(p *probe) (string, bool) {
			if p.hasSubject && containsAny(p.lower, "when", "what time", "which period", "class") {
				return IntentSubject, true
			}
			return "", false
		}},
		{"yesterday", func(p *probe) (string, bool) {
			if containsAny(p.lower, "yesterday", "previous day") {
				return IntentYesterday, true
			}
			return "", false
		}},
		{"tomorrow", func(p *probe) (string, bool) {
			if containsAny(p.lower, "tomorrow", "tommorow", "tmrw", "tmr") {
				return IntentTomorrow, true
			}
			return "", false
		}},
		{"weekday", func(p *probe) (string, bool) {
			if p.hasWeekday {
				return p.weekday, true
			}
			return "", false
		}},
		{"today", func(p *probe) (string, bool) {
			if containsAny(p.lower, "today", "timetable", "schedule", "full", "show") ||
				allWordPattern.MatchString(p.lower) {
				return IntentToday, true
			}
			return "", false
		}},
		{"bare_next", func(p *probe) (string, bool) {
			if strings.Contains(p.lower, "next") {
				return IntentNext, true
			}
			return "", false
		}},
	}
}

func (c *Classifier) attendanceRules() []rule {
	return []rule{
		{"overmorrow", func(p *probe) (string, bool) {
			if containsAny(p.lower, "day after tomorrow", "overmorrow") {
				return IntentFutureDate, true
			}
			return "", false
		}},
		{"tomorrow", func(p *probe) (string, bool) {
			if containsAny(p.lower, "tomorrow", "tommorow", "tmrw") {
				return IntentFutureDate, true
			}
			return "", false
		}},
		{"last_week_day", func(p *probe) (string, bool) {
			if strings.Contains(p.lower, "last week") ||
				(strings.Contains(p.lower, "last ") && p.hasWeekday) {
				return IntentLastWeekDay, true
			}
			return "", false
		}},
		{"next_week", func(p *probe) (string, bool) {
			if strings.Contains(p.lower, "next week") ||
				(strings.Contains(p.lower, "next") && p.hasWeekday) {
				return IntentFutureDate, true
			}
			return "", false
		}},
		{"explicit_date", func(p *probe) (string, bool) {
			if !p.hasDate {
				return "", false
			}
			// Calendar-day comparison. Parsed dates are midnight UTC
			// while the clock carries a zone, so comparing instants
			// would shift the boundary by the clock's UTC offset.
			if c.resolver.IsFuture(p.date) {
				return IntentFutureDate, true
			}
			return IntentExplicitDate, true
		}},
		{"compound_past_day", func(p *probe) (string, bool) {
			if containsAny(p.lower, "day before yesterday", "two days ago") {
				return IntentDayBeforeYesterday, true
			}
			return "", false
		}},
		{"yesterday", func(p *probe) (string, bool) {
			if strings.Contains(p.lower, "yesterday") {
				return IntentYesterday, true
			}
			return "", false
		}},
		{"today", func(p *probe) (string, bool) {
			if strings.Contains(p.lower, "today") {
				return IntentToday, true
			}
			return "", false
		}},
		{"weekday", func(p *probe) (string, bool) {
			if p.hasWeekday {
				return p.weekday, true
			}
			return "", false
		}},
		{"status", func(p *probe) (string, bool) {
			return IntentStatus, true
		}},
	}
}

// IsWeekdayIntent reports whether the tag is a literal day name.
func IsWeekdayIntent(tag string) bool {
	return weekdayIntentSet[tag]
}
