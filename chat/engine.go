package chat

import (
	"context"
	"strings"
	"time"

	"github.com/jeswanthsaravanan/smartcampus/dates"
	"github.com/jeswanthsaravanan/smartcampus/logger"
)

// Engine answers one utterance at a time. Process never returns an
// error: store failures become error-flagged replies so the
// conversation always advances.
type Engine struct {
	store      RecordStore
	cfg        Config
	classifier *Classifier
	ex         *Extractors
	log        *logger.Logger
	// Observer, when set, is called once per processed message with
	// the module and the classified intent.
	Observer func(module Module, intent string)
}

func NewEngine(store RecordStore, cfg Config, clock dates.Clock, log *logger.Logger) *Engine {
	if clock == nil {
		clock = time.Now
	}
	ex := NewExtractors(cfg.Aliases)
	return &Engine{
		store:      store,
		cfg:        cfg,
		classifier: NewClassifier(ex, clock),
		ex:         ex,
		log:        log,
	}
}

// Welcome returns the module's greeting. Unrecognized modules greet as
// the timetable assistant.
func (e *Engine) Welcome(module Module) string {
	if text, ok := e.cfg.Welcome[module]; ok {
		return text
	}
	return e.cfg.Welcome[ModuleTimetable]
}

// Process classifies the message, resolves it against the store and
// formats the reply.
func (e *Engine) Process(ctx context.Context, module Module, message string) Reply {
	intent := e.classifier.Classify(module, message)
	if e.Observer != nil {
		e.Observer(module, intent)
	}
	if e.log != nil {
		e.log.Debugf("chat: module=%s intent=%s", module, intent)
	}

	switch module {
	case ModuleTimetable:
		return e.resolveTimetable(ctx, intent, message)
	case ModuleResult:
		summary, err := e.store.Results(ctx)
		if err != nil {
			return e.failure(err)
		}
		return formatResults(summary)
	case ModuleAttendance:
		return e.resolveAttendance(ctx, intent, message)
	case ModuleNotification:
		notes, err := e.store.Notifications(ctx)
		if err != nil {
			return e.failure(err)
		}
		return formatNotifications(notes)
	}
	return Reply{Text: e.cfg.Fallback}
}

func (e *Engine) resolveTimetable(ctx context.Context, intent, message string) Reply {
	switch intent {
	case IntentCurrent, IntentNext:
		np, err := e.store.NextPeriod(ctx)
		if err != nil {
			return e.failure(err)
		}
		return formatCurrentNext(np)

	case IntentPeriod:
		periodNo, _ := e.ex.Period(message)
		slots, err := e.store.Timetable(ctx, IntentToday)
		if err != nil {
			return e.failure(err)
		}
		return formatPeriodQuery(periodNo, slots)

	case IntentTime:
		clock, _ := e.ex.ClockTime(message)
		slots, err := e.store.Timetable(ctx, IntentToday)
		if err != nil {
			return e.failure(err)
		}
		return formatTimeQuery(clock, slots)

	case IntentSubject:
		subject, _ := e.ex.Subject(message)
		slots, err := e.store.Timetable(ctx, IntentToday)
		if err != nil {
			return e.failure(err)
		}
		return formatSubjectQuery(subject, slots)

	case IntentUnknown:
		return Reply{Text: e.cfg.Unknown}
	}

	// Remaining intents are day selectors: today, yesterday, tomorrow,
	// the compound forms and literal weekday names.
	slots, err := e.store.Timetable(ctx, intent)
	if err != nil {
		return e.failure(err)
	}
	return formatDayTimetable(intent, slots)
}

func (e *Engine) resolveAttendance(ctx context.Context, intent, message string) Reply {
	switch {
	case intent == IntentFutureDate:
		return Reply{Text: e.cfg.FutureAdvisory}

	case intent == IntentExplicitDate:
		d, _ := e.ex.Date(message)
		day, err := e.store.DailyAttendance(ctx, d.Format("2006-01-02"))
		if err != nil {
			return e.failure(err)
		}
		return formatDailyAttendance(day)

	case intent == IntentLastWeekDay:
		day, err := e.store.DailyAttendance(ctx, strings.ToLower(strings.TrimSpace(message)))
		if err != nil {
			return e.failure(err)
		}
		return formatDailyAttendance(day)

	case intent == IntentToday, intent == IntentYesterday,
		intent == IntentDayBeforeYesterday, IsWeekdayIntent(intent):
		day, err := e.store.DailyAttendance(ctx, intent)
		if err != nil {
			return e.failure(err)
		}
		return formatDailyAttendance(day)
	}

	summary, err := e.store.AttendanceSummary(ctx)
	if err != nil {
		return e.failure(err)
	}
	return formatOverallAttendance(summary)
}

func (e *Engine) failure(err error) Reply {
	if e.log != nil {
		e.log.Errorf("chat: store request failed: %v", err)
	}
	detail := e.cfg.ErrorFallback
	if err != nil && err.Error() != "" {
		detail = err.Error()
	}
	return Reply{Text: e.cfg.ErrorPrefix + detail, IsError: true}
}
