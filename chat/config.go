package chat

// SubjectAlias maps a colloquial name to the canonical subject string
// stored in timetable rows. Order matters for tie-breaking: when two
// aliases of equal length both occur in an utterance, the one declared
// first wins.
type SubjectAlias struct {
	Alias   string
	Subject string
}

// Config carries the engine's lexical tables and canned texts. The
// tables ship with defaults matching the current course catalogue and
// can be replaced wholesale for another department.
type Config struct {
	Aliases  []SubjectAlias
	Welcome  map[Module]string
	Unknown  string
	Fallback string
	// FutureAdvisory is returned for attendance queries about dates
	// that have not happened yet. No store call is made for those.
	FutureAdvisory string
	// ErrorPrefix opens every store-failure reply.
	ErrorPrefix string
	// ErrorFallback replaces an empty failure detail.
	ErrorFallback string
}

const (
	welcomeTimetable = "\U0001F44B Hi! I'm your Time Table assistant.\n\nYou can ask me questions like:\n• \"What's my current period?\"\n• \"What is 3rd period?\"\n• \"What class at 10:30?\"\n• \"Show today's timetable\"\n• \"Tomorrow's schedule\"\n• \"When is AIML?\"\n\nHow can I help you today?"

	welcomeResult = "\U0001F44B Hi! I'm your Result assistant.\n\nYou can ask me questions like:\n• \"Show my exam results\"\n• \"What are my semester marks?\"\n• \"My grades\"\n\nWhat would you like to know?"

	welcomeAttendance = "\U0001F44B Hi! I'm your Attendance assistant.\n\nYou can ask me questions like:\n• \"What is my attendance?\"\n• \"Do I have attendance shortage?\"\n• \"Show attendance percentage\"\n\nHow can I assist you?"

	welcomeNotification = "\U0001F44B Hi! I'm your Notification assistant.\n\nI'll show you the latest college announcements and important updates.\n\nType \"show notifications\" or just say \"latest\" to see updates!"

	unknownHelp = "\U0001F914 I didn't quite understand that. Try asking:\n• \"What's my current period?\"\n• \"What is 3rd period?\"\n• \"What class at 10:30?\"\n• \"Show today's timetable\"\n• \"Tomorrow's schedule\"\n• \"When is AIML?\""

	fallbackText = "\U0001F914 I'm not sure how to help with that. Try rephrasing your question!"

	futureAdvisoryText = "⚠️ **Attendance is not available for future dates.**\n\nI can only show attendance for today or past dates. Try asking:\n• \"Today's attendance\"\n• \"Yesterday's attendance\"\n• \"Monday attendance\""

	errorPrefixText   = "⚠️ **Could not fetch data from server.**\n\n"
	errorFallbackText = "Please make sure the backend is running and try again."
)

// DefaultConfig returns the stock lexical tables.
func DefaultConfig() Config {
	return Config{
		Aliases: []SubjectAlias{
			{"fiot", "ET3491 FIOT"},
			{"iot", "ET3491 FIOT"},
			{"embedded", "ET3491 FIOT"},
			{"rs", "CEC348 RS"},
			{"remote sensing", "CEC348 RS"},
			{"remote", "CEC348 RS"},
			{"wsn", "CEC365 WSN"},
			{"wireless sensor", "CEC365 WSN"},
			{"sensor network", "CEC365 WSN"},
			{"aiml", "CS3491 AIML"},
			{"ai", "CS3491 AIML"},
			{"artificial intelligence", "CS3491 AIML"},
			{"machine learning", "CS3491 AIML"},
			{"ml", "CS3491 AIML"},
			{"awct", "CEC333 AWCT"},
			{"advanced wireless", "CEC333 AWCT"},
			{"wireless communication", "CEC333 AWCT"},
			{"res", "OEE351 RES"},
			{"renewable", "OEE351 RES"},
			{"renewable energy", "OEE351 RES"},
			{"energy", "OEE351 RES"},
			{"is", "MX3089 IS"},
			{"industry safety", "MX3089 IS"},
			{"safety", "MX3089 IS"},
			{"fiot lab", "ET3491 FIOT LAB"},
			{"iot lab", "ET3491 FIOT LAB"},
			{"aiml lab", "CS3491 AIML LAB"},
			{"ai lab", "CS3491 AIML LAB"},
			{"pt", "PT"},
			{"physical training", "PT"},
			{"lib", "LIB"},
			{"library", "LIB"},
			{"mini project", "Mini project/ Counseling"},
			{"counseling", "Mini project/ Counseling"},
			{"counselling", "Mini project/ Counseling"},
		},
		Welcome: map[Module]string{
			ModuleTimetable:    welcomeTimetable,
			ModuleResult:       welcomeResult,
			ModuleAttendance:   welcomeAttendance,
			ModuleNotification: welcomeNotification,
		},
		Unknown:        unknownHelp,
		Fallback:       fallbackText,
		FutureAdvisory: futureAdvisoryText,
		ErrorPrefix:    errorPrefixText,
		ErrorFallback:  errorFallbackText,
	}
}
