package chat

import (
	"fmt"
	"strconv"
	"strings"
)

// Reply texts follow the portal's chat voice: a short markdown-ish
// headline, structured rows in the payload. Empty result sets keep
// Data nil so the client renders plain text.

func formatCurrentNext(np *NextPeriod) Reply {
	if np == nil {
		return Reply{Text: "\U0001F4ED No more classes today."}
	}
	emoji, label := "\U0001F4C5", "Next Class"
	if np.IsCurrent {
		emoji, label = "\U0001F4DA", "Current Class"
	}
	return Reply{Text: fmt.Sprintf(
		"%s **Your %s:**\n\n\U0001F539 **%s**\n⏰ Time: %s\n\U0001F468‍\U0001F3EB Faculty: %s\n\U0001F4CC Period: %s",
		emoji, label, np.Period.Subject, np.Period.Time, np.Period.Staff, np.Period.Period)}
}

func formatPeriodQuery(periodNo int, slots []Slot) Reply {
	want := strconv.Itoa(periodNo)
	for _, s := range slots {
		if s.Period == want {
			return Reply{Text: fmt.Sprintf(
				"\U0001F4DA **Period %d Today:**\n\n\U0001F539 **%s**\n⏰ Time: %s\n\U0001F468‍\U0001F3EB Faculty: %s",
				periodNo, s.Subject, s.Time, s.Staff)}
		}
	}
	if len(slots) == 0 {
		return Reply{Text: "\U0001F4ED No timetable available for today."}
	}
	labels := make([]string, len(slots))
	for i, s := range slots {
		labels[i] = s.Period
	}
	return Reply{Text: fmt.Sprintf(
		"\U0001F4ED No class scheduled for period %d today.\n\nToday's periods: %s",
		periodNo, strings.Join(labels, ", "))}
}

func formatTimeQuery(clock string, slots []Slot) Reply {
	if len(slots) == 0 {
		return Reply{Text: "\U0001F4ED No timetable available for today."}
	}
	for _, s := range slots {
		start, end, ok := s.Span()
		if ok && clock >= start && clock < end {
			return Reply{Text: fmt.Sprintf(
				"\U0001F4DA **Class at %s:**\n\n\U0001F539 **%s**\n⏰ Time: %s\n\U0001F468‍\U0001F3EB Faculty: %s\n\U0001F4CC Period: %s",
				clock, s.Subject, s.Time, s.Staff, s.Period)}
		}
	}
	for _, s := range slots {
		start, _, ok := s.Span()
		if ok && start > clock {
			return Reply{Text: fmt.Sprintf(
				"\U0001F4ED No class at %s.\n\n\U0001F4C5 **Next class after %s:**\n\U0001F539 **%s**\n⏰ Time: %s\n\U0001F468‍\U0001F3EB Faculty: %s",
				clock, clock, s.Subject, s.Time, s.Staff)}
		}
	}
	return Reply{Text: fmt.Sprintf("\U0001F4ED No class at or after %s today.", clock)}
}

func formatSubjectQuery(subject string, slots []Slot) Reply {
	if len(slots) == 0 {
		return Reply{Text: "\U0001F4ED No timetable available for today."}
	}
	var b strings.Builder
	found := false
	fmt.Fprintf(&b, "\U0001F4DA **%s Today:**\n\n", subject)
	for _, s := range slots {
		if strings.Contains(strings.ToLower(s.Subject), strings.ToLower(subject)) {
			found = true
			fmt.Fprintf(&b, "\U0001F539 **Period %s** – %s\n   \U0001F468‍\U0001F3EB %s\n", s.Period, s.Time, s.Staff)
		}
	}
	if !found {
		return Reply{Text: fmt.Sprintf(
			"\U0001F4ED **%s** is not scheduled for today.\n\nTry asking \"show timetable\" to see all classes.", subject)}
	}
	return Reply{Text: strings.TrimSpace(b.String())}
}

var dayLabels = map[string]string{
	IntentToday:              "today's timetable",
	IntentYesterday:          "yesterday's timetable",
	IntentTomorrow:           "tomorrow's schedule",
	IntentDayAfterTomorrow:   "the day after tomorrow's schedule",
	IntentDayBeforeYesterday: "the day before yesterday's timetable",
}

func dayLabel(intent string) string {
	if l, ok := dayLabels[intent]; ok {
		return l
	}
	return "the timetable for " + capitalize(intent)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatDayTimetable(intent string, slots []Slot) Reply {
	label := dayLabel(intent)
	if len(slots) == 0 {
		return Reply{Text: fmt.Sprintf("\U0001F4ED No classes scheduled for %s.", label)}
	}
	rows := make([][]string, len(slots))
	for i, s := range slots {
		rows[i] = []string{s.Period, s.Time, s.Subject, s.Staff}
	}
	return Reply{
		Text: fmt.Sprintf("\U0001F4C5 Here is %s:", label),
		Data: TablePayload([]string{"Period", "Time", "Subject", "Faculty"}, rows),
	}
}

func formatResults(summary *ResultSummary) Reply {
	if summary == nil || len(summary.Results) == 0 {
		return Reply{Text: "\U0001F4ED No exam results available yet."}
	}
	rows := make([][]string, len(summary.Results))
	for i, r := range summary.Results {
		rows[i] = []string{r.SubjectCode, r.SubjectName, strconv.Itoa(r.Marks), r.Grade, r.Status}
	}
	return Reply{
		Text: fmt.Sprintf("\U0001F4CA **Your Exam Results:**\n\n**Overall Average:** %.1f%%", summary.Average),
		Data: TablePayload([]string{"Subject Code", "Subject Name", "Marks", "Grade", "Status"}, rows),
	}
}

func formatDailyAttendance(day *DayAttendance) Reply {
	if day == nil {
		return Reply{Text: "\U0001F4ED No attendance data available."}
	}
	status := AttendanceStatus(day.Percentage, day.TotalClasses)
	if status == "empty" {
		return Reply{Text: fmt.Sprintf(
			"\U0001F4C5 **No attendance records found for %s, %s.**\n\nThis could be a holiday or no classes were scheduled.",
			day.DayOfWeek, day.Date)}
	}
	emoji := "✅"
	if status == "low" {
		emoji = "⚠️"
	}
	rows := make([][]string, len(day.Records))
	for i, r := range day.Records {
		rows[i] = []string{r.Period, r.Subject, r.Status, r.Time}
	}
	return Reply{
		Text: fmt.Sprintf(
			"\U0001F4C5 **Attendance for %s, %s:**\n\n%s **Your Attendance:** %d/%d (%.1f%%)",
			day.DayOfWeek, day.Date, emoji, day.Attended, day.TotalClasses, day.Percentage),
		Data: TablePayload([]string{"Period", "Subject", "Status", "Time"}, rows),
	}
}

func formatOverallAttendance(summary *AttendanceSummary) Reply {
	if summary == nil || len(summary.Attendance) == 0 {
		return Reply{Text: "\U0001F4ED No attendance data available yet."}
	}
	items := make([]StatItem, 0, len(summary.Attendance)+1)
	items = append(items, StatItem{
		Label:  "Overall Attendance",
		Value:  fmt.Sprintf("%.1f%%", summary.OverallPercentage),
		Status: AttendanceStatus(summary.OverallPercentage, 1),
	})
	for _, a := range summary.Attendance {
		items = append(items, StatItem{
			Label:  a.Subject,
			Value:  fmt.Sprintf("%d/%d (%.1f%%)", a.Present, a.Total, a.Percentage),
			Status: AttendanceStatus(a.Percentage, a.Total),
		})
	}
	text := fmt.Sprintf("\U0001F4CA **Your Attendance Summary:**\n\n\U0001F4C8 **Overall Attendance:** %.1f%%",
		summary.OverallPercentage)
	if len(summary.ShortageSubjects) > 0 {
		text += fmt.Sprintf("\n\n⚠️ **Shortage subjects (below %d%%):** %s",
			lowAttendanceCutoff, strings.Join(summary.ShortageSubjects, ", "))
	}
	return Reply{Text: text, Data: StatsPayload(items)}
}

func formatNotifications(notes []Notification) Reply {
	if len(notes) == 0 {
		return Reply{Text: "\U0001F4ED **No notifications at this time.**"}
	}
	if len(notes) > 5 {
		notes = notes[:5]
	}
	items := make([]string, len(notes))
	for i, n := range notes {
		items[i] = fmt.Sprintf("**%d. %s**\n%s\n\U0001F4C5 %s", i+1, n.Title, n.Message, n.Date)
	}
	return Reply{
		Text: "\U0001F4E2 **Latest Notifications:**",
		Data: ListPayload(items),
	}
}

