package timeresolver

import (
	"fmt"
	"regexp"
	"remindbot/internal/core/domain/reminder"
	"strconv"
	"strings"
	"time"

	"github.com/golang-module/carbon/v2"
)

const units = `seconds|second|secs|sec|detik|minutes|minute|mins|min|menit|hours|hour|hrs|hr|jam|days|day|hari|weeks|week|minggu|months|month|bulan|s|m|h|d|w`

const months = `january|jan|januari|february|feb|februari|march|mar|maret|april|apr|may|mei|june|jun|juni|july|jul|juli|august|aug|agustus|agu|september|sept|sep|october|oct|oktober|okt|november|nov|december|dec|desember|des`

var (
	reSpaces         = regexp.MustCompile(`\s+`)
	reAbsolute       = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}`)
	reNow            = regexp.MustCompile(`^(now|right now|sekarang)$`)
	reRelativeMarker = regexp.MustCompile(`^(in|after|dalam)\b|\b(later|lagi|from now|kemudian)$`)
	reHalfHour       = regexp.MustCompile(`\b(half an hour|setengah jam)\b`)
	reAmount         = regexp.MustCompile(`\b(\d{1,4}|an|a|one|satu|se)\s*(` + units + `)\b`)
	reNamedClock     = regexp.MustCompile(`\b(noon|midday|tengah hari|midnight|tengah malam)\b`)
	reClock          = regexp.MustCompile(
		`\b(?:(at|jam|pukul|pkl)\s*)?(\d{1,2})(?:[:.](\d{2}))?(?:\s*(am|pm))?` +
			`(?:\s*(?:in the\s+)?(pagi|siang|sore|malam|morning|afternoon|evening|night))?\b`,
	)
	reDayWord = regexp.MustCompile(
		`\b(day after tomorrow|tomorrow|tmrw|tmr|today|tonight|hari ini|malam ini|nanti malam|besok|lusa|next week|minggu depan)\b`,
	)
	reDayMonth    = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(` + months + `)\b(?:\s+(\d{4}))?`)
	reMonthDay    = regexp.MustCompile(`\b(` + months + `)\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4}))?`)
	reNumericDate = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}))?\b`)
	reWeekday     = regexp.MustCompile(
		`\b(monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat|sunday|sun|` +
			`senin|selasa|rabu|kamis|jumat|jum'at|sabtu|minggu|ahad)\b`,
	)
)

var dayOffsets = map[string]int{
	"today":              0,
	"tonight":            0,
	"hari ini":           0,
	"malam ini":          0,
	"nanti malam":        0,
	"tomorrow":           1,
	"tmrw":               1,
	"tmr":                1,
	"besok":              1,
	"day after tomorrow": 2,
	"lusa":               2,
	"next week":          7,
	"minggu depan":       7,
}

var eveningDays = map[string]bool{
	"tonight":     true,
	"malam ini":   true,
	"nanti malam": true,
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday, "minggu": time.Sunday, "ahad": time.Sunday,
	"monday": time.Monday, "mon": time.Monday, "senin": time.Monday,
	"tuesday": time.Tuesday, "tues": time.Tuesday, "tue": time.Tuesday, "selasa": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday, "rabu": time.Wednesday,
	"thursday": time.Thursday, "thurs": time.Thursday, "thur": time.Thursday, "thu": time.Thursday, "kamis": time.Thursday,
	"friday": time.Friday, "fri": time.Friday, "jumat": time.Friday, "jum'at": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday, "sabtu": time.Saturday,
}

var monthNumbers = map[string]int{
	"january": 1, "jan": 1, "januari": 1,
	"february": 2, "feb": 2, "februari": 2,
	"march": 3, "mar": 3, "maret": 3,
	"april": 4, "apr": 4,
	"may": 5, "mei": 5,
	"june": 6, "jun": 6, "juni": 6,
	"july": 7, "jul": 7, "juli": 7,
	"august": 8, "aug": 8, "agustus": 8, "agu": 8,
	"september": 9, "sept": 9, "sep": 9,
	"october": 10, "oct": 10, "oktober": 10, "okt": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12, "desember": 12, "des": 12,
}

var periods = map[string]period{
	"seconds": second, "second": second, "secs": second, "sec": second, "detik": second, "s": second,
	"minutes": minute, "minute": minute, "mins": minute, "min": minute, "menit": minute, "m": minute,
	"hours": hour, "hour": hour, "hrs": hour, "hr": hour, "jam": hour, "h": hour,
	"days": day, "day": day, "hari": day, "d": day,
	"weeks": week, "week": week, "minggu": week, "w": week,
	"months": month, "month": month, "bulan": month,
}

// Resolver turns English and Indonesian time expressions into UTC instants.
// Wall clock values are interpreted in the bot timezone and ambiguous
// expressions resolve to the future.
type Resolver struct {
	timezone string
}

func New(location *time.Location) *Resolver {
	if location == nil {
		location = time.UTC
	}
	return &Resolver{timezone: location.String()}
}

func (r *Resolver) Resolve(expression string, reference time.Time) (time.Time, error) {
	raw := strings.TrimSpace(expression)
	if reAbsolute.MatchString(raw) {
		parsed := carbon.Parse(raw, r.timezone)
		if parsed.Error != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp, %w", reminder.ErrTimeNotResolved)
		}
		return resolve(absolute{value: parsed}, reference, r.timezone)
	}

	query := normalize(raw)
	if query == "" {
		return time.Time{}, reminder.ErrTimeNotResolved
	}
	n, err := parse(query)
	if err != nil {
		return time.Time{}, err
	}
	return resolve(n, reference, r.timezone)
}

func normalize(expression string) string {
	query := strings.ToLower(strings.TrimSpace(expression))
	query = strings.Trim(query, ".!?")
	return reSpaces.ReplaceAllString(query, " ")
}

func parse(query string) (node, error) {
	if reNow.MatchString(query) {
		return relative{}, nil
	}

	if reRelativeMarker.MatchString(query) {
		rel, ok, err := parseRelative(query)
		if err != nil {
			return nil, err
		}
		if ok {
			return rel, nil
		}
	}

	day, hasDay, err := parseDay(query)
	if err != nil {
		return nil, err
	}
	clock, hasClock, err := parseClock(query, day.evening)
	if err != nil {
		return nil, err
	}
	if hasDay {
		if hasClock {
			day.at = &clock
		}
		return day, nil
	}
	if hasClock {
		return clock, nil
	}
	return nil, reminder.ErrTimeNotResolved
}

func parseRelative(query string) (rel relative, ok bool, err error) {
	halves := len(reHalfHour.FindAllString(query, -1))
	if halves > 0 {
		rel.amounts = append(rel.amounts, amount{n: 30 * halves, p: minute})
		query = reHalfHour.ReplaceAllString(query, " ")
	}

	dateLevel := true
	for _, match := range reAmount.FindAllStringSubmatch(query, -1) {
		if len(match[2]) == 1 && !isDigits(match[1]) {
			continue
		}
		n, err := parseQuantity(match[1])
		if err != nil {
			return rel, false, err
		}
		p := periods[match[2]]
		rel.amounts = append(rel.amounts, amount{n: n, p: p})
		dateLevel = dateLevel && p.isDateLevel()
	}
	if len(rel.amounts) == 0 {
		return rel, false, nil
	}

	if dateLevel && halves == 0 {
		clock, hasClock, err := parseClock(query, false)
		if err != nil {
			return rel, false, err
		}
		if hasClock {
			rel.at = &clock
		}
	}
	return rel, true, nil
}

func isDigits(raw string) bool {
	_, err := strconv.Atoi(raw)
	return err == nil
}

func parseQuantity(raw string) (int, error) {
	switch raw {
	case "a", "an", "one", "satu", "se":
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid quantity '%s', %w", raw, reminder.ErrTimeNotResolved)
	}
	return n, nil
}

func parseDay(query string) (day on, ok bool, err error) {
	if match := reDayWord.FindStringSubmatch(query); match != nil {
		return on{offset: dayOffsets[match[1]], evening: eveningDays[match[1]]}, true, nil
	}

	if match := reNumericDate.FindStringSubmatch(query); match != nil {
		date, err := newCalendarDate(match[1], match[2], match[3])
		return on{date: date}, err == nil, err
	}
	if match := reDayMonth.FindStringSubmatch(query); match != nil {
		date, err := newCalendarDate(match[1], strconv.Itoa(monthNumbers[match[2]]), match[3])
		return on{date: date}, err == nil, err
	}
	if match := reMonthDay.FindStringSubmatch(query); match != nil {
		date, err := newCalendarDate(match[2], strconv.Itoa(monthNumbers[match[1]]), match[3])
		return on{date: date}, err == nil, err
	}

	if match := reWeekday.FindStringSubmatch(query); match != nil {
		weekday := weekdays[match[1]]
		return on{weekday: &weekday}, true, nil
	}
	return day, false, nil
}

func newCalendarDate(rawDay, rawMonth, rawYear string) (*calendarDate, error) {
	d, err := strconv.Atoi(rawDay)
	if err != nil || d < 1 || d > 31 {
		return nil, fmt.Errorf("invalid day '%s', %w", rawDay, reminder.ErrTimeNotResolved)
	}
	m, err := strconv.Atoi(rawMonth)
	if err != nil || m < 1 || m > 12 {
		return nil, fmt.Errorf("invalid month '%s', %w", rawMonth, reminder.ErrTimeNotResolved)
	}
	date := &calendarDate{day: d, month: m}
	if rawYear != "" {
		y, err := strconv.Atoi(rawYear)
		if err != nil {
			return nil, fmt.Errorf("invalid year '%s', %w", rawYear, reminder.ErrTimeNotResolved)
		}
		date.year = y
		date.explicitYear = true
	}
	return date, nil
}

// parseClock finds the first clock time in the query. A bare number is not
// a clock unless it has a prefix, minutes, am/pm or a part of the day.
func parseClock(query string, evening bool) (clock at, ok bool, err error) {
	if match := reNamedClock.FindStringSubmatch(query); match != nil {
		switch match[1] {
		case "midnight", "tengah malam":
			return at{}, true, nil
		default:
			return at{hour: 12}, true, nil
		}
	}

	for _, match := range reClock.FindAllStringSubmatch(query, -1) {
		prefix, rawHour, rawMinute, meridiem, dayPart := match[1], match[2], match[3], match[4], match[5]
		if prefix == "" && rawMinute == "" && meridiem == "" && dayPart == "" {
			continue
		}
		clock, err := newClock(rawHour, rawMinute, meridiem, dayPart, evening)
		return clock, err == nil, err
	}
	return clock, false, nil
}

func newClock(rawHour, rawMinute, meridiem, dayPart string, evening bool) (at, error) {
	h, err := strconv.Atoi(rawHour)
	if err != nil {
		return at{}, reminder.ErrTimeNotResolved
	}
	var m int
	if rawMinute != "" {
		m, err = strconv.Atoi(rawMinute)
		if err != nil || m > 59 {
			return at{}, fmt.Errorf("invalid minute '%s', %w", rawMinute, reminder.ErrTimeNotResolved)
		}
	}

	if meridiem != "" {
		if h < 1 || h > 12 {
			return at{}, fmt.Errorf("invalid %s hour '%d', %w", meridiem, h, reminder.ErrTimeNotResolved)
		}
		if meridiem == "am" && h == 12 {
			h = 0
		}
		if meridiem == "pm" && h != 12 {
			h += 12
		}
		return at{hour: h, minute: m}, nil
	}

	if h > 24 {
		return at{}, fmt.Errorf("invalid hour '%d', %w", h, reminder.ErrTimeNotResolved)
	}
	if h == 24 {
		h = 0
	}
	switch dayPart {
	case "pagi", "morning":
		if h == 12 {
			h = 0
		}
	case "siang":
		if h >= 1 && h <= 10 {
			h += 12
		}
	case "afternoon", "sore", "evening":
		if h >= 1 && h < 12 {
			h += 12
		}
	case "malam", "night":
		if h == 12 {
			h = 0
		} else if h >= 5 && h < 12 {
			h += 12
		}
	default:
		if evening && h >= 1 && h < 12 {
			h += 12
		}
	}
	return at{hour: h, minute: m}, nil
}
