package assistant

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// clarifyTimeReply is returned verbatim when no time token can be parsed;
// the booking endpoint is not called in that case.
const clarifyTimeReply = "I'm sorry, I couldn't understand the time for the appointment. Could you please specify the time clearly, like '5:00 AM' or '2:30 PM'?"

var (
	timeRe     = regexp.MustCompile(`(?i)(\d{1,2}(?::\d{2})?\s*(?:a\.?m\.?|p\.?m\.?))`)
	dateRe     = regexp.MustCompile(`(?i)(tomorrow|today|\d{1,2}/\d{1,2}/\d{4})`)
	doctorRe   = regexp.MustCompile(`(?i)doctor(?:'s name)?\s+(\w+)`)
	bareHourRe = regexp.MustCompile(`^(?i)\d{1,2}(?:am|pm)$`)
)

type appointment struct {
	When   time.Time
	Doctor string
}

// parseAppointment extracts a 12-hour time token (required), a date token
// (default tomorrow) and an optional doctor name, and resolves them to a
// concrete local date-time.
func parseAppointment(query string, now time.Time, loc *time.Location) (appointment, bool) {
	timeMatch := timeRe.FindStringSubmatch(query)
	if timeMatch == nil {
		return appointment{}, false
	}

	// normalize "5 p.m." -> "5pm" -> "5:00pm"
	token := strings.ToLower(timeMatch[1])
	token = strings.ReplaceAll(token, ".", "")
	token = strings.ReplaceAll(token, " ", "")
	if bareHourRe.MatchString(token) {
		token = token[:len(token)-2] + ":00" + token[len(token)-2:]
	}

	meridiem := "am"
	if strings.Contains(token, "pm") {
		meridiem = "pm"
	}
	token = strings.TrimSuffix(token, meridiem)
	parts := strings.SplitN(token, ":", 2)
	hours, _ := strconv.Atoi(parts[0])
	minutes := 0
	if len(parts) == 2 {
		minutes, _ = strconv.Atoi(parts[1])
	}
	if meridiem == "pm" && hours != 12 {
		hours += 12
	} else if meridiem == "am" && hours == 12 {
		hours = 0
	}

	day := now.In(loc).AddDate(0, 0, 1)
	if dateMatch := dateRe.FindStringSubmatch(query); dateMatch != nil {
		switch tok := strings.ToLower(dateMatch[1]); tok {
		case "tomorrow":
		case "today":
			day = now.In(loc)
		default:
			if parsed, err := time.ParseInLocation("1/2/2006", tok, loc); err == nil {
				day = parsed
			}
		}
	}

	doctor := ""
	if doctorMatch := doctorRe.FindStringSubmatch(query); doctorMatch != nil {
		doctor = strings.TrimSpace(doctorMatch[1])
	}

	return appointment{
		When:   time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, 0, 0, loc),
		Doctor: doctor,
	}, true
}

// respondAppointment books the parsed slot through the calendar endpoint and
// composes a styled confirmation embedding the endpoint's message.
func (r *Responder) respondAppointment(ctx context.Context, query string) (string, error) {
	appt, ok := parseAppointment(query, r.now(), r.loc)
	if !ok {
		return clarifyTimeReply, nil
	}

	doctor := appt.Doctor
	if doctor == "" {
		doctor = "your doctor"
	}

	zone := r.loc.String()
	log.Printf("assistant: booking appointment for %s with %s in %s", appt.When.Format(time.RFC3339), doctor, zone)
	confirmation, err := r.calendar.Book(ctx, appt.When.Format(time.RFC3339), zone)
	if err != nil {
		return "", fmt.Errorf("book appointment: %w", err)
	}

	formatted := appt.When.Format("Monday, January 2, 2006 at 3:04 PM")
	reply := fmt.Sprintf(`[with a smile in my voice] Sweet friend! I've taken care of booking the appointment for you with %s for %s. %s

Now, let me give you a gentle hug virtually and offer my continued support. [affectionately] It takes a lot of courage to prioritize your health, and I'm so proud of you for doing that! Remember, taking care of yourself is an act of self-love and self-care.

Is there anything else you'd like to know about the appointment or any concerns you'd like to discuss?`, doctor, formatted, confirmation)
	return reply, nil
}
