package notify

import (
	"fmt"
	"strings"
	"time"
)

// slotTimeFormat matches the wording clients see in chat: weekday,
// day, short month, 12-hour clock.
const slotTimeFormat = "Monday, 2 Jan, 3:04 PM"

// FormatMeetingTime renders a meeting start for client-facing copy.
func FormatMeetingTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(slotTimeFormat)
}

// BookingConfirmationMessage is the confirmation sent after a
// successful booking.
func BookingConfirmationMessage(name string, date time.Time, duration int, joinLink string, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Perfect, %s.\n\nYou're confirmed for:\n%s\nDuration: %d minutes\n",
		firstNameOr(name, "there"), FormatMeetingTime(date, loc), duration)
	if joinLink != "" {
		fmt.Fprintf(&b, "Meeting link: %s\n", joinLink)
	}
	b.WriteString("\nYou'll receive reminders before the meeting.")
	return b.String()
}

// CancellationMessage tells a client their meeting was cancelled and a
// new slot is on the way.
func CancellationMessage(name, reason string) string {
	msg := fmt.Sprintf("Hi %s, unfortunately we need to reschedule our meeting", firstNameOr(name, "there"))
	if reason != "" {
		msg += fmt.Sprintf(" due to %s", reason)
	}
	return msg + ". I'll find the next best slot for you — one moment."
}

// RescheduleOfferMessage goes out after a no-show.
func RescheduleOfferMessage(name string) string {
	return fmt.Sprintf(
		"Hi %s, we noticed you couldn't make it to our scheduled call. No worries! Would you like to reschedule? I can find a new slot that works better for you.",
		firstNameOr(name, "there"))
}

// RescheduleMessage goes out when the team initiates a reschedule.
func RescheduleMessage(name string) string {
	return fmt.Sprintf("Hi %s, let's find a new time that works for you.", firstNameOr(name, "there"))
}

// EmergencyCancelClientMessage is the apology sent to each client hit
// by a bulk emergency cancellation.
func EmergencyCancelClientMessage(name string, date time.Time, loc *time.Location) string {
	return fmt.Sprintf(
		"Hi %s\n\nI'm reaching out regarding your scheduled call on %s.\n\n"+
			"Unfortunately, due to an urgent situation, we need to reschedule. I sincerely apologize for the inconvenience.\n\n"+
			"I'll find the next best available slot for you — would you prefer:\n\n"+
			"A) As soon as possible (within 24-48 hours)\n"+
			"B) Same time slot on a different day\n"+
			"C) You suggest a time that works\n\n"+
			"Again, sorry about this and thank you for understanding.",
		firstNameOr(name, "there"), FormatMeetingTime(date, loc))
}

// EmergencyCancelOwnerSummary confirms a bulk cancellation back to the
// team member who requested it.
func EmergencyCancelOwnerSummary(cancelled []string) string {
	if len(cancelled) == 0 {
		return "No upcoming meetings to cancel. You're all clear."
	}
	plural := ""
	if len(cancelled) > 1 {
		plural = "s"
	}
	return fmt.Sprintf(
		"Done. Cancelled %d meeting%s:\n\n%s\n\nEach client has been sent a reschedule message with options. Rebooking will be handled once they reply.",
		len(cancelled), plural, "- "+strings.Join(cancelled, "\n- "))
}

func firstNameOr(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	return name
}
