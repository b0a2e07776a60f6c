package meeting

import (
	"fmt"
	"time"

	"github.com/clientbook/clientbook/internal/crm"
)

// noneSentinel is rendered when a client has no qualifying meeting.
const noneSentinel = "-"

const dateLayout = "2006-01-02"

// Aggregate computes the derived dashboard fields for one client from its
// two source lists. It is a pure function of its inputs: the result is never
// stored, so it cannot go stale.
//
// LastMeeting is the documented meeting with the maximum date; among equal
// dates the most recently created wins. NextMeeting is the scheduled meeting
// with the minimum (date, time) strictly after now; past-dated slots are
// excluded even if they were never documented.
func Aggregate(client *crm.Client, meetings []*Meeting, scheduled []*ScheduledMeeting, now time.Time) ClientSummary {
	cs := ClientSummary{
		ClientID:       client.ID,
		ClientName:     client.Name,
		LastMeeting:    noneSentinel,
		NextMeeting:    noneSentinel,
		MeetingCount:   len(meetings),
		ScheduledCount: len(scheduled),
	}

	var last *Meeting
	for _, m := range meetings {
		if last == nil || m.Date.After(last.Date) ||
			(m.Date.Equal(last.Date) && m.CreatedAt.After(last.CreatedAt)) {
			last = m
		}
	}
	if last != nil {
		cs.LastMeeting = last.Date.Format(dateLayout)
		if last.Sentiment != nil {
			cs.LastSentiment = *last.Sentiment
		}
	}

	var next *ScheduledMeeting
	var nextAt time.Time
	for _, sm := range scheduled {
		at, err := scheduledInstant(sm)
		if err != nil {
			continue
		}
		if !at.After(now) {
			continue
		}
		if next == nil || at.Before(nextAt) {
			next = sm
			nextAt = at
		}
	}
	if next != nil {
		cs.NextMeeting = fmt.Sprintf("%s %s", next.Date.Format(dateLayout), next.Time)
	}

	return cs
}

// MeetingsOnDate returns the union of documented and scheduled meetings
// falling on date, tagged by kind. Scheduled entries display a neutral
// sentiment; that value is for rendering only and is never persisted.
func MeetingsOnDate(client *crm.Client, meetings []*Meeting, scheduled []*ScheduledMeeting, date time.Time) []CalendarEntry {
	day := date.Format(dateLayout)

	var entries []CalendarEntry
	for _, m := range meetings {
		if m.Date.Format(dateLayout) != day {
			continue
		}
		e := CalendarEntry{
			Kind:       KindDocumented,
			ClientID:   client.ID,
			ClientName: client.Name,
			Date:       m.Date,
		}
		if m.Summary != nil {
			e.Summary = *m.Summary
		}
		if m.Sentiment != nil {
			e.Sentiment = *m.Sentiment
		}
		entries = append(entries, e)
	}
	for _, sm := range scheduled {
		if sm.Date.Format(dateLayout) != day {
			continue
		}
		entries = append(entries, CalendarEntry{
			Kind:       KindScheduled,
			ClientID:   client.ID,
			ClientName: client.Name,
			Date:       sm.Date,
			Time:       sm.Time,
			Sentiment:  SentimentNeutral,
		})
	}
	return entries
}

// scheduledInstant combines a scheduled meeting's date and "HH:MM" time into
// a single instant in the date's location.
func scheduledInstant(sm *ScheduledMeeting) (time.Time, error) {
	t, err := time.Parse("15:04", sm.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing scheduled time %q: %w", sm.Time, err)
	}
	d := sm.Date
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, d.Location()), nil
}
