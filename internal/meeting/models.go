package meeting

import "time"

// Sentiment values produced by the summarization client.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Meeting is a documented (past) client meeting. Summary and Sentiment are
// either both set or both absent: they are produced together by the
// summarization client or not at all. Meetings are immutable after creation
// and removed only via client cascade.
type Meeting struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes"`
	Summary   *string   `json:"summary,omitempty"`
	Sentiment *string   `json:"sentiment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScheduledMeeting is a future commitment with no notes yet. Time is a
// 24-hour "HH:MM" string.
type ScheduledMeeting struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Date      time.Time `json:"date"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntryKind tags calendar entries by origin.
type EntryKind string

const (
	KindDocumented EntryKind = "documented"
	KindScheduled  EntryKind = "scheduled"
)

// CalendarEntry is a display row for a single date, unifying documented and
// scheduled meetings.
type CalendarEntry struct {
	Kind       EntryKind `json:"kind"`
	ClientID   string    `json:"clientId"`
	ClientName string    `json:"clientName"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	Sentiment  string    `json:"sentiment"`
}

// ClientSummary is the derived dashboard view for one client. LastMeeting
// and NextMeeting carry the "-" sentinel when no qualifying meeting exists.
type ClientSummary struct {
	ClientID       string `json:"clientId"`
	ClientName     string `json:"clientName"`
	LastMeeting    string `json:"lastMeeting"`
	LastSentiment  string `json:"lastSentiment,omitempty"`
	NextMeeting    string `json:"nextMeeting"`
	MeetingCount   int    `json:"meetingCount"`
	ScheduledCount int    `json:"scheduledCount"`
}
