package meeting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/clientbook/clientbook/internal/crm"
	"github.com/clientbook/clientbook/internal/summarize"
	"github.com/jackc/pgx/v5"
)

// timePattern is the accepted 24-hour meeting time. The leading zero is
// required: "9:00" is rejected, "09:00" is not.
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ClientDirectory resolves and creates clients on behalf of the workflow.
type ClientDirectory interface {
	GetForOwner(ctx context.Context, id, ownerID string) (*crm.Client, error)
	Create(ctx context.Context, ownerID string, in crm.CreateClientInput) (*crm.Client, error)
	List(ctx context.Context, ownerID string) ([]*crm.Client, error)
}

// Repository persists meetings and scheduled meetings.
type Repository interface {
	InsertMeeting(ctx context.Context, in InsertMeetingInput) (*Meeting, error)
	ListMeetings(ctx context.Context, clientID string) ([]*Meeting, error)
	InsertScheduled(ctx context.Context, in InsertScheduledInput) (*ScheduledMeeting, error)
	ListScheduled(ctx context.Context, clientID string) ([]*ScheduledMeeting, error)
}

// Summarizer produces a summary/sentiment pair from raw notes.
type Summarizer interface {
	Summarize(ctx context.Context, notes string) (*summarize.Result, error)
}

// Service orchestrates client validation, AI summarization, and persistence
// for the meeting workflows.
type Service struct {
	clients    ClientDirectory
	repo       Repository
	summarizer Summarizer
	now        func() time.Time // injectable clock for testing
}

// NewService creates a workflow service.
func NewService(clients ClientDirectory, repo Repository, summarizer Summarizer) *Service {
	return &Service{
		clients:    clients,
		repo:       repo,
		summarizer: summarizer,
		now:        time.Now,
	}
}

// resolveClient maps a failed owner-scoped lookup to ErrNotFound so missing
// and foreign clients are indistinguishable to the caller.
func (s *Service) resolveClient(ctx context.Context, clientID, ownerID string) (*crm.Client, error) {
	c, err := s.clients.GetForOwner(ctx, clientID, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolving client: %w", err)
	}
	return c, nil
}

// DocumentMeeting records a past meeting for an owned client. The notes are
// summarized synchronously before anything is persisted; a summarization
// failure aborts the whole operation and nothing is saved.
func (s *Service) DocumentMeeting(ctx context.Context, ownerID, clientID string, date time.Time, notes string) (*Meeting, error) {
	if _, err := s.resolveClient(ctx, clientID, ownerID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(notes) == "" {
		return nil, ErrNotesRequired
	}
	if date.IsZero() {
		return nil, ErrDateRequired
	}

	res, err := s.summarizer.Summarize(ctx, notes)
	if err != nil {
		slog.Warn("summarization failed, meeting not saved", "client_id", clientID, "error", err)
		return nil, err
	}

	m, err := s.repo.InsertMeeting(ctx, InsertMeetingInput{
		ClientID:  clientID,
		Date:      date,
		Notes:     notes,
		Summary:   &res.Summary,
		Sentiment: &res.Sentiment,
	})
	if err != nil {
		return nil, fmt.Errorf("persisting meeting: %w", err)
	}
	return m, nil
}

// DocumentMeetingForNewClient creates a client and then documents a meeting
// against it. When summarization fails after the client was created, the
// client stays created and only the meeting is absent; creation is not
// rolled back.
func (s *Service) DocumentMeetingForNewClient(ctx context.Context, ownerID, name, phone string, date time.Time, notes string) (*crm.Client, *Meeting, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil, ErrNameRequired
	}

	in := crm.CreateClientInput{Name: strings.TrimSpace(name)}
	if p := strings.TrimSpace(phone); p != "" {
		in.Phone = &p
	}

	c, err := s.clients.Create(ctx, ownerID, in)
	if err != nil {
		return nil, nil, fmt.Errorf("creating client: %w", err)
	}

	m, err := s.DocumentMeeting(ctx, ownerID, c.ID, date, notes)
	if err != nil {
		return c, nil, err
	}
	return c, m, nil
}

// ScheduleMeeting records a future meeting slot for an owned client. No
// conflict detection is performed; double-booking is allowed.
func (s *Service) ScheduleMeeting(ctx context.Context, ownerID, clientID string, date time.Time, hhmm string) (*ScheduledMeeting, error) {
	if _, err := s.resolveClient(ctx, clientID, ownerID); err != nil {
		return nil, err
	}

	if date.IsZero() {
		return nil, ErrDateRequired
	}
	if !timePattern.MatchString(hhmm) {
		return nil, ErrBadTimeFormat
	}

	sm, err := s.repo.InsertScheduled(ctx, InsertScheduledInput{
		ClientID: clientID,
		Date:     date,
		Time:     hhmm,
	})
	if err != nil {
		return nil, fmt.Errorf("persisting scheduled meeting: %w", err)
	}
	return sm, nil
}

// ListMeetings returns an owned client's documented meetings, date DESC.
func (s *Service) ListMeetings(ctx context.Context, ownerID, clientID string) ([]*Meeting, error) {
	if _, err := s.resolveClient(ctx, clientID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListMeetings(ctx, clientID)
}

// ListScheduled returns an owned client's scheduled meetings, date/time ASC.
func (s *Service) ListScheduled(ctx context.Context, ownerID, clientID string) ([]*ScheduledMeeting, error) {
	if _, err := s.resolveClient(ctx, clientID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListScheduled(ctx, clientID)
}

// ClientSummary assembles the derived dashboard view for one owned client.
// It is recomputed from the two source lists on every call; nothing derived
// is stored.
func (s *Service) ClientSummary(ctx context.Context, ownerID, clientID string) (*ClientSummary, error) {
	c, err := s.resolveClient(ctx, clientID, ownerID)
	if err != nil {
		return nil, err
	}

	meetings, err := s.repo.ListMeetings(ctx, clientID)
	if err != nil {
		return nil, err
	}
	scheduled, err := s.repo.ListScheduled(ctx, clientID)
	if err != nil {
		return nil, err
	}

	summary := Aggregate(c, meetings, scheduled, s.now())
	return &summary, nil
}

// CalendarDay collects every documented and scheduled meeting across the
// owner's clients that falls on the given date.
func (s *Service) CalendarDay(ctx context.Context, ownerID string, date time.Time) ([]CalendarEntry, error) {
	clients, err := s.clients.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	entries := []CalendarEntry{}
	for _, c := range clients {
		meetings, err := s.repo.ListMeetings(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		scheduled, err := s.repo.ListScheduled(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, MeetingsOnDate(c, meetings, scheduled, date)...)
	}
	return entries, nil
}
