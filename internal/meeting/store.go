package meeting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InsertMeetingInput holds the fields for a new documented meeting.
type InsertMeetingInput struct {
	ClientID  string
	Date      time.Time
	Notes     string
	Summary   *string
	Sentiment *string
}

// InsertScheduledInput holds the fields for a new scheduled meeting.
type InsertScheduledInput struct {
	ClientID string
	Date     time.Time
	Time     string
}

// Store provides database operations for meetings and scheduled meetings.
// Ownership checks happen one level up, in the workflow service; a store
// caller is trusted to have resolved the client already.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new meeting store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// InsertMeeting persists a documented meeting and returns the stored record.
func (s *Store) InsertMeeting(ctx context.Context, in InsertMeetingInput) (*Meeting, error) {
	m := &Meeting{}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO meetings (id, client_id, date, notes, summary, sentiment)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, client_id, date, notes, summary, sentiment, created_at`,
		uuid.New().String(), in.ClientID, in.Date, in.Notes, in.Summary, in.Sentiment,
	).Scan(&m.ID, &m.ClientID, &m.Date, &m.Notes, &m.Summary, &m.Sentiment, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting meeting: %w", err)
	}
	return m, nil
}

// ListMeetings returns a client's documented meetings ordered by date DESC,
// most recently created first among equal dates.
func (s *Store) ListMeetings(ctx context.Context, clientID string) ([]*Meeting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, client_id, date, notes, summary, sentiment, created_at
		 FROM meetings WHERE client_id = $1
		 ORDER BY date DESC, created_at DESC`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*Meeting
	for rows.Next() {
		m := &Meeting{}
		if err := rows.Scan(&m.ID, &m.ClientID, &m.Date, &m.Notes, &m.Summary, &m.Sentiment, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning meeting row: %w", err)
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// InsertScheduled persists a scheduled meeting and returns the stored record.
func (s *Store) InsertScheduled(ctx context.Context, in InsertScheduledInput) (*ScheduledMeeting, error) {
	sm := &ScheduledMeeting{}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO scheduled_meetings (id, client_id, date, time)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, client_id, date, time, created_at`,
		uuid.New().String(), in.ClientID, in.Date, in.Time,
	).Scan(&sm.ID, &sm.ClientID, &sm.Date, &sm.Time, &sm.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting scheduled meeting: %w", err)
	}
	return sm, nil
}

// ListScheduled returns a client's scheduled meetings ordered by date then
// time ascending.
func (s *Store) ListScheduled(ctx context.Context, clientID string) ([]*ScheduledMeeting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, client_id, date, time, created_at
		 FROM scheduled_meetings WHERE client_id = $1
		 ORDER BY date, time`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing scheduled meetings: %w", err)
	}
	defer rows.Close()

	var scheduled []*ScheduledMeeting
	for rows.Next() {
		sm := &ScheduledMeeting{}
		if err := rows.Scan(&sm.ID, &sm.ClientID, &sm.Date, &sm.Time, &sm.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning scheduled meeting row: %w", err)
		}
		scheduled = append(scheduled, sm)
	}
	return scheduled, rows.Err()
}

// CountForClient reports how many documented and scheduled meetings remain
// for a client. The client row itself need not exist: after a cascade delete
// both counts are zero.
func (s *Store) CountForClient(ctx context.Context, clientID string) (meetings, scheduled int, err error) {
	err = s.pool.QueryRow(ctx,
		`SELECT
		   (SELECT count(*) FROM meetings WHERE client_id = $1),
		   (SELECT count(*) FROM scheduled_meetings WHERE client_id = $1)`,
		clientID,
	).Scan(&meetings, &scheduled)
	if err != nil {
		return 0, 0, fmt.Errorf("counting meetings for client: %w", err)
	}
	return meetings, scheduled, nil
}
