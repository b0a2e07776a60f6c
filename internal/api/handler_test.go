package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/clientbook/clientbook/internal/auth"
	"github.com/clientbook/clientbook/internal/crm"
	"github.com/clientbook/clientbook/internal/meeting"
	"github.com/clientbook/clientbook/internal/metrics"
	"github.com/clientbook/clientbook/internal/ratelimit"
	"github.com/clientbook/clientbook/internal/stocks"
	"github.com/clientbook/clientbook/internal/summarize"
	"github.com/clientbook/clientbook/internal/user"
)

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[string]*user.User
	byEmail map[string]*user.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:    make(map[string]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

func (f *fakeUsers) Create(_ context.Context, in user.CreateUserInput) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[in.Email]; ok {
		return nil, user.ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	u := &user.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		CreatedAt:    time.Now(),
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("getting user by email: %w", pgx.ErrNoRows)
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("getting user by id: %w", pgx.ErrNoRows)
	}
	return u, nil
}

// fakeClientStore backs both the HTTP handlers and the meeting workflow.
type fakeClientStore struct {
	mu      sync.Mutex
	clients map[string]*crm.Client
}

func newFakeClientStore() *fakeClientStore {
	return &fakeClientStore{clients: make(map[string]*crm.Client)}
}

func (f *fakeClientStore) Create(_ context.Context, ownerID string, in crm.CreateClientInput) (*crm.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &crm.Client{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		Name:      in.Name,
		Phone:     in.Phone,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.clients[c.ID] = c
	return c, nil
}

func (f *fakeClientStore) GetForOwner(_ context.Context, id, ownerID string) (*crm.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok || c.UserID != ownerID {
		return nil, fmt.Errorf("getting client: %w", pgx.ErrNoRows)
	}
	return c, nil
}

func (f *fakeClientStore) List(_ context.Context, ownerID string) ([]*crm.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*crm.Client
	for _, c := range f.clients {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClientStore) Update(_ context.Context, id, ownerID string, in crm.UpdateClientInput) (*crm.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok || c.UserID != ownerID {
		return nil, fmt.Errorf("updating client: %w", pgx.ErrNoRows)
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Phone != nil {
		c.Phone = in.Phone
	}
	c.UpdatedAt = time.Now()
	return c, nil
}

func (f *fakeClientStore) Delete(_ context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok || c.UserID != ownerID {
		return fmt.Errorf("getting client: %w", pgx.ErrNoRows)
	}
	delete(f.clients, c.ID)
	return nil
}

type fakeMeetingRepo struct {
	mu        sync.Mutex
	meetings  []*meeting.Meeting
	scheduled []*meeting.ScheduledMeeting
}

func (f *fakeMeetingRepo) InsertMeeting(_ context.Context, in meeting.InsertMeetingInput) (*meeting.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := &meeting.Meeting{
		ID:        uuid.New().String(),
		ClientID:  in.ClientID,
		Date:      in.Date,
		Notes:     in.Notes,
		Summary:   in.Summary,
		Sentiment: in.Sentiment,
		CreatedAt: time.Now(),
	}
	f.meetings = append(f.meetings, m)
	return m, nil
}

func (f *fakeMeetingRepo) ListMeetings(_ context.Context, clientID string) ([]*meeting.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*meeting.Meeting
	for _, m := range f.meetings {
		if m.ClientID == clientID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) InsertScheduled(_ context.Context, in meeting.InsertScheduledInput) (*meeting.ScheduledMeeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sm := &meeting.ScheduledMeeting{
		ID:        uuid.New().String(),
		ClientID:  in.ClientID,
		Date:      in.Date,
		Time:      in.Time,
		CreatedAt: time.Now(),
	}
	f.scheduled = append(f.scheduled, sm)
	return sm, nil
}

func (f *fakeMeetingRepo) ListScheduled(_ context.Context, clientID string) ([]*meeting.ScheduledMeeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*meeting.ScheduledMeeting
	for _, sm := range f.scheduled {
		if sm.ClientID == clientID {
			out = append(out, sm)
		}
	}
	return out, nil
}

type fakeSummarizer struct {
	mu     sync.Mutex
	result *summarize.Result
	err    error
	calls  int
}

func (f *fakeSummarizer) Summarize(_ context.Context, _ string) (*summarize.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeSummarizer) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type testEnv struct {
	users      *fakeUsers
	clients    *fakeClientStore
	repo       *fakeMeetingRepo
	summarizer *fakeSummarizer
	router     http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:   newFakeUsers(),
		clients: newFakeClientStore(),
		repo:    &fakeMeetingRepo{},
		summarizer: &fakeSummarizer{result: &summarize.Result{
			Summary:   "Discussed retirement portfolio rebalancing.",
			Sentiment: meeting.SentimentPositive,
		}},
	}
	env.router = NewRouter(Deps{
		Users:    env.users,
		Auth:     auth.NewService("test-secret", time.Hour),
		Clients:  env.clients,
		Meetings: meeting.NewService(env.clients, env.repo, env.summarizer),
		Quotes:   stocks.NewClient("", "", 1),
		Metrics:  metrics.New(),
		Limiter:  ratelimit.New(1000, time.Minute),
	})
	return env
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func (env *testEnv) signup(t *testing.T, email string) string {
	t.Helper()
	rr := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    email,
		"password": "correct-horse",
		"fullName": "Test Advisor",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp authResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding signup response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("signup returned empty token")
	}
	return resp.Token
}

func (env *testEnv) createClient(t *testing.T, token, name string) string {
	t.Helper()
	rr := env.do(t, http.MethodPost, "/api/v1/clients", token, map[string]string{"name": name})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create client status = %d, body %s", rr.Code, rr.Body.String())
	}
	var c crm.Client
	if err := json.Unmarshal(rr.Body.Bytes(), &c); err != nil {
		t.Fatalf("decoding client: %v", err)
	}
	return c.ID
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding error envelope: %v (body %s)", err, rr.Body.String())
	}
	return env.Error.Code
}

func TestSignupLoginMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "advisor@example.com")

	rr := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "advisor@example.com", "password": "correct-horse", "fullName": "Dup",
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want 409", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "advisor@example.com", "password": "wrong",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("bad password login status = %d, want 401", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "whatever",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("unknown email login status = %d, want 401", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "Advisor@Example.com", "password": "correct-horse",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("me status = %d", rr.Code)
	}
	var u user.User
	if err := json.Unmarshal(rr.Body.Bytes(), &u); err != nil {
		t.Fatalf("decoding me response: %v", err)
	}
	if u.Email != "advisor@example.com" {
		t.Errorf("me email = %q", u.Email)
	}

	rr = env.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("me without token status = %d, want 401", rr.Code)
	}
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"email": "not-an-email", "password": "correct-horse"}},
		{"empty email", map[string]string{"email": "", "password": "correct-horse"}},
		{"short password", map[string]string{"email": "a@b.com", "password": "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", tt.body)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", rr.Code)
			}
		})
	}
}

func TestClientCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "crud@example.com")

	id := env.createClient(t, token, "Jane Doe")

	rr := env.do(t, http.MethodGet, "/api/v1/clients", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var clients []crm.Client
	if err := json.Unmarshal(rr.Body.Bytes(), &clients); err != nil {
		t.Fatalf("decoding clients: %v", err)
	}
	if len(clients) != 1 {
		t.Fatalf("got %d clients, want 1", len(clients))
	}

	rr = env.do(t, http.MethodPut, "/api/v1/clients/"+id, token, map[string]string{"name": "Jane Smith"})
	if rr.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rr.Code, rr.Body.String())
	}
	var updated crm.Client
	if err := json.Unmarshal(rr.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decoding updated client: %v", err)
	}
	if updated.Name != "Jane Smith" {
		t.Errorf("updated name = %q", updated.Name)
	}

	rr = env.do(t, http.MethodDelete, "/api/v1/clients/"+id, token, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/api/v1/clients/"+id, token, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rr.Code)
	}
}

func TestClientValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "validation@example.com")

	rr := env.do(t, http.MethodPost, "/api/v1/clients", token, map[string]string{"name": "   "})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("blank name status = %d, want 422", rr.Code)
	}
	if got := errorCode(t, rr); got != "validation_error" {
		t.Errorf("error code = %q", got)
	}
}

func TestClientOwnership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice@example.com")
	mallory := env.signup(t, "mallory@example.com")

	id := env.createClient(t, alice, "Jane Doe")

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/v1/clients/" + id, nil},
		{http.MethodPut, "/api/v1/clients/" + id, map[string]string{"name": "Hijacked"}},
		{http.MethodDelete, "/api/v1/clients/" + id, nil},
		{http.MethodGet, "/api/v1/clients/" + id + "/summary", nil},
		{http.MethodGet, "/api/v1/clients/" + id + "/meetings", nil},
		{http.MethodPost, "/api/v1/clients/" + id + "/meetings", map[string]string{"date": "2024-03-01", "notes": "spied"}},
	} {
		rr := env.do(t, tc.method, tc.path, mallory, tc.body)
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s %s as non-owner: status = %d, want 404", tc.method, tc.path, rr.Code)
		}
	}

	// The owner still sees the client untouched.
	rr := env.do(t, http.MethodGet, "/api/v1/clients/"+id, alice, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("owner get status = %d", rr.Code)
	}
	var c crm.Client
	if err := json.Unmarshal(rr.Body.Bytes(), &c); err != nil {
		t.Fatalf("decoding client: %v", err)
	}
	if c.Name != "Jane Doe" {
		t.Errorf("client name = %q after non-owner PUT", c.Name)
	}
}

func TestDocumentMeeting(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "doc@example.com")
	id := env.createClient(t, token, "Jane Doe")

	rr := env.do(t, http.MethodPost, "/api/v1/clients/"+id+"/meetings", token, map[string]string{
		"date":  "2024-03-01",
		"notes": "Reviewed Q1 performance. Client pleased with returns.",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var m meeting.Meeting
	if err := json.Unmarshal(rr.Body.Bytes(), &m); err != nil {
		t.Fatalf("decoding meeting: %v", err)
	}
	if m.Summary == nil || *m.Summary == "" {
		t.Error("meeting has no summary")
	}
	if m.Sentiment == nil || *m.Sentiment != meeting.SentimentPositive {
		t.Errorf("meeting sentiment = %v", m.Sentiment)
	}

	rr = env.do(t, http.MethodGet, "/api/v1/clients/"+id+"/meetings", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var meetings []meeting.Meeting
	if err := json.Unmarshal(rr.Body.Bytes(), &meetings); err != nil {
		t.Fatalf("decoding meetings: %v", err)
	}
	if len(meetings) != 1 {
		t.Errorf("got %d meetings, want 1", len(meetings))
	}
}

func TestDocumentMeetingValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "docval@example.com")
	id := env.createClient(t, token, "Jane Doe")

	tests := []struct {
		name string
		body map[string]string
	}{
		{"empty notes", map[string]string{"date": "2024-03-01", "notes": "  "}},
		{"missing date", map[string]string{"notes": "something happened"}},
		{"malformed date", map[string]string{"date": "03/01/2024", "notes": "something happened"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/v1/clients/"+id+"/meetings", token, tt.body)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422 (body %s)", rr.Code, rr.Body.String())
			}
		})
	}
	if len(env.repo.meetings) != 0 {
		t.Errorf("%d meetings persisted from invalid requests", len(env.repo.meetings))
	}
}

func TestDocumentMeetingSummarizationFailure(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "fail@example.com")
	id := env.createClient(t, token, "Jane Doe")

	env.summarizer.fail(summarize.NewError(errors.New("upstream returned status 500")))

	rr := env.do(t, http.MethodPost, "/api/v1/clients/"+id+"/meetings", token, map[string]string{
		"date":  "2024-03-01",
		"notes": "Long discussion about estate planning.",
	})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502 (body %s)", rr.Code, rr.Body.String())
	}
	if got := errorCode(t, rr); got != "summarization_failed" {
		t.Errorf("error code = %q", got)
	}
	if len(env.repo.meetings) != 0 {
		t.Errorf("%d meetings persisted despite summarization failure", len(env.repo.meetings))
	}
}

func TestDocumentMeetingForNewClient(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "composite@example.com")

	rr := env.do(t, http.MethodPost, "/api/v1/meetings", token, map[string]string{
		"clientName":  "Jane Doe",
		"clientPhone": "555-1234",
		"date":        "2024-03-01",
		"notes":       "Introductory meeting, talked goals.",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Client  *crm.Client      `json:"client"`
		Meeting *meeting.Meeting `json:"meeting"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Client == nil || resp.Client.Name != "Jane Doe" {
		t.Errorf("client = %+v", resp.Client)
	}
	if resp.Meeting == nil || resp.Meeting.ClientID != resp.Client.ID {
		t.Errorf("meeting = %+v", resp.Meeting)
	}
}

func TestDocumentMeetingForNewClientPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "partial@example.com")

	env.summarizer.fail(summarize.NewError(errors.New("model reply contained no JSON object")))

	rr := env.do(t, http.MethodPost, "/api/v1/meetings", token, map[string]string{
		"clientName": "Jane Doe",
		"date":       "2024-03-01",
		"notes":      "Notes that will fail to summarize.",
	})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502 (body %s)", rr.Code, rr.Body.String())
	}

	// The client survives the failed summarization.
	var resp struct {
		Error  errorDetail `json:"error"`
		Client *crm.Client `json:"client"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error.Code != "summarization_failed" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
	if resp.Client == nil {
		t.Fatal("response has no created client")
	}

	rr = env.do(t, http.MethodGet, "/api/v1/clients", token, nil)
	var clients []crm.Client
	if err := json.Unmarshal(rr.Body.Bytes(), &clients); err != nil {
		t.Fatalf("decoding clients: %v", err)
	}
	if len(clients) != 1 {
		t.Errorf("got %d clients, want 1 kept after failure", len(clients))
	}
	if len(env.repo.meetings) != 0 {
		t.Errorf("%d meetings persisted despite failure", len(env.repo.meetings))
	}
}

func TestScheduleMeeting(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "sched@example.com")
	id := env.createClient(t, token, "Jane Doe")

	rr := env.do(t, http.MethodPost, "/api/v1/clients/"+id+"/scheduled-meetings", token, map[string]string{
		"date": "2025-05-20", "time": "09:00",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	for _, bad := range []string{"9:00", "25:00", "14:60", "1400", ""} {
		rr := env.do(t, http.MethodPost, "/api/v1/clients/"+id+"/scheduled-meetings", token, map[string]string{
			"date": "2025-05-20", "time": bad,
		})
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("time %q: status = %d, want 422", bad, rr.Code)
		}
	}

	rr = env.do(t, http.MethodGet, "/api/v1/clients/"+id+"/scheduled-meetings", token, nil)
	var scheduled []meeting.ScheduledMeeting
	if err := json.Unmarshal(rr.Body.Bytes(), &scheduled); err != nil {
		t.Fatalf("decoding scheduled meetings: %v", err)
	}
	if len(scheduled) != 1 {
		t.Errorf("got %d scheduled meetings, want 1", len(scheduled))
	}
}

func TestClientSummaryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "summary@example.com")
	id := env.createClient(t, token, "Jane Doe")

	rr := env.do(t, http.MethodGet, "/api/v1/clients/"+id+"/summary", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var s meeting.ClientSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &s); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if s.LastMeeting != "-" || s.NextMeeting != "-" {
		t.Errorf("expected sentinel dashes, got last=%q next=%q", s.LastMeeting, s.NextMeeting)
	}
	if s.ClientName != "Jane Doe" {
		t.Errorf("client name = %q", s.ClientName)
	}
}

func TestCalendarEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "calendar@example.com")
	id := env.createClient(t, token, "Jane Doe")

	rr := env.do(t, http.MethodPost, "/api/v1/clients/"+id+"/scheduled-meetings", token, map[string]string{
		"date": "2025-05-20", "time": "09:00",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("schedule status = %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/api/v1/calendar", token, nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing date status = %d, want 422", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/api/v1/calendar?date=2025-05-20", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var entries []meeting.CalendarEntry
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decoding entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Kind != meeting.KindScheduled || entries[0].Time != "09:00" {
		t.Errorf("entry = %+v", entries[0])
	}

	rr = env.do(t, http.MethodGet, "/api/v1/calendar?date=2025-05-21", token, nil)
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decoding entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries on empty day, want 0", len(entries))
	}
}

func TestStockQuoteEndpoint(t *testing.T) {
	env := newTestEnv(t)

	// The widget is readable without authentication, matching the dashboard.
	rr := env.do(t, http.MethodGet, "/api/v1/stocks/spy", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var q stocks.Quote
	if err := json.Unmarshal(rr.Body.Bytes(), &q); err != nil {
		t.Fatalf("decoding quote: %v", err)
	}
	if q.Symbol != "SPY" {
		t.Errorf("symbol = %q, want SPY", q.Symbol)
	}
	if q.Price == 0 {
		t.Error("price is zero")
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestUnauthenticatedRequests(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/v1/clients", "/api/v1/calendar?date=2025-05-20", "/api/v1/auth/me"} {
		rr := env.do(t, http.MethodGet, path, "", nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want 401", path, rr.Code)
		}
	}
}
