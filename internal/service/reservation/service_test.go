package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ignite/guest-marketing/internal/cloudbeds"
	"github.com/ignite/guest-marketing/internal/domain"
	"github.com/ignite/guest-marketing/internal/pkg/distlock"
)

// mockRepo is an in-memory repository for testing.
type mockRepo struct {
	mu      sync.RWMutex
	store   map[domain.ReservationKey]domain.Reservation
	saveErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[domain.ReservationKey]domain.Reservation)}
}

func (m *mockRepo) FindByKey(_ context.Context, key domain.ReservationKey) (*domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.store[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *mockRepo) Save(_ context.Context, r *domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.store[r.Key()] = *r
	return nil
}

func (m *mockRepo) All(_ context.Context) ([]domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Reservation, 0, len(m.store))
	for _, r := range m.store {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRepo) List(ctx context.Context, limit int) ([]domain.Reservation, error) {
	out, _ := m.All(ctx)
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type guest struct{ email, first, last string }

// mockContacts records RecordGuest calls.
type mockContacts struct {
	calls []guest
}

func (m *mockContacts) RecordGuest(_ context.Context, email, first, last string) error {
	m.calls = append(m.calls, guest{email, first, last})
	return nil
}

// fakeSource returns canned payloads.
type fakeSource struct {
	propertyID string
	payloads   []domain.Payload
	err        error
	calls      int
	started    chan struct{}
	block      chan struct{}
	start, end domain.Date
}

func (f *fakeSource) PropertyID() string { return f.propertyID }

func (f *fakeSource) GetReservations(_ context.Context, start, end domain.Date) ([]domain.Payload, error) {
	f.calls++
	f.start, f.end = start, end
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return f.payloads, f.err
}

var testNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newTestService(src Source, lock distlock.DistLock) (*Service, *mockRepo, *mockContacts) {
	repo := newMockRepo()
	contacts := &mockContacts{}
	svc := NewService(repo, contacts, src, lock)
	svc.now = func() time.Time { return testNow }
	return svc, repo, contacts
}

func mustPayload(t *testing.T, s string) domain.Payload {
	t.Helper()
	var p domain.Payload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		t.Fatalf("unmarshal %s: %v", s, err)
	}
	return p
}

func date(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestIngest_ScenarioR1(t *testing.T) {
	svc, repo, contacts := newTestService(nil, nil)
	p := mustPayload(t, `{"reservationID":"R1","status":"Confirmed","checkin":"2024-06-01","checkout":"2024-06-03","guest":{"email":"A@X.com"}}`)

	res, err := svc.Ingest(context.Background(), []domain.Payload{p}, "P1")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res != (Result{Pulled: 1, Upserted: 1, Skipped: 0}) {
		t.Errorf("unexpected result: %+v", res)
	}

	r, ok := repo.store[domain.ReservationKey{ReservationID: "R1", PropertyID: "P1"}]
	if !ok {
		t.Fatal("expected reservation R1/P1 to be stored")
	}
	if r.Status != "Confirmed" {
		t.Errorf("status = %q", r.Status)
	}
	if r.CheckIn == nil || r.CheckIn.String() != "2024-06-01" {
		t.Errorf("check_in = %v", r.CheckIn)
	}
	if r.CheckOut == nil || r.CheckOut.String() != "2024-06-03" {
		t.Errorf("check_out = %v", r.CheckOut)
	}
	if !r.UpdatedAt.Equal(testNow) {
		t.Errorf("updated_at = %v, want %v", r.UpdatedAt, testNow)
	}
	if r.ID == "" {
		t.Error("expected surrogate id")
	}

	if len(contacts.calls) != 1 || contacts.calls[0].email != "A@X.com" {
		t.Errorf("expected one contact for the guest, got %+v", contacts.calls)
	}
}

func TestIngest_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService(nil, nil)
	ctx := context.Background()

	first := mustPayload(t, `{"reservationID":"R1","status":"confirmed","guest":{"email":"a@x.com"}}`)
	second := mustPayload(t, `{"reservationID":"R1","status":"checked_in","source":"direct"}`)

	for i, p := range []domain.Payload{first, second} {
		res, err := svc.Ingest(ctx, []domain.Payload{p}, "P1")
		if err != nil {
			t.Fatalf("Ingest #%d: %v", i, err)
		}
		if res.Upserted != 1 {
			t.Errorf("Ingest #%d: upserted = %d, want 1", i, res.Upserted)
		}
	}

	if len(repo.store) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(repo.store))
	}
	r := repo.store[domain.ReservationKey{ReservationID: "R1", PropertyID: "P1"}]
	if r.Status != "checked_in" || r.Source != "direct" {
		t.Errorf("expected last-applied values, got status=%q source=%q", r.Status, r.Source)
	}
	if r.GuestEmail != "" {
		t.Errorf("expected guest email overwritten by last payload, got %q", r.GuestEmail)
	}
}

func TestIngest_KeepsSurrogateIDOnUpdate(t *testing.T) {
	svc, repo, _ := newTestService(nil, nil)
	ctx := context.Background()
	p := mustPayload(t, `{"reservationID":"R1"}`)

	_, _ = svc.Ingest(ctx, []domain.Payload{p}, "P1")
	id := repo.store[domain.ReservationKey{ReservationID: "R1", PropertyID: "P1"}].ID
	_, _ = svc.Ingest(ctx, []domain.Payload{p}, "P1")

	if got := repo.store[domain.ReservationKey{ReservationID: "R1", PropertyID: "P1"}].ID; got != id {
		t.Errorf("id changed on update: %q -> %q", id, got)
	}
}

func TestIngest_SkipsMissingKeys(t *testing.T) {
	svc, repo, contacts := newTestService(nil, nil)
	payloads := []domain.Payload{
		mustPayload(t, `{"status":"confirmed","guest":{"email":"nokey@x.com"}}`),
		mustPayload(t, `{"reservationId":"R2"}`),
		mustPayload(t, `{"reservationID":""}`),
	}

	res, err := svc.Ingest(context.Background(), payloads, "P1")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res != (Result{Pulled: 3, Upserted: 1, Skipped: 2}) {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(repo.store) != 1 {
		t.Errorf("expected only R2 stored, got %d rows", len(repo.store))
	}
	if len(contacts.calls) != 0 {
		t.Errorf("skipped payloads must not create contacts, got %+v", contacts.calls)
	}
}

func TestIngest_PropertyIDFromPayloadWhenNoneGiven(t *testing.T) {
	svc, repo, _ := newTestService(nil, nil)
	payloads := []domain.Payload{
		mustPayload(t, `{"reservationID":"R1","propertyID":"P9"}`),
		mustPayload(t, `{"reservationID":"R2"}`),
	}

	res, err := svc.Ingest(context.Background(), payloads, "")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Upserted != 1 || res.Skipped != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
	if _, ok := repo.store[domain.ReservationKey{ReservationID: "R1", PropertyID: "P9"}]; !ok {
		t.Error("expected R1 filed under the payload's property")
	}
}

func TestIngest_PayloadPropertyIDWins(t *testing.T) {
	svc, repo, _ := newTestService(nil, nil)
	payloads := []domain.Payload{
		mustPayload(t, `{"reservationID":"R1","propertyID":"P9"}`),
		mustPayload(t, `{"reservationID":"R2"}`),
	}

	if _, err := svc.Ingest(context.Background(), payloads, "P1"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if _, ok := repo.store[domain.ReservationKey{ReservationID: "R1", PropertyID: "P9"}]; !ok {
		t.Error("expected R1 filed under its own property P9")
	}
	if _, ok := repo.store[domain.ReservationKey{ReservationID: "R1", PropertyID: "P1"}]; ok {
		t.Error("R1 must not be filed under the fallback property")
	}
	if _, ok := repo.store[domain.ReservationKey{ReservationID: "R2", PropertyID: "P1"}]; !ok {
		t.Error("expected R2 filed under the fallback property P1")
	}
}

func TestIngestWebhook_PayloadPropertyOverridesConfigured(t *testing.T) {
	svc, repo, _ := newTestService(nil, nil)
	body := map[string]any{"reservationID": "R9", "propertyID": "P2"}

	res, err := svc.IngestWebhook(context.Background(), body, "P1")
	if err != nil {
		t.Fatalf("IngestWebhook: %v", err)
	}
	if res.Upserted != 1 {
		t.Fatalf("expected 1 upsert, got %+v", res)
	}
	if _, ok := repo.store[domain.ReservationKey{ReservationID: "R9", PropertyID: "P2"}]; !ok {
		t.Error("expected R9 filed under P2")
	}
	if len(repo.store) != 1 {
		t.Errorf("expected exactly one stored reservation, got %d", len(repo.store))
	}
}

func TestIngest_NoContactWithoutEmail(t *testing.T) {
	svc, _, contacts := newTestService(nil, nil)
	p := mustPayload(t, `{"reservationID":"R1","guest":{"firstName":"Ann"}}`)

	if _, err := svc.Ingest(context.Background(), []domain.Payload{p}, "P1"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(contacts.calls) != 0 {
		t.Errorf("expected no contact, got %+v", contacts.calls)
	}
}

func TestIngest_StorageFailureAborts(t *testing.T) {
	svc, repo, _ := newTestService(nil, nil)
	repo.saveErr = errors.New("disk full")
	payloads := []domain.Payload{
		mustPayload(t, `{"reservationID":"R1"}`),
		mustPayload(t, `{"reservationID":"R2"}`),
	}

	res, err := svc.Ingest(context.Background(), payloads, "P1")
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected storage error, got %v", err)
	}
	if res.Upserted != 0 {
		t.Errorf("expected nothing upserted, got %+v", res)
	}
}

func TestPull_IngestsUnderSourceProperty(t *testing.T) {
	src := &fakeSource{
		propertyID: "P1",
		payloads: []domain.Payload{
			mustPayload(t, `{"reservationID":"R1","propertyID":"OTHER"}`),
			mustPayload(t, `{"status":"confirmed"}`),
		},
	}
	svc, repo, _ := newTestService(src, distlock.NewLocalLock())

	res, err := svc.Pull(context.Background(), date("2024-06-01"), date("2024-06-30"))
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if res != (Result{Pulled: 2, Upserted: 1, Skipped: 1}) {
		t.Errorf("unexpected result: %+v", res)
	}
	if _, ok := repo.store[domain.ReservationKey{ReservationID: "R1", PropertyID: "P1"}]; !ok {
		t.Error("expected R1 filed under P1")
	}
	if _, ok := repo.store[domain.ReservationKey{ReservationID: "R1", PropertyID: "OTHER"}]; ok {
		t.Error("pulled R1 must not be filed under the payload's property")
	}
}

func TestPull_InvalidRange(t *testing.T) {
	src := &fakeSource{propertyID: "P1"}
	svc, _, _ := newTestService(src, nil)

	_, err := svc.Pull(context.Background(), date("2024-06-02"), date("2024-06-01"))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if src.calls != 0 {
		t.Error("expected no upstream call for an invalid range")
	}

	if _, err := svc.Pull(context.Background(), date("2024-06-01"), date("2024-06-01")); err != nil {
		t.Errorf("single-day range should be valid: %v", err)
	}
}

func TestPull_UpstreamFailureStoresNothing(t *testing.T) {
	src := &fakeSource{propertyID: "P1", err: cloudbeds.ErrUpstreamUnavailable}
	svc, repo, _ := newTestService(src, nil)

	_, err := svc.Pull(context.Background(), date("2024-06-01"), date("2024-06-02"))
	if !errors.Is(err, cloudbeds.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if len(repo.store) != 0 {
		t.Error("expected nothing stored")
	}
}

func TestPull_ConcurrentPullRejected(t *testing.T) {
	src := &fakeSource{propertyID: "P1", started: make(chan struct{}), block: make(chan struct{})}
	lock := distlock.NewLocalLock()
	svc, _, _ := newTestService(src, lock)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Pull(ctx, date("2024-06-01"), date("2024-06-02"))
		done <- err
	}()

	<-src.started

	if _, err := svc.Pull(ctx, date("2024-06-01"), date("2024-06-02")); !errors.Is(err, ErrSyncInProgress) {
		t.Errorf("expected ErrSyncInProgress, got %v", err)
	}

	close(src.block)
	if err := <-done; err != nil {
		t.Fatalf("first pull: %v", err)
	}

	ok, _ := lock.Acquire(ctx)
	if !ok {
		t.Error("expected lock to be released after pull")
	}
}

func TestPullDefault_Window(t *testing.T) {
	src := &fakeSource{propertyID: "P1"}
	svc, _, _ := newTestService(src, nil)

	if _, err := svc.PullDefault(context.Background()); err != nil {
		t.Fatalf("PullDefault: %v", err)
	}
	if src.start.String() != "2024-05-31" || src.end.String() != "2024-07-01" {
		t.Errorf("window = %s..%s, want 2024-05-31..2024-07-01", src.start, src.end)
	}
}

func TestIngestWebhook_Shapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantRes  Result
		wantErr  error
		wantRows int
	}{
		{"single object", `{"reservationID":"R1"}`, Result{Pulled: 1, Upserted: 1}, nil, 1},
		{"list", `[{"reservationID":"R1"},{"reservationID":"R2"}]`, Result{Pulled: 2, Upserted: 2}, nil, 2},
		{"list drops non-objects", `[{"reservationID":"R1"}, 5, "x", null]`, Result{Pulled: 1, Upserted: 1}, nil, 1},
		{"string", `"hello"`, Result{}, ErrMalformedBatch, 0},
		{"number", `42`, Result{}, ErrMalformedBatch, 0},
		{"null", `null`, Result{}, ErrMalformedBatch, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(nil, nil)
			var body any
			if err := json.Unmarshal([]byte(tt.body), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			res, err := svc.IngestWebhook(context.Background(), body, "P1")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if res != tt.wantRes {
				t.Errorf("result = %+v, want %+v", res, tt.wantRes)
			}
			if len(repo.store) != tt.wantRows {
				t.Errorf("rows = %d, want %d", len(repo.store), tt.wantRows)
			}
		})
	}
}

func TestList_ClampsLimit(t *testing.T) {
	svc, _, _ := newTestService(nil, nil)
	ctx := context.Background()
	_, _ = svc.Ingest(ctx, []domain.Payload{
		mustPayload(t, `{"reservationID":"R1"}`),
		mustPayload(t, `{"reservationID":"R2"}`),
	}, "P1")

	rows, err := svc.List(ctx, -5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(rows))
	}

	rows, _ = svc.List(ctx, 5000)
	if len(rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(rows))
	}
}

func TestGet_RequiresFullKey(t *testing.T) {
	svc, _, _ := newTestService(nil, nil)
	if _, err := svc.Get(context.Background(), domain.ReservationKey{ReservationID: "R1"}); !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey, got %v", err)
	}
}
