package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// memRepo mirrors the database constraints: unique idempotency key, at most
// one pending request per (patient, hospital), resolve only from pending.
type memRepo struct {
	byID  map[uuid.UUID]*Request
	byKey map[uuid.UUID]*Request
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[uuid.UUID]*Request{}, byKey: map[uuid.UUID]*Request{}}
}

func (m *memRepo) Insert(ctx context.Context, req *Request) error {
	if _, ok := m.byKey[req.IdempotencyKey]; ok {
		return nil
	}
	for _, r := range m.byID {
		if r.PatientID == req.PatientID && r.HospitalID == req.HospitalID && r.Status == StatusPending {
			return ErrDuplicateRequest
		}
	}
	cp := *req
	m.byID[cp.ID] = &cp
	m.byKey[cp.IdempotencyKey] = &cp
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*Request, error) {
	r, ok := m.byKey[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) MarkResolved(ctx context.Context, id uuid.UUID, status string) (*Request, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.Status != StatusPending {
		return nil, ErrAlreadyResolved
	}
	now := time.Now().UTC()
	r.Status = status
	r.ResolvedAt = &now
	cp := *r
	return &cp, nil
}

func (m *memRepo) ListByHospital(ctx context.Context, hospitalID, status string, limit, offset int) ([]*Request, int, error) {
	var out []*Request
	for _, r := range m.byID {
		if r.HospitalID == hospitalID && (status == "" || r.Status == status) {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) ListByAmbulance(ctx context.Context, ambulanceID string, limit, offset int) ([]*Request, int, error) {
	var out []*Request
	for _, r := range m.byID {
		if r.AmbulanceID == ambulanceID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

type fakeDirectory map[string]bool

func (f fakeDirectory) Exists(ctx context.Context, id string) (bool, error) {
	return f[id], nil
}

func newTestService() (*Service, *memRepo) {
	repo := newMemRepo()
	svc := NewService(repo,
		fakeDirectory{"A1": true},
		fakeDirectory{"P1": true, "P2": true})
	return svc, repo
}

func send(t *testing.T, svc *Service, hospital, patient string, key uuid.UUID) *Request {
	t.Helper()
	req, err := svc.Send(context.Background(), SendCommand{
		AmbulanceID: "A1", HospitalID: hospital, PatientID: patient,
		PredictionID: "pred-1", Key: key,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	return req
}

func TestSendCreatesPendingRequest(t *testing.T) {
	svc, _ := newTestService()
	req := send(t, svc, "H1", "P1", uuid.New())

	if req.Status != StatusPending {
		t.Errorf("status = %q, want %q", req.Status, StatusPending)
	}
	if req.PredictionID != "pred-1" {
		t.Errorf("prediction_id = %q, want pred-1", req.PredictionID)
	}
	if req.ResolvedAt != nil {
		t.Error("new request must not carry resolved_at")
	}
}

func TestSendIsIdempotentPerKey(t *testing.T) {
	svc, repo := newTestService()
	key := uuid.New()

	first := send(t, svc, "H1", "P1", key)
	second := send(t, svc, "H1", "P1", key)

	if first.ID != second.ID {
		t.Errorf("retry created a new request: %s vs %s", first.ID, second.ID)
	}
	if len(repo.byID) != 1 {
		t.Errorf("rows = %d, want 1", len(repo.byID))
	}
}

func TestSendRejectsSecondPendingToSameHospital(t *testing.T) {
	svc, _ := newTestService()
	send(t, svc, "H1", "P1", uuid.New())

	_, err := svc.Send(context.Background(), SendCommand{
		AmbulanceID: "A1", HospitalID: "H1", PatientID: "P1", Key: uuid.New(),
	})
	if err != ErrDuplicateRequest {
		t.Fatalf("err = %v, want ErrDuplicateRequest", err)
	}

	// Same patient to a different hospital is fine.
	send(t, svc, "H2", "P1", uuid.New())
	// Different patient to the same hospital is fine.
	send(t, svc, "H1", "P2", uuid.New())
}

func TestSendAllowedAgainAfterDecline(t *testing.T) {
	svc, _ := newTestService()
	req := send(t, svc, "H1", "P1", uuid.New())

	if _, err := svc.Resolve(context.Background(), req.ID, StatusDeclined); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	retry := send(t, svc, "H1", "P1", uuid.New())
	if retry.ID == req.ID {
		t.Error("expected a fresh request after decline")
	}
}

func TestSendValidatesDirectories(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Send(ctx, SendCommand{AmbulanceID: "A9", HospitalID: "H1", PatientID: "P1", Key: uuid.New()})
	if err != ErrUnknownAmbulance {
		t.Errorf("err = %v, want ErrUnknownAmbulance", err)
	}
	_, err = svc.Send(ctx, SendCommand{AmbulanceID: "A1", HospitalID: "H1", PatientID: "P9", Key: uuid.New()})
	if err != ErrUnknownPatient {
		t.Errorf("err = %v, want ErrUnknownPatient", err)
	}
}

func TestResolveFirstWriterWins(t *testing.T) {
	svc, _ := newTestService()
	req := send(t, svc, "H1", "P1", uuid.New())
	ctx := context.Background()

	resolved, err := svc.Resolve(ctx, req.ID, StatusAccepted)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Status != StatusAccepted || resolved.ResolvedAt == nil {
		t.Errorf("got status %q resolved_at %v", resolved.Status, resolved.ResolvedAt)
	}

	if _, err := svc.Resolve(ctx, req.ID, StatusDeclined); err != ErrAlreadyResolved {
		t.Fatalf("second resolve err = %v, want ErrAlreadyResolved", err)
	}
	// The stored outcome is unchanged.
	got, err := svc.Get(ctx, req.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusAccepted {
		t.Errorf("status = %q, want %q", got.Status, StatusAccepted)
	}
}

func TestResolveUnknownRequest(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Resolve(context.Background(), uuid.New(), StatusAccepted); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolveRejectsInvalidStatus(t *testing.T) {
	svc, _ := newTestService()
	req := send(t, svc, "H1", "P1", uuid.New())
	if _, err := svc.Resolve(context.Background(), req.ID, "cancelled"); err == nil {
		t.Fatal("expected an error")
	}
}
