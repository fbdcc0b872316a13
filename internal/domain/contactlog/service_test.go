package contactlog

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type fakeRepo struct {
	entries []*Entry
}

func (f *fakeRepo) Append(ctx context.Context, e *Entry) error {
	cp := *e
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeRepo) ListByHospital(ctx context.Context, hospitalID string, limit, offset int) ([]*Entry, int, error) {
	var out []*Entry
	for _, e := range f.entries {
		if e.HospitalID == hospitalID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListByAmbulance(ctx context.Context, ambulanceID string, limit, offset int) ([]*Entry, int, error) {
	var out []*Entry
	for _, e := range f.entries {
		if e.AmbulanceID == ambulanceID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func TestRecordDefaultsStatusAndAssignsID(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	e := &Entry{HospitalID: "H1", AmbulanceID: "A1", Type: TypeCall}
	if err := svc.Record(context.Background(), e); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if e.Status != StatusPending {
		t.Errorf("status = %q, want %q", e.Status, StatusPending)
	}
	if e.ID == uuid.Nil {
		t.Error("expected a generated id")
	}
}

func TestRecordValidation(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	cases := []struct {
		name  string
		entry *Entry
	}{
		{"missing hospital", &Entry{AmbulanceID: "A1", Type: TypeCall}},
		{"missing ambulance", &Entry{HospitalID: "H1", Type: TypeCall}},
		{"bad type", &Entry{HospitalID: "H1", AmbulanceID: "A1", Type: "fax"}},
		{"bad status", &Entry{HospitalID: "H1", AmbulanceID: "A1", Type: TypeCall, Status: "maybe"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Record(ctx, tc.entry); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLogIsAppendOnly(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	first := &Entry{HospitalID: "H1", AmbulanceID: "A1", Type: TypeCall, Status: StatusDeclined}
	if err := svc.Record(ctx, first); err != nil {
		t.Fatalf("Record: %v", err)
	}

	// A later attempt to the same hospital produces a new entry and leaves
	// the earlier one untouched.
	second := &Entry{HospitalID: "H1", AmbulanceID: "A1", Type: TypeMessage}
	if err := svc.Record(ctx, second); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, total, err := svc.ListByHospital(ctx, "H1", 20, 0)
	if err != nil {
		t.Fatalf("ListByHospital: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if entries[0].Status != StatusDeclined {
		t.Errorf("first entry status = %q, want %q", entries[0].Status, StatusDeclined)
	}
	if entries[0].ID == entries[1].ID {
		t.Error("entries must have distinct ids")
	}
}
