package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	vitalsdomain "github.com/resqlink/resqlink/internal/domain/vitals"
	"github.com/resqlink/resqlink/internal/platform/classifier"
)

// AppendVitals records a new snapshot. The in-session history is updated
// optimistically and the snapshot is mirrored to the persisted history in
// the background; if the write fails the snapshot is rolled back and the
// prediction re-evaluated against the restored state.
func (s *Session) AppendVitals(v classifier.Vitals) error {
	if v.GCS < 0 || v.GCS > 15 {
		return fmt.Errorf("gcs must be between 0 and 15")
	}
	if v.SpO2 < 0 || v.SpO2 > 100 {
		return fmt.Errorf("spo2 must be between 0 and 100")
	}

	snap := VitalsSnapshot{
		Vitals:  v,
		TakenAt: time.Now().UTC(),
		id:      uuid.New(),
	}

	s.mu.Lock()
	s.vitals = append(s.vitals, snap)
	s.notifyLocked()
	s.evaluateLocked()
	s.mu.Unlock()

	go s.mirrorVitals(snap)
	return nil
}

func (s *Session) mirrorVitals(snap VitalsSnapshot) {
	rec := &vitalsdomain.Record{
		ID:        snap.id,
		PatientID: s.PatientID,
		HR:        snap.HR,
		SpO2:      snap.SpO2,
		SBP:       snap.SBP,
		DBP:       snap.DBP,
		Temp:      snap.Temp,
		Glucose:   snap.Glucose,
		GCS:       snap.GCS,
		TakenAt:   snap.TakenAt,
	}
	err := s.deps.Vitals.Append(s.ctx, rec)
	if err == nil || s.ctx.Err() != nil {
		return
	}
	s.log.Warn().Err(err).Msg("vitals mirror failed, rolling back snapshot")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.vitals {
		if s.vitals[i].id == snap.id {
			s.vitals = append(s.vitals[:i], s.vitals[i+1:]...)
			s.notifyLocked()
			s.evaluateLocked()
			return
		}
	}
}

// CurrentVitals returns the most recent snapshot, or false when none exist.
func (s *Session) CurrentVitals() (VitalsSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentVitalsLocked()
}

func (s *Session) currentVitalsLocked() (VitalsSnapshot, bool) {
	if len(s.vitals) == 0 {
		return VitalsSnapshot{}, false
	}
	return s.vitals[len(s.vitals)-1], true
}
