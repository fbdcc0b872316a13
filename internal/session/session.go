// Package session holds the per-ambulance orchestration core: one Session
// per logged-in unit fuses live location, vitals, symptoms and classifier
// output into a ranked hospital list, and turns operator actions into
// dispatch requests. All state is session-scoped; nothing is shared between
// ambulances.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	vitalsdomain "github.com/resqlink/resqlink/internal/domain/vitals"
	"github.com/resqlink/resqlink/internal/platform/classifier"
	"github.com/resqlink/resqlink/internal/platform/matching"
	"github.com/resqlink/resqlink/internal/platform/positions"
)

// Classifier, Matcher and Geocoder are the external-service surfaces a
// session calls. They match the platform clients and are interfaces so tests
// can control response timing.
type Classifier interface {
	Predict(ctx context.Context, symptoms []string, vitals classifier.Vitals) (*classifier.Result, error)
}

type Matcher interface {
	Match(ctx context.Context, condition string, lat, lng float64) ([]matching.Candidate, error)
}

type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

// AmbulanceWriter mirrors session position and status into persistence.
type AmbulanceWriter interface {
	RecordPosition(ctx context.Context, id string, lat, lng float64, address *string) error
}

// VitalsWriter mirrors each vitals snapshot into the append-only history.
type VitalsWriter interface {
	Append(ctx context.Context, rec *vitalsdomain.Record) error
}

// Deps bundles everything a session needs from the outside world. Positions
// may be nil when no live feed is configured (override mode still works).
type Deps struct {
	Classifier Classifier
	Matcher    Matcher
	Geocoder   Geocoder
	Positions  positions.Source
	Ambulances AmbulanceWriter
	Vitals     VitalsWriter
	Logger     zerolog.Logger

	// Location before any fix or override.
	DefaultLat float64
	DefaultLng float64
}

// Prediction is the classifier result the session currently displays.
// The ID is bound into a dispatch request at send time so the hospital sees
// the prediction that was current then, even if it changes afterwards.
type Prediction struct {
	ID string `json:"id"`
	classifier.Result
}

// VitalsSnapshot is one immutable entry in the session's vitals history.
// id doubles as the idempotency key for the persistence mirror.
type VitalsSnapshot struct {
	classifier.Vitals
	TakenAt time.Time `json:"taken_at"`

	id uuid.UUID
}

const (
	ModeLive     = "live"
	ModeOverride = "override"
)

// Session is the reactive context for one ambulance. A single mutex guards
// all fields; every external call runs in a goroutine that re-acquires the
// lock on completion and re-checks its staleness guard before touching state.
type Session struct {
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger

	AmbulanceID string
	PatientID   string

	mu       sync.Mutex
	symptoms []string
	vitals   []VitalsSnapshot

	prediction *Prediction
	generation uint64 // latest issued classifier call

	hospitals []matching.Candidate

	mode        string
	epoch       uint64 // bumped on every mode switch; stale callbacks bail
	lat, lng    float64
	address     string
	watchCancel context.CancelFunc

	subs   map[int]chan struct{}
	nextID int
}

func New(deps Deps, ambulanceID, patientID string) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		deps:        deps,
		ctx:         ctx,
		cancel:      cancel,
		log:         deps.Logger.With().Str("ambulance_id", ambulanceID).Logger(),
		AmbulanceID: ambulanceID,
		PatientID:   patientID,
		mode:        ModeOverride,
		lat:         deps.DefaultLat,
		lng:         deps.DefaultLng,
		subs:        map[int]chan struct{}{},
	}
	// Rank immediately with the fallback condition at the default location,
	// so the candidate list is populated before any input event.
	s.mu.Lock()
	s.rankLocked()
	s.mu.Unlock()

	if deps.Positions != nil {
		s.StartLive()
	}
	return s
}

// Snapshot is the full observable state, returned by value.
type Snapshot struct {
	AmbulanceID string               `json:"ambulance_id"`
	PatientID   string               `json:"patient_id"`
	Symptoms    []string             `json:"symptoms"`
	Vitals      []VitalsSnapshot     `json:"vitals"`
	Prediction  *Prediction          `json:"prediction,omitempty"`
	Hospitals   []matching.Candidate `json:"hospitals"`
	Mode        string               `json:"mode"`
	Lat         float64              `json:"lat"`
	Lng         float64              `json:"lng"`
	Address     string               `json:"address"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		AmbulanceID: s.AmbulanceID,
		PatientID:   s.PatientID,
		Symptoms:    append([]string(nil), s.symptoms...),
		Vitals:      append([]VitalsSnapshot(nil), s.vitals...),
		Hospitals:   append([]matching.Candidate(nil), s.hospitals...),
		Mode:        s.mode,
		Lat:         s.lat,
		Lng:         s.lng,
		Address:     s.address,
	}
	if s.prediction != nil {
		p := *s.prediction
		snap.Prediction = &p
	}
	return snap
}

// Subscribe returns a channel that receives a signal after every visible
// state change, and an unsubscribe func. The channel is buffered and never
// blocks the session; coalesced signals are fine, the subscriber re-reads
// Snapshot either way.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// notifyLocked signals all subscribers. Callers hold s.mu.
func (s *Session) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// End cancels the session context. The position watch tears down and any
// in-flight classifier, matcher or geocode result arriving afterwards is
// dropped by its context check.
func (s *Session) End() {
	s.mu.Lock()
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	s.mu.Unlock()
	s.cancel()
}

// Done reports session teardown, for callers that hold late results.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }
