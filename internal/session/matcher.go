package session

import (
	"sort"
	"strings"

	"github.com/resqlink/resqlink/internal/platform/matching"
)

// fallbackCondition keeps the candidate list populated before the first
// prediction arrives.
const fallbackCondition = "sepsis"

// rankLocked issues one matching call for the current (condition, location)
// pair. Callers hold s.mu. No generation guard: whichever result arrives
// last replaces the displayed list. Failure yields an empty list, never an
// error. Teardown drops late results via the context check.
func (s *Session) rankLocked() {
	condition := fallbackCondition
	if s.prediction != nil && s.prediction.Condition != "" {
		condition = strings.ToLower(s.prediction.Condition)
	}
	lat, lng := s.lat, s.lng

	go func() {
		cands, err := s.deps.Matcher.Match(s.ctx, condition, lat, lng)
		if s.ctx.Err() != nil {
			return
		}
		if err != nil {
			s.log.Warn().Err(err).Str("condition", condition).Msg("hospital matching failed")
			cands = nil
		}
		// Stable: the service's order breaks distance ties.
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].Distance < cands[j].Distance
		})

		s.mu.Lock()
		defer s.mu.Unlock()
		s.hospitals = cands
		s.notifyLocked()
	}()
}

// Hospitals returns a copy of the current ranked candidate list.
func (s *Session) Hospitals() []matching.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]matching.Candidate(nil), s.hospitals...)
}
