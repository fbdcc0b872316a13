package session

import (
	"github.com/google/uuid"

	"github.com/resqlink/resqlink/internal/platform/classifier"
)

// evaluateLocked issues one classifier call for the current inputs. Callers
// hold s.mu. Each call bumps the generation; a response is published only if
// no newer call has been issued since, so out-of-order replies can never
// overwrite a fresher prediction. With no symptoms the prediction resolves
// to nil synchronously, without touching the network.
func (s *Session) evaluateLocked() {
	s.generation++
	gen := s.generation

	if len(s.symptoms) == 0 {
		s.publishLocked(nil)
		return
	}

	symptoms := append([]string(nil), s.symptoms...)
	var v classifier.Vitals
	if cur, ok := s.currentVitalsLocked(); ok {
		v = cur.Vitals
	}

	go func() {
		res, err := s.deps.Classifier.Predict(s.ctx, symptoms, v)
		if s.ctx.Err() != nil {
			return
		}
		if err != nil {
			// Degrade to no prediction; the next input change retries.
			s.log.Warn().Err(err).Msg("classifier call failed")
			res = nil
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.generation {
			return // a newer evaluation was issued; discard
		}
		s.publishLocked(res)
	}()
}

// publishLocked makes a classifier result (or nil) the visible prediction
// and re-ranks hospitals against it. Callers hold s.mu and must have
// verified their generation is still current.
func (s *Session) publishLocked(res *classifier.Result) {
	if res == nil {
		s.prediction = nil
	} else {
		s.prediction = &Prediction{ID: uuid.NewString(), Result: *res}
	}
	s.notifyLocked()
	s.rankLocked()
}

// CurrentPrediction returns the prediction on display, or nil.
func (s *Session) CurrentPrediction() *Prediction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prediction == nil {
		return nil
	}
	p := *s.prediction
	return &p
}
