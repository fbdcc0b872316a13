package session

import "strings"

// normalizeSymptom trims and lowercases one token; empty after trimming
// means the token is ignored.
func normalizeSymptom(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// AddSymptom appends a symptom if not already present (order preserved) and
// re-evaluates the prediction.
func (s *Session) AddSymptom(raw string) {
	tok := normalizeSymptom(raw)
	if tok == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.symptoms {
		if existing == tok {
			return
		}
	}
	s.symptoms = append(s.symptoms, tok)
	s.evaluateLocked()
}

// RemoveSymptom deletes a symptom if present and re-evaluates.
func (s *Session) RemoveSymptom(raw string) {
	tok := normalizeSymptom(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.symptoms {
		if existing == tok {
			s.symptoms = append(s.symptoms[:i], s.symptoms[i+1:]...)
			s.evaluateLocked()
			return
		}
	}
}

// ReplaceSymptoms swaps the whole set, de-duplicating while preserving the
// given order, and re-evaluates.
func (s *Session) ReplaceSymptoms(raw []string) {
	var next []string
	seen := map[string]bool{}
	for _, r := range raw {
		tok := normalizeSymptom(r)
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		next = append(next, tok)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.symptoms = next
	s.evaluateLocked()
}

// Symptoms returns a copy of the current set.
func (s *Session) Symptoms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.symptoms...)
}
