package session

import (
	"context"
	"fmt"

	"github.com/resqlink/resqlink/internal/platform/geocode"
)

// StartLive switches the tracker to the live position feed. The previous
// watch (if any) is cancelled; fixes carry the new epoch so anything still
// in flight from before the switch is discarded.
func (s *Session) StartLive() error {
	if s.deps.Positions == nil {
		return fmt.Errorf("no position source configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	epoch := s.epoch
	s.mode = ModeLive
	if s.watchCancel != nil {
		s.watchCancel()
	}
	watchCtx, cancel := context.WithCancel(s.ctx)
	s.watchCancel = cancel
	s.notifyLocked()

	go s.watch(watchCtx, epoch)
	return nil
}

func (s *Session) watch(ctx context.Context, epoch uint64) {
	fixes, err := s.deps.Positions.Watch(ctx, s.AmbulanceID)
	if err != nil {
		s.log.Warn().Err(err).Msg("position watch failed to start")
		return
	}
	for fix := range fixes {
		s.mu.Lock()
		if epoch != s.epoch {
			s.mu.Unlock()
			return
		}
		s.lat, s.lng = fix.Lat, fix.Lng
		s.notifyLocked()
		s.rankLocked()
		s.mu.Unlock()

		go s.resolveAddress(epoch, fix.Lat, fix.Lng)
	}
}

// SetOverride leaves the live feed and pins the location to the supplied
// coordinates. The location update is synchronous; geocoding and the
// persistence mirror stay asynchronous.
func (s *Session) SetOverride(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range", lng)
	}

	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.mode = ModeOverride
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	s.lat, s.lng = lat, lng
	s.notifyLocked()
	s.rankLocked()
	s.mu.Unlock()

	go s.resolveAddress(epoch, lat, lng)
	return nil
}

// resolveAddress reverse-geocodes a position and mirrors the ambulance row,
// both best-effort. A result from a stale epoch is dropped; a geocode
// failure keeps the previous address, or the fallback when there is none.
func (s *Session) resolveAddress(epoch uint64, lat, lng float64) {
	addr, err := s.deps.Geocoder.Reverse(s.ctx, lat, lng)
	if s.ctx.Err() != nil {
		return
	}

	var addrPtr *string
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return
	}
	if err != nil {
		if s.address == "" {
			s.address = geocode.FallbackAddress
		}
	} else {
		s.address = addr
		addrPtr = &addr
	}
	s.notifyLocked()
	s.mu.Unlock()

	if err := s.deps.Ambulances.RecordPosition(s.ctx, s.AmbulanceID, lat, lng, addrPtr); err != nil && s.ctx.Err() == nil {
		s.log.Warn().Err(err).Msg("ambulance position mirror failed")
	}
}

// Location returns the current coordinates, mode and resolved address.
func (s *Session) Location() (lat, lng float64, mode, address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lat, s.lng, s.mode, s.address
}
