package carousel

import (
	"errors"
	"log"

	"github.com/zoobzio/clockz"

	"headlesskit/internal/domain"
)

// StartAutoplay turns autoplay on. Starting while already playing is a
// no-op. With a zero interval the flag is set but no timer runs.
func (s *State) StartAutoplay() error {
	return s.setPlaying(true)
}

// StopAutoplay turns autoplay off and cancels any pending tick.
func (s *State) StopAutoplay() error {
	return s.setPlaying(false)
}

// ToggleAutoplay flips autoplay.
func (s *State) ToggleAutoplay() error {
	s.mu.Lock()
	playing := s.playing
	s.mu.Unlock()
	return s.setPlaying(!playing)
}

// Playing reports whether autoplay is on.
func (s *State) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *State) setPlaying(on bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}
	ch := s.setPlayingLocked(on)
	s.mu.Unlock()

	s.publish(ch)
	return nil
}

func (s *State) setPlayingLocked(on bool) change {
	if on == s.playing {
		return change{}
	}
	s.playing = on
	if on {
		s.startAutoplayLocked()
	} else {
		s.stopAutoplayLocked()
	}
	return change{autoplayChanged: true}
}

// adoptAutoplay reacts to writes on the autoplay cell.
func (s *State) adoptAutoplay(on bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	ch := s.setPlayingLocked(on)
	s.mu.Unlock()

	s.publish(ch)
}

// startAutoplayLocked arms the ticker and starts the tick loop. The
// ticker is created here rather than in the goroutine so that it exists
// as soon as this returns.
func (s *State) startAutoplayLocked() {
	if s.autoplayStop != nil {
		return
	}
	interval := s.layout.AutoPlayInterval()
	if interval <= 0 {
		return
	}

	s.autoplayGen++
	stop := make(chan struct{})
	s.autoplayStop = stop
	ticker := s.clock.NewTicker(interval)

	go s.autoplayLoop(s.autoplayGen, ticker, stop)
}

// stopAutoplayLocked cancels the tick loop. Bumping the generation means
// a tick that already fired but has not taken the lock will not commit.
func (s *State) stopAutoplayLocked() {
	if s.autoplayStop == nil {
		return
	}
	close(s.autoplayStop)
	s.autoplayStop = nil
	s.autoplayGen++
}

func (s *State) autoplayLoop(gen uint64, ticker clockz.Ticker, stop <-chan struct{}) {
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if !s.tick(gen) {
				return
			}
		}
	}
}

// tick advances one slide on behalf of autoplay. It reports whether the
// loop should keep running.
func (s *State) tick(gen uint64) bool {
	s.mu.Lock()
	if s.closed || gen != s.autoplayGen {
		s.mu.Unlock()
		return false
	}

	ch, err := s.setIndexLocked(s.index + 1)
	if errors.Is(err, domain.ErrOutOfRange) {
		// Last slide without loop: nothing further to play.
		log.Printf("carousel %s: autoplay reached the last slide, stopping", s.id)
		ch = s.setPlayingLocked(false)
	}
	s.mu.Unlock()

	s.publish(ch)
	return err == nil
}
