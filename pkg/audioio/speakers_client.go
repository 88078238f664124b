package audioio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog/log"
)

// speakers wraps the single oto context of the process.
//
// The state flow is:
//  1. player == nil => idle
//  2. Play grabs the mutex and starts a player plus its monitorRoutine.
//  3. Stop (or the end of the stream) pauses the player; monitorRoutine closes it and resets state.
//  4. Another Play is only accepted once the previous player has been closed.
//
// Invariant: at most one monitorRoutine runs at any time.
type speakers struct {
	otoContext *oto.Context

	mutex    sync.Mutex // protects player, done and stopping
	player   *oto.Player
	done     *sync.WaitGroup
	stopping bool
}

func NewSpeakers(sampleRate int, numChannels int) (OutputDevice, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: numChannels,
		Format:       oto.FormatSignedInt16LE,
	}

	log.Info().Int("sample_rate", sampleRate).Int("num_channels", numChannels).Msg("opening speakers, waiting until ready")
	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot open oto context %w", err)
	}
	<-readyChan
	log.Info().Msg("speakers ready")

	return &speakers{
		otoContext: otoCtx,
	}, nil
}

// Play starts playing stream and returns a WaitGroup that is released once playback ends.
func (s *speakers) Play(stream io.Reader) (*sync.WaitGroup, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.player != nil {
		return nil, fmt.Errorf("speakers are busy, call Stop first")
	}

	s.done = &sync.WaitGroup{}
	s.done.Add(1)

	s.player = s.otoContext.NewPlayer(stream)
	s.player.Play()
	go s.monitorRoutine(s.player, s.done)

	return s.done, nil
}

// Stop interrupts the current playback and blocks until the player is closed.
func (s *speakers) Stop() error {
	s.mutex.Lock()
	if s.player == nil {
		s.mutex.Unlock()
		return nil
	}
	if s.stopping {
		s.mutex.Unlock()
		return fmt.Errorf("speakers are already stopping")
	}

	log.Debug().Msg("speakers stopping")
	s.stopping = true
	s.player.Pause()
	done := s.done
	s.mutex.Unlock()

	done.Wait()
	return nil
}

func (s *speakers) monitorRoutine(player *oto.Player, done *sync.WaitGroup) {
	defer done.Done()

	startTime := time.Now()
	for {
		s.mutex.Lock()
		finished := !player.IsPlaying() || s.stopping
		s.mutex.Unlock()
		if finished {
			break
		}
		time.Sleep(time.Millisecond)
	}

	s.mutex.Lock()
	if err := player.Close(); err != nil {
		log.Error().Err(err).Msg("player.Close failed")
	}
	s.player = nil
	s.done = nil
	s.stopping = false
	s.mutex.Unlock()

	log.Debug().Dur("playback_duration", time.Since(startTime)).Msg("playback done")
}
