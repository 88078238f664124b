package synthesizer

import (
	"context"
	"fmt"

	"github.com/petrzlen/speech-golang/pkg/models"
	"github.com/petrzlen/speech-golang/pkg/speech"
	"github.com/rs/zerolog/log"
)

const creatorName = "speech_api_tts"

// AudioFetcher is the part of speech.SpeechSynthesizer the backend needs.
type AudioFetcher interface {
	Synthesize(ctx context.Context, options *speech.SpeechOptions) ([]byte, error)
}

type speechAPITTS struct {
	client AudioFetcher
}

func NewSpeechAPITTS(client AudioFetcher) Synthesizer {
	return &speechAPITTS{
		client: client,
	}
}

func (s *speechAPITTS) CreateSpeech(ctx context.Context, options *speech.SpeechOptions) (audioOutput models.AudioData, err error) {
	log.Debug().Str("input", options.Text()).Str("locale", options.Locale).Stringer("gender", options.Gender).Msg("CreateSpeech start")

	rawAudioBytes, err := s.client.Synthesize(ctx, options)
	if err != nil {
		err = fmt.Errorf("could not synthesize %q cause %w", options.Text(), err)
		return
	}
	audioOutput = models.NewAudioData(options.Text(), options.OutputFormat, rawAudioBytes, creatorName)
	return
}
