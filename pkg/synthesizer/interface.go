package synthesizer

import (
	"context"

	"github.com/petrzlen/speech-golang/pkg/models"
	"github.com/petrzlen/speech-golang/pkg/speech"
)

type Synthesizer interface {
	CreateSpeech(ctx context.Context, options *speech.SpeechOptions) (audioOutput models.AudioData, err error)
}

// AudioSink receives a copy of every synthesized chunk, e.g. to keep it on disk for debugging.
type AudioSink interface {
	Save(name string, audio models.AudioData) (path string, err error)
}
