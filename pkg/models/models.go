package models

import (
	"time"

	"github.com/petrzlen/speech-golang/pkg/speech"
	"github.com/rs/zerolog/log"
)

type Trace struct {
	CreatedAt time.Time
	Creator   string

	ProcessedAt time.Time
	Processor   string
}

func NewTrace(creator string) Trace {
	return Trace{
		CreatedAt: time.Now(),
		Creator:   creator,
	}
}

// Processed stamps the trace when processor is done with the item.
func (t *Trace) Processed(processor string) {
	t.ProcessedAt = time.Now()
	t.Processor = processor
}

func (t Trace) Log() {
	log.Trace().Time("created_at", t.CreatedAt).Str("creator", t.Creator).Time("processed_at", t.ProcessedAt).Str("processor", t.Processor).Dur("dur_to_process", t.ProcessedAt.Sub(t.CreatedAt)).Msgf("tracing")
}

// AudioData is one synthesized chunk travelling between routines.
type AudioData struct {
	ByteData []byte
	Format   speech.AudioFormat
	Text     string // text the audio was synthesized from
	Trace    Trace
}

func NewAudioData(text string, format speech.AudioFormat, byteData []byte, creator string) AudioData {
	return AudioData{
		ByteData: byteData,
		Format:   format,
		Text:     text,
		Trace:    NewTrace(creator),
	}
}
