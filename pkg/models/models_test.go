package models

import (
	"testing"
	"time"

	"github.com/petrzlen/speech-golang/pkg/speech"
	"github.com/stretchr/testify/assert"
)

func TestNewAudioData(t *testing.T) {
	before := time.Now()
	data := NewAudioData("hello", speech.AudioFormatOggVorbis, []byte("OggS"), "tts")

	assert.Equal(t, "hello", data.Text)
	assert.Equal(t, speech.AudioFormatOggVorbis, data.Format)
	assert.Equal(t, []byte("OggS"), data.ByteData)
	assert.Equal(t, "tts", data.Trace.Creator)
	assert.False(t, data.Trace.CreatedAt.Before(before))
	assert.True(t, data.Trace.ProcessedAt.IsZero())
}

func TestTrace_Processed(t *testing.T) {
	trace := NewTrace("tts")
	trace.Processed("player")

	assert.Equal(t, "player", trace.Processor)
	assert.False(t, trace.ProcessedAt.Before(trace.CreatedAt))
}
