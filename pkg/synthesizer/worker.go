package synthesizer

import (
	"context"
	"fmt"

	"github.com/petrzlen/speech-golang/pkg/models"
	"github.com/petrzlen/speech-golang/pkg/speech"
	"github.com/rs/zerolog/log"
)

// MinTextBufferForTtsCharLength is mostly to prevent saying like "1,"
// in other cases it's best to start as soon as the first text chunks arrive.
const MinTextBufferForTtsCharLength = 3

func isPunctuationMarkAtEnd(s string) bool {
	if len(s) == 0 {
		return false
	}
	lastChar := s[len(s)-1]
	switch lastChar {
	case ',', '.', '?', '!', ';', ':':
		return true
	default:
		return false
	}
}

// TextToSpeechRoutine buffers text chunks up to a punctuation mark and synthesizes each buffer
// with template's locale, gender and format. It returns when textChan is closed or ctx is done;
// it never closes audioOutputChan. sink may be nil.
func TextToSpeechRoutine(ctx context.Context, tts Synthesizer, template *speech.SpeechOptions, textChan <-chan string, audioOutputChan chan<- models.AudioData, sink AudioSink) {
	log.Info().Msgf("textToSpeechRoutine started")
	var buffer string

	i := 0
	for {
		select {
		case <-ctx.Done():
			log.Info().Err(ctx.Err()).Msg("textToSpeechRoutine interrupted")
			return
		case text, ok := <-textChan:
			if ok {
				buffer += text
			}
			if (len(buffer) > MinTextBufferForTtsCharLength && isPunctuationMarkAtEnd(buffer)) || (!ok && buffer != "") {
				i++
				audioOutput, err := tts.CreateSpeech(ctx, template.WithText(buffer))
				if err == nil {
					if sink != nil {
						_, err := sink.Save(fmt.Sprintf("tts-%d", i), audioOutput)
						dbg(err)
					}
					select {
					case audioOutputChan <- audioOutput:
					case <-ctx.Done():
						return
					}
				} else {
					log.Error().Err(err).Msgf("cannot synthesize buffered text %q", buffer)
				}
				buffer = ""
			}
			if !ok {
				log.Info().Msgf("textToSpeechRoutine ended")
				return
			}
		}
	}
}

func dbg(err error) {
	if err != nil {
		log.Debug().Err(err).Msg("sth non-essential failed")
	}
}
