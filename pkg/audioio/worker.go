package audioio

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/go-mp3"
	"github.com/petrzlen/speech-golang/pkg/models"
	"github.com/petrzlen/speech-golang/pkg/speech"
	"github.com/rs/zerolog/log"
)

const (
	// PCMSampleRate is the rate of the API's raw pcm output (16-bit signed LE, mono).
	PCMSampleRate = 16000
	pcmChannels   = 1

	// go-mp3 always decodes to 16-bit stereo.
	mp3Channels = 2
)

// decode turns a synthesized chunk into a raw S16LE stream the speakers can play.
func decode(audioData models.AudioData) (stream io.Reader, sampleRate int, numChannels int, err error) {
	switch audioData.Format {
	case speech.AudioFormatMP3:
		decoder, err := mp3.NewDecoder(bytes.NewReader(audioData.ByteData))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("mp3.NewDecoder failed %w", err)
		}
		return decoder, decoder.SampleRate(), mp3Channels, nil
	case speech.AudioFormatPCM:
		return bytes.NewReader(audioData.ByteData), PCMSampleRate, pcmChannels, nil
	default:
		return nil, 0, 0, fmt.Errorf("no decoder for %s audio", audioData.Format)
	}
}

// PlayAudioChunksRoutine plays every chunk from audioDataChan in order until the channel is closed.
// The output device is opened on the first playable chunk; later chunks with another sample
// rate or channel count are skipped.
func PlayAudioChunksRoutine(newDevice DeviceFactory, audioDataChan <-chan models.AudioData) {
	log.Info().Msgf("playAudioChunksRoutine started")

	var device OutputDevice
	var deviceRate, deviceChannels int

	for audioData := range audioDataChan {
		startTime := time.Now()

		stream, sampleRate, numChannels, err := decode(audioData)
		if err != nil {
			log.Error().Err(err).Str("text", audioData.Text).Msg("cannot decode chunk, skipping")
			continue
		}

		if device == nil {
			device, err = newDevice(sampleRate, numChannels)
			if err != nil {
				log.Error().Err(err).Msg("cannot open output device, skipping chunk")
				device = nil
				continue
			}
			deviceRate, deviceChannels = sampleRate, numChannels
		} else if sampleRate != deviceRate || numChannels != deviceChannels {
			log.Error().Int("sample_rate", sampleRate).Int("device_sample_rate", deviceRate).Int("num_channels", numChannels).Int("device_num_channels", deviceChannels).Msg("chunk does not match the open device, skipping")
			continue
		}

		waitTilDone, err := device.Play(stream)
		if err != nil {
			log.Error().Err(err).Msg("cannot play decoded chunk")
		} else if waitTilDone != nil {
			waitTilDone.Wait()
		}

		audioData.Trace.Processed("player")
		audioData.Trace.Log()
		log.Debug().Dur("duration", time.Since(startTime)).Msg("player DONE")
	}
	log.Info().Msgf("playAudioChunksRoutine finished")
}
