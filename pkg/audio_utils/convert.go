package audio_utils

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	pcmBitDepth  = 16
	pcmWavFormat = 1
)

func dbg(err error) {
	if err != nil {
		log.Debug().Err(err).Msg("sth non-essential failed")
	}
}

// ConvertTwoByteSamplesToWav wraps S16LE samples, as returned for the pcm output format, in a WAV
// container so ordinary players can open them.
func ConvertTwoByteSamplesToWav(byteData []byte, sampleRate int, numChannels int) (result []byte, err error) {
	if len(byteData)%2 != 0 {
		err = fmt.Errorf("pcm data has an odd length %d", len(byteData))
		return
	}
	if len(byteData) == 0 {
		err = fmt.Errorf("pcm data is empty")
		return
	}

	inputBuffer := &audio.IntBuffer{
		Data: twoByteDataToIntSlice(byteData),
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: numChannels,
		},
		SourceBitDepth: pcmBitDepth,
	}

	// The encoder needs an io.WriteSeeker to patch the headers on Close.
	fs := afero.NewMemMapFs()
	inMemoryFilename := "in-memory-output.wav"
	inMemoryFile, err := fs.Create(inMemoryFilename)
	if err != nil {
		return
	}

	wavEncoder := wav.NewEncoder(inMemoryFile, sampleRate, pcmBitDepth, numChannels, pcmWavFormat)
	log.Debug().Int("int_data_length", len(inputBuffer.Data)).Int("sample_rate", sampleRate).Int("num_channels", numChannels).Msg("encoding pcm samples as a wav")
	if err = wavEncoder.Write(inputBuffer); err != nil {
		err = fmt.Errorf("cannot encode pcm as wav %w", err)
		return
	}
	if err = wavEncoder.Close(); err != nil {
		err = fmt.Errorf("cannot finish wav encoding %w", err)
		return
	}

	dbg(inMemoryFile.Close())
	inMemoryFileReopen, err := fs.Open(inMemoryFilename)
	if err != nil {
		return
	}
	defer func() { dbg(inMemoryFileReopen.Close()) }()
	result, err = io.ReadAll(inMemoryFileReopen)
	return
}

func twoByteDataToIntSlice(audioData []byte) []int {
	intData := make([]int, len(audioData)/2)
	for i := 0; i+1 < len(audioData); i += 2 {
		intData[i/2] = int(int16(binary.LittleEndian.Uint16(audioData[i : i+2])))
	}
	return intData
}
