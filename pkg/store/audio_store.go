// Package store keeps synthesized audio and saved option presets on an afero filesystem.
package store

import (
	"path/filepath"

	"github.com/petrzlen/speech-golang/pkg/audio_utils"
	"github.com/petrzlen/speech-golang/pkg/models"
	"github.com/petrzlen/speech-golang/pkg/speech"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// AudioStore writes synthesized chunks as <dir>/<name>.<ext>.
type AudioStore struct {
	fs  afero.Fs
	dir string
}

func NewAudioStore(fs afero.Fs, dir string) *AudioStore {
	return &AudioStore{fs: fs, dir: dir}
}

// Save writes audio under name, replacing any earlier file, and returns its path.
func (s *AudioStore) Save(name string, audio models.AudioData) (path string, err error) {
	if err = validName(name); err != nil {
		return
	}
	if len(audio.ByteData) == 0 {
		err = errors.Errorf("refusing to save empty audio %q", name)
		return
	}
	return s.write(name+"."+audio.Format.Extension(), audio.ByteData)
}

// SaveWav writes pcm audio as <name>.wav, sampled at sampleRate with numChannels channels.
func (s *AudioStore) SaveWav(name string, audio models.AudioData, sampleRate int, numChannels int) (path string, err error) {
	if err = validName(name); err != nil {
		return
	}
	if audio.Format != speech.AudioFormatPCM {
		err = errors.Errorf("cannot convert %s audio to wav", audio.Format)
		return
	}
	wavBytes, err := audio_utils.ConvertTwoByteSamplesToWav(audio.ByteData, sampleRate, numChannels)
	if err != nil {
		err = errors.Wrapf(err, "cannot convert %q to wav", name)
		return
	}
	return s.write(name+".wav", wavBytes)
}

func (s *AudioStore) write(filename string, data []byte) (path string, err error) {
	if err = s.fs.MkdirAll(s.dir, 0o755); err != nil {
		err = errors.Wrapf(err, "cannot create audio dir %s", s.dir)
		return
	}
	path = filepath.Join(s.dir, filename)
	if err = afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		err = errors.Wrapf(err, "cannot write audio %s", path)
		return
	}
	return
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return errors.Errorf("invalid file name %q", name)
	}
	return nil
}
