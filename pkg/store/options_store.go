package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/petrzlen/speech-golang/pkg/speech"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const presetExtension = ".json"

var ErrPresetNotFound = errors.New("preset not found")

// OptionsStore keeps SpeechOptions presets as JSON documents, one file per preset.
type OptionsStore struct {
	fs  afero.Fs
	dir string
}

func NewOptionsStore(fs afero.Fs, dir string) *OptionsStore {
	return &OptionsStore{fs: fs, dir: dir}
}

func (s *OptionsStore) path(name string) string {
	return filepath.Join(s.dir, name+presetExtension)
}

func (s *OptionsStore) Save(name string, options *speech.SpeechOptions) error {
	if err := validName(name); err != nil {
		return err
	}
	document, err := json.MarshalIndent(options, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "cannot encode preset %s", name)
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, "cannot create preset dir %s", s.dir)
	}
	if err := afero.WriteFile(s.fs, s.path(name), document, 0o644); err != nil {
		return errors.Wrapf(err, "cannot write preset %s", name)
	}
	return nil
}

// Load returns the preset saved under name; errors.Is(err, ErrPresetNotFound) when there is none.
func (s *OptionsStore) Load(name string) (*speech.SpeechOptions, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	document, err := afero.ReadFile(s.fs, s.path(name))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrPresetNotFound, name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read preset %s", name)
	}

	options := &speech.SpeechOptions{}
	if err := json.Unmarshal(document, options); err != nil {
		return nil, errors.Wrapf(err, "cannot decode preset %s", name)
	}
	return options, nil
}

// List returns the saved preset names in lexical order.
func (s *OptionsStore) List() ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot list presets in %s", s.dir)
	}

	var names []string
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), presetExtension) {
			continue
		}
		names = append(names, strings.TrimSuffix(info.Name(), presetExtension))
	}
	sort.Strings(names)
	return names, nil
}
