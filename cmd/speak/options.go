package main

import (
	"github.com/petrzlen/speech-golang/pkg/speech"
	"github.com/petrzlen/speech-golang/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const presetDir = "presets"

type optionFlags struct {
	language string
	gender   string
	format   string
	ssml     bool
	preset   string
}

func (f *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "locale of the voice, e.g. en-US (default: system locale)")
	cmd.Flags().StringVarP(&f.gender, "gender", "g", "", "voice gender: female, male or neuter")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "audio format: mp3, ogg_vorbis or pcm")
	cmd.Flags().BoolVar(&f.ssml, "ssml", false, "treat the text as SSML")
	cmd.Flags().StringVar(&f.preset, "preset", "", "start from a saved preset")
}

func (f *optionFlags) reset() {
	*f = optionFlags{}
}

func presetStore() *store.OptionsStore {
	return store.NewOptionsStore(appFs, presetDir)
}

// build applies the flags, and an optional positional language, on top of the preset or defaults.
func (f *optionFlags) build(text string, args []string) (*speech.SpeechOptions, error) {
	options := speech.NewTextOptions(text)
	if f.preset != "" {
		preset, err := presetStore().Load(f.preset)
		if err != nil {
			return nil, err
		}
		options = preset.WithText(text)
		if f.ssml {
			options = ssmlCopy(options)
		}
	} else if f.ssml {
		options = speech.NewSSMLOptions(text)
	}

	if len(args) > 0 && args[0] != "" {
		options.Locale = args[0]
	}
	if f.language != "" {
		options.Locale = f.language
	}
	if f.gender != "" {
		options.Gender = speech.ParseSpeechGender(f.gender)
	}
	if f.format != "" {
		format, err := speech.ParseAudioFormat(f.format)
		if err != nil {
			return nil, errors.Wrap(err, "invalid --format")
		}
		options.OutputFormat = format
	}
	return options, nil
}

func ssmlCopy(options *speech.SpeechOptions) *speech.SpeechOptions {
	ssml := speech.NewSSMLOptions(options.Text())
	ssml.Locale = options.Locale
	ssml.Gender = options.Gender
	ssml.OutputFormat = options.OutputFormat
	return ssml
}
