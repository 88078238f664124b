package main

import (
	"os"

	"github.com/petrzlen/speech-golang/internal/config"
	"github.com/petrzlen/speech-golang/internal/utils"
	"github.com/petrzlen/speech-golang/pkg/speech"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfg     config.Config
	envFile string

	// appFs and httpClient are swapped out in tests.
	appFs      afero.Fs = afero.NewOsFs()
	httpClient speech.Doer
)

var rootCmd = &cobra.Command{
	Use:           "speak",
	Short:         "Synthesize speech with the Mapbox Voice API",
	Version:       speech.LibraryVersion,
	SilenceUsage:  true,
	SilenceErrors: false,
	Long: `speak turns text or SSML into audio using the Mapbox Voice API.

The access token is read from MAPBOX_ACCESS_TOKEN (a .env file in the working
directory is loaded first). MAPBOX_SPEECH_HOST points the tool at another host.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var envFiles []string
		if envFile != "" {
			envFiles = append(envFiles, envFile)
		}
		loaded, err := config.Load(envFiles...)
		if err != nil {
			return err
		}
		cfg = loaded
		if err := utils.SetupZerolog(cfg.LogLevel); err != nil {
			log.Warn().Err(err).Msg("falling back to info logging")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load instead of .env")
}

func newSynthesizer(opts ...speech.Option) (*speech.SpeechSynthesizer, error) {
	if httpClient != nil {
		opts = append([]speech.Option{speech.WithHTTPClient(httpClient)}, opts...)
	}
	return speech.NewFromConfig(cfg.ToSpeechConfig(), opts...)
}

func dbg(err error) {
	if err != nil {
		log.Debug().Err(err).Msg("sth non-essential failed")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
