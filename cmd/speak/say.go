package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/petrzlen/speech-golang/pkg/audioio"
	"github.com/petrzlen/speech-golang/pkg/metrics"
	"github.com/petrzlen/speech-golang/pkg/models"
	"github.com/petrzlen/speech-golang/pkg/speech"
	"github.com/petrzlen/speech-golang/pkg/store"
	"github.com/petrzlen/speech-golang/pkg/synthesizer"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	sayFlags    optionFlags
	play        bool
	stream      bool
	outputName  string
	asWav       bool
	showMetrics bool
)

// newOutputDevice is replaced in tests; the real one opens the speakers.
var newOutputDevice audioio.DeviceFactory = audioio.NewSpeakers

var sayCmd = &cobra.Command{
	Use:   "say <text> [language]",
	Short: "Synthesize the text and save it to the output directory, or play it",
	Long: `say fetches audio for the text. The audio is written to SPEECH_OUTPUT_DIR
(default "output") unless --play is given.

With --stream the text is split at punctuation and every piece is synthesized
and handled as soon as it is ready.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSay,
}

func init() {
	sayFlags.register(sayCmd)
	sayCmd.Flags().BoolVar(&play, "play", false, "play the audio instead of writing it to disk")
	sayCmd.Flags().BoolVar(&stream, "stream", false, "synthesize sentence by sentence")
	sayCmd.Flags().StringVarP(&outputName, "output", "o", "speech", "base name of the written file")
	sayCmd.Flags().BoolVar(&asWav, "wav", false, "request pcm audio and write it as a .wav file")
	sayCmd.Flags().BoolVar(&showMetrics, "metrics", false, "print request metrics when done")
	rootCmd.AddCommand(sayCmd)
}

func runSay(cmd *cobra.Command, args []string) error {
	options, err := sayFlags.build(args[0], args[1:])
	if err != nil {
		return err
	}
	if asWav {
		if stream || play {
			return errors.New("--wav cannot be combined with --stream or --play")
		}
		options.OutputFormat = speech.AudioFormatPCM
	}

	queue := speech.NewSerialQueue()
	defer queue.Close()
	registry := prometheus.NewRegistry()
	synth, err := newSynthesizer(speech.WithQueue(queue), speech.WithObserver(metrics.NewPrometheusObserver(registry)))
	if err != nil {
		return err
	}
	log.Info().Str("url_path", synth.URL(options).EscapedPath()).Str("user_agent", synth.UserAgent()).Msg("synthesizing")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	audioStore := store.NewAudioStore(appFs, cfg.OutputDir)
	if stream {
		err = sayStreaming(ctx, cmd, synth, options, audioStore)
	} else {
		err = sayOnce(ctx, cmd, synth, options, audioStore)
	}
	if showMetrics {
		dbg(printMetrics(cmd, registry))
	}
	return err
}

func sayOnce(ctx context.Context, cmd *cobra.Command, synth *speech.SpeechSynthesizer, options *speech.SpeechOptions, audioStore *store.AudioStore) error {
	var audio []byte
	var fetchErr error
	task := synth.AudioData(ctx, options, func(data []byte, err error) {
		audio, fetchErr = data, err
	})
	<-task.Done()
	if fetchErr != nil {
		return describe(fetchErr)
	}

	audioData := models.NewAudioData(options.Text(), options.OutputFormat, audio, "speak")
	if play {
		return playChunks(func(audioChan chan<- models.AudioData) {
			audioChan <- audioData
		})
	}
	var path string
	var err error
	if asWav {
		path, err = audioStore.SaveWav(outputName, audioData, audioio.PCMSampleRate, 1)
	} else {
		path, err = audioStore.Save(outputName, audioData)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
	return err
}

func sayStreaming(ctx context.Context, cmd *cobra.Command, synth *speech.SpeechSynthesizer, options *speech.SpeechOptions, audioStore *store.AudioStore) error {
	textChan := make(chan string)
	go func() {
		defer close(textChan)
		for i, word := range strings.Fields(options.Text()) {
			if i > 0 {
				word = " " + word
			}
			select {
			case textChan <- word:
			case <-ctx.Done():
				return
			}
		}
	}()

	var sink synthesizer.AudioSink
	if !play {
		sink = audioStore
	}
	tts := synthesizer.NewSpeechAPITTS(synth)

	// produced is only read after produce has returned.
	produced := 0
	produce := func(audioChan chan<- models.AudioData) {
		chunks := make(chan models.AudioData)
		go func() {
			defer close(chunks)
			synthesizer.TextToSpeechRoutine(ctx, tts, options, textChan, chunks, sink)
		}()
		for audioData := range chunks {
			produced++
			audioChan <- audioData
		}
	}
	if play {
		if err := playChunks(produce); err != nil {
			return err
		}
		return nothingSynthesized(ctx, produced)
	}

	audioChan := make(chan models.AudioData)
	go func() {
		defer close(audioChan)
		produce(audioChan)
	}()
	for audioData := range audioChan {
		log.Debug().Str("text", audioData.Text).Int("bytes", len(audioData.ByteData)).Msg("chunk saved")
	}
	if err := nothingSynthesized(ctx, produced); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d chunks written to %s\n", produced, cfg.OutputDir)
	return err
}

// nothingSynthesized fails a streaming run in which every chunk failed; the reasons are logged per chunk.
func nothingSynthesized(ctx context.Context, produced int) error {
	if produced > 0 {
		return nil
	}
	if ctx.Err() != nil {
		return errors.New("cancelled")
	}
	return errors.New("no chunk could be synthesized, see the log for details")
}

// playChunks runs produce and plays everything it sends until it returns.
func playChunks(produce func(audioChan chan<- models.AudioData)) error {
	audioChan := make(chan models.AudioData, 16)
	go func() {
		defer close(audioChan)
		produce(audioChan)
	}()
	audioio.PlayAudioChunksRoutine(newOutputDevice, audioChan)
	return nil
}

func describe(err error) error {
	var speechErr *speech.Error
	if !errors.As(err, &speechErr) {
		return err
	}
	if speechErr.IsCancelled() {
		return errors.New("cancelled")
	}
	// Error() already carries the failure reason; only the suggestion is added.
	if suggestion := speechErr.RecoverySuggestion(); suggestion != "" {
		return fmt.Errorf("%w %s", err, suggestion)
	}
	return err
}

func printMetrics(cmd *cobra.Command, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return errors.Wrap(err, "cannot gather metrics")
	}
	out := cmd.ErrOrStderr()
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			var labels []string
			for _, label := range metric.GetLabel() {
				labels = append(labels, label.GetName()+"="+label.GetValue())
			}
			value := metric.GetCounter().GetValue()
			if histogram := metric.GetHistogram(); histogram != nil {
				value = histogram.GetSampleSum()
			}
			if _, err := fmt.Fprintf(out, "%s{%s} %g\n", family.GetName(), strings.Join(labels, ","), value); err != nil {
				return err
			}
		}
	}
	return nil
}
