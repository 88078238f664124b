// Package speech converts text or SSML into spoken audio by calling the Mapbox Voice API.
//
// Build a SpeechOptions with NewTextOptions or NewSSMLOptions, then hand it to a
// SpeechSynthesizer:
//
//	synth, err := speech.New(token)
//	options := speech.NewTextOptions("Turn left onto Main Street")
//	options.Gender = speech.GenderFemale
//	task := synth.AudioData(ctx, options, func(data []byte, err error) {
//		// exactly one of data or err is set
//	})
//
// Failures are *Error values with a Kind, a FailureReason and, for rate limiting, a
// RecoverySuggestion.
package speech
