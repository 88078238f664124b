package speech

import (
	"encoding/json"
	"fmt"
)

// TextType says how the remote service should interpret SpeechOptions text.
type TextType int

const (
	TextTypeText TextType = iota
	TextTypeSSML
)

var textTypeNames = map[TextType]string{
	TextTypeText: "text",
	TextTypeSSML: "ssml",
}

func (t TextType) String() string {
	if name, ok := textTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t TextType) MarshalText() ([]byte, error) {
	name, ok := textTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("speech: invalid text type %d", int(t))
	}
	return []byte(name), nil
}

func (t *TextType) UnmarshalText(b []byte) error {
	for value, name := range textTypeNames {
		if name == string(b) {
			*t = value
			return nil
		}
	}
	return fmt.Errorf("speech: unknown text type %q", b)
}

// AudioFormat is the codec of the returned payload. The payload itself is never decoded here.
type AudioFormat int

const (
	AudioFormatMP3 AudioFormat = iota
	AudioFormatOggVorbis
	AudioFormatPCM
)

var audioFormatNames = map[AudioFormat]string{
	AudioFormatMP3:       "mp3",
	AudioFormatOggVorbis: "ogg_vorbis",
	AudioFormatPCM:       "pcm",
}

func (f AudioFormat) String() string {
	if name, ok := audioFormatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Extension is the file extension used when the payload is written to disk.
func (f AudioFormat) Extension() string {
	switch f {
	case AudioFormatOggVorbis:
		return "ogg"
	case AudioFormatPCM:
		return "pcm"
	default:
		return "mp3"
	}
}

func (f AudioFormat) MarshalText() ([]byte, error) {
	name, ok := audioFormatNames[f]
	if !ok {
		return nil, fmt.Errorf("speech: invalid audio format %d", int(f))
	}
	return []byte(name), nil
}

func (f *AudioFormat) UnmarshalText(b []byte) error {
	for value, name := range audioFormatNames {
		if name == string(b) {
			*f = value
			return nil
		}
	}
	return fmt.Errorf("speech: unknown audio format %q", b)
}

// ParseAudioFormat maps a wire name such as "ogg_vorbis" to its AudioFormat.
func ParseAudioFormat(name string) (AudioFormat, error) {
	var f AudioFormat
	err := f.UnmarshalText([]byte(name))
	return f, err
}

// SpeechGender selects the voice gender. GenderNeuter means "unspecified".
type SpeechGender int

const (
	GenderNeuter SpeechGender = iota
	GenderFemale
	GenderMale
)

var speechGenderNames = map[SpeechGender]string{
	GenderNeuter: "neuter",
	GenderFemale: "female",
	GenderMale:   "male",
}

func (g SpeechGender) String() string {
	if name, ok := speechGenderNames[g]; ok {
		return name
	}
	return "neuter"
}

func (g SpeechGender) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText never fails: anything other than "female" or "male" is neuter.
func (g *SpeechGender) UnmarshalText(b []byte) error {
	*g = ParseSpeechGender(string(b))
	return nil
}

func ParseSpeechGender(name string) SpeechGender {
	switch name {
	case "female":
		return GenderFemale
	case "male":
		return GenderMale
	default:
		return GenderNeuter
	}
}

// SpeechOptions describes what to synthesize and how.
//
// The text and its type are fixed by the constructor. OutputFormat, Locale and Gender may be
// changed until the options are handed to a SpeechSynthesizer; the request URL is computed
// eagerly, so later changes do not affect a request already in flight.
type SpeechOptions struct {
	text     string
	textType TextType

	OutputFormat AudioFormat
	// Locale is a tag such as "en-US"; it goes through MapIdentifier before being sent.
	Locale string
	Gender SpeechGender
}

// NewTextOptions returns options for synthesizing plain text.
func NewTextOptions(text string) *SpeechOptions {
	return newOptions(text, TextTypeText)
}

// NewSSMLOptions returns options for synthesizing SSML markup. The markup is not validated.
func NewSSMLOptions(ssml string) *SpeechOptions {
	return newOptions(ssml, TextTypeSSML)
}

func newOptions(text string, textType TextType) *SpeechOptions {
	return &SpeechOptions{
		text:         text,
		textType:     textType,
		OutputFormat: AudioFormatMP3,
		Locale:       DefaultLocale(),
		Gender:       GenderNeuter,
	}
}

func (o *SpeechOptions) Text() string {
	return o.text
}

func (o *SpeechOptions) TextType() TextType {
	return o.textType
}

// Copy returns an independent copy with the same text and text type.
func (o *SpeechOptions) Copy() *SpeechOptions {
	c := *o
	return &c
}

// WithText returns a copy carrying different text but the same type and tuning.
func (o *SpeechOptions) WithText(text string) *SpeechOptions {
	c := o.Copy()
	c.text = text
	return c
}

// QueryParam is one key/value pair of the request query, kept in order.
type QueryParam struct {
	Name  string
	Value string
}

// Path is the request path relative to the API endpoint.
func (o *SpeechOptions) Path() string {
	return speakPathPrefix + escapePathSegment(o.text)
}

// Params returns the option-derived query parameters in wire order.
func (o *SpeechOptions) Params() []QueryParam {
	params := []QueryParam{
		{Name: "textType", Value: o.textType.String()},
		{Name: "language", Value: MapIdentifier(o.Locale)},
		{Name: "outputFormat", Value: o.OutputFormat.String()},
	}
	if o.Gender != GenderNeuter {
		params = append(params, QueryParam{Name: "gender", Value: o.Gender.String()})
	}
	return params
}

type optionsDocument struct {
	Text         string       `json:"text"`
	TextType     TextType     `json:"textType"`
	OutputFormat AudioFormat  `json:"outputFormat"`
	Locale       string       `json:"locale,omitempty"`
	Language     string       `json:"language,omitempty"`
	SpeechGender SpeechGender `json:"speechGender"`
}

func (o *SpeechOptions) MarshalJSON() ([]byte, error) {
	return json.Marshal(optionsDocument{
		Text:         o.text,
		TextType:     o.textType,
		OutputFormat: o.OutputFormat,
		Locale:       o.Locale,
		SpeechGender: o.Gender,
	})
}

// UnmarshalJSON accepts both "locale" and "language" for the locale tag. A document without
// either keeps the system default locale.
func (o *SpeechOptions) UnmarshalJSON(b []byte) error {
	doc := optionsDocument{OutputFormat: AudioFormatMP3}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	locale := doc.Locale
	if locale == "" {
		locale = doc.Language
	}
	if locale == "" {
		locale = DefaultLocale()
	}
	*o = SpeechOptions{
		text:         doc.Text,
		textType:     doc.TextType,
		OutputFormat: doc.OutputFormat,
		Locale:       locale,
		Gender:       doc.SpeechGender,
	}
	return nil
}
