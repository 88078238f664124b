package audioio

import (
	"io"
	"sync"
)

// OutputDevice plays one decoded S16LE stream at a time.
type OutputDevice interface {
	Play(stream io.Reader) (*sync.WaitGroup, error)
	Stop() error
}

// DeviceFactory opens an output device for the given stream layout.
// NewSpeakers is the production factory; at most one may be opened per process.
type DeviceFactory func(sampleRate int, numChannels int) (OutputDevice, error)
