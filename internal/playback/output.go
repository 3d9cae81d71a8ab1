package playback

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2/speaker"
)

// Output connects an engine to the audio device.
type Output struct {
	engine *Engine
}

// StartOutput initialises the speaker at the engine's rate and starts pulling
// samples. bufferLen bounds the latency of each pull.
func StartOutput(e *Engine, bufferLen time.Duration) (*Output, error) {
	rate := e.SampleRate()
	if err := speaker.Init(rate, rate.N(bufferLen)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(e)
	return &Output{engine: e}, nil
}

// Close stops the device. The engine keeps its handle until closed itself.
func (o *Output) Close() {
	speaker.Clear()
	speaker.Close()
}
