package speech

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Player starts playback of an audio payload. The returned channel closes
// when playback completes; stop cancels it early.
type Player interface {
	Play(audio []byte) (done <-chan struct{}, stop func(), err error)
}

// BeepPlayer plays mp3 payloads on the local output device.
type BeepPlayer struct {
	mu sync.Mutex
}

func NewBeepPlayer() *BeepPlayer { return &BeepPlayer{} }

func (p *BeepPlayer) Play(audio []byte) (<-chan struct{}, func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(audio)))
	if err != nil {
		return nil, nil, err
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		streamer.Close()
		return nil, nil, err
	}

	done := make(chan struct{})
	var once sync.Once
	finish := func() {
		once.Do(func() {
			_ = streamer.Close()
			close(done)
		})
	}
	speaker.Play(beep.Seq(streamer, beep.Callback(finish)))
	stop := func() {
		speaker.Clear()
		finish()
	}
	return done, stop, nil
}

// NopPlayer discards audio immediately; used when running headless.
type NopPlayer struct{}

func (NopPlayer) Play(audio []byte) (<-chan struct{}, func(), error) {
	done := make(chan struct{})
	close(done)
	return done, func() {}, nil
}
