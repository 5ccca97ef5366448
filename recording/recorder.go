// Package recording captures a lecture recording from a microphone into a
// single audio asset.
package recording

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/andrewpaige1/studydesk/logger"
)

const (
	MimeType        = "audio/webm"
	CaptureMimeType = "audio/webm;codecs=opus"
	Filename        = "recording.webm"

	DefaultTimeslice = 10 * time.Second
	tickInterval     = time.Second
)

var (
	ErrAlreadyRecording = errors.New("recording: already recording")
	ErrMicrophone       = errors.New("recording: microphone unavailable")
)

type State string

const (
	Idle      State = "idle"
	Recording State = "recording"
	Captured  State = "captured"
)

// Track is one input track of an open capture.
type Track interface {
	Stop()
}

// Capture is an open microphone stream. Start delivers data in slices of
// roughly timeslice; Stop delivers whatever is still buffered before it
// returns.
type Capture interface {
	Start(timeslice time.Duration, onChunk func([]byte))
	Stop()
	Tracks() []Track
}

type Microphone interface {
	Open(ctx context.Context, mimeType string) (Capture, error)
}

// Asset is the assembled recording.
type Asset struct {
	MimeType string        `json:"mime_type"`
	Filename string        `json:"filename"`
	Size     int           `json:"size"`
	Duration time.Duration `json:"duration"`
	Data     []byte        `json:"-"`
}

func (a *Asset) Reader() io.Reader { return bytes.NewReader(a.Data) }

// Recorder is the idle -> recording -> captured state machine. There is no
// pause; starting again from captured discards the previous asset.
type Recorder struct {
	mic       Microphone
	timeslice time.Duration
	tick      time.Duration
	log       *logger.Logger

	mu       sync.Mutex
	state    State
	starting bool
	stopping bool
	capture  Capture
	chunks   [][]byte
	elapsed  int
	started  time.Time
	stopTick context.CancelFunc
	asset    *Asset
}

type Option func(*Recorder)

func WithTimeslice(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.timeslice = d
		}
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(r *Recorder) {
		if log != nil {
			r.log = log
		}
	}
}

func withTick(d time.Duration) Option {
	return func(r *Recorder) { r.tick = d }
}

func NewRecorder(mic Microphone, opts ...Option) *Recorder {
	r := &Recorder{
		mic:       mic,
		timeslice: DefaultTimeslice,
		tick:      tickInterval,
		log:       logger.Nop(),
		state:     Idle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start opens the microphone and begins collecting chunks and counting
// seconds.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state == Recording || r.starting {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}
	r.starting = true
	r.mu.Unlock()

	capture, err := r.mic.Open(ctx, CaptureMimeType)
	if err != nil {
		r.mu.Lock()
		r.starting = false
		r.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrMicrophone, err)
	}

	r.mu.Lock()
	tickCtx, cancel := context.WithCancel(context.Background())
	r.state = Recording
	r.starting = false
	r.capture = capture
	r.chunks = nil
	r.elapsed = 0
	r.asset = nil
	r.started = time.Now()
	r.stopTick = cancel
	r.mu.Unlock()

	go r.count(tickCtx)
	capture.Start(r.timeslice, r.appendChunk)
	r.log.Info("recording started")
	return nil
}

func (r *Recorder) count(ctx context.Context) {
	t := time.NewTicker(r.tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.mu.Lock()
			r.elapsed++
			r.mu.Unlock()
		}
	}
}

func (r *Recorder) appendChunk(b []byte) {
	if len(b) == 0 {
		return
	}
	cp := append([]byte(nil), b...)
	r.mu.Lock()
	if r.state == Recording {
		r.chunks = append(r.chunks, cp)
	}
	r.mu.Unlock()
}

// Stop flushes the capture, stops every input track and assembles the
// chunks. Calling Stop when not recording does nothing and returns nil.
func (r *Recorder) Stop() *Asset {
	r.mu.Lock()
	if r.state != Recording || r.stopping {
		r.mu.Unlock()
		return nil
	}
	r.stopping = true
	capture := r.capture
	r.stopTick()
	r.mu.Unlock()

	capture.Stop()
	stopTracks(capture)

	r.mu.Lock()
	defer r.mu.Unlock()
	data := bytes.Join(r.chunks, nil)
	if data == nil {
		data = []byte{}
	}
	r.asset = &Asset{
		MimeType: MimeType,
		Filename: Filename,
		Size:     len(data),
		Duration: time.Since(r.started).Truncate(time.Second),
		Data:     data,
	}
	r.state = Captured
	r.stopping = false
	r.capture = nil
	r.chunks = nil
	r.log.Info("recording captured", "bytes", len(data), "elapsed_seconds", r.elapsed)
	return r.asset
}

func stopTracks(c Capture) {
	for _, t := range c.Tracks() {
		t.Stop()
	}
}

// Discard drops a captured asset and returns to idle. A running recording
// is stopped first.
func (r *Recorder) Discard() {
	r.Stop()
	r.mu.Lock()
	r.state = Idle
	r.asset = nil
	r.elapsed = 0
	r.mu.Unlock()
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Elapsed is the number of whole seconds counted while recording.
func (r *Recorder) Elapsed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// Asset returns the captured recording, or nil.
func (r *Recorder) Asset() *Asset {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.asset
}

// Status is what the recording widget shows.
type Status struct {
	State   State  `json:"state"`
	Elapsed string `json:"elapsed"`
	Asset   *Asset `json:"asset,omitempty"`
}

func (r *Recorder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{State: r.state, Elapsed: FormatElapsed(r.elapsed), Asset: r.asset}
}

// FormatElapsed renders seconds as MM:SS.
func FormatElapsed(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
