package recording

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotRecording = errors.New("recording: no capture open")

// Pipe is a Microphone fed by pushes, used when the audio is captured in
// the browser and uploaded piece by piece. Pushed bytes are buffered and
// handed to the recorder once per timeslice.
type Pipe struct {
	mu     sync.Mutex
	active *pipeCapture
	denied error
}

func NewPipe() *Pipe { return &Pipe{} }

// Deny makes the next Open calls fail with err, as when the user refuses
// microphone access. A nil err allows access again.
func (p *Pipe) Deny(err error) {
	p.mu.Lock()
	p.denied = err
	p.mu.Unlock()
}

func (p *Pipe) Open(ctx context.Context, mimeType string) (Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.denied != nil {
		return nil, p.denied
	}
	c := &pipeCapture{pipe: p, done: make(chan struct{})}
	p.active = c
	return c, nil
}

// Push appends data to the open capture.
func (p *Pipe) Push(data []byte) error {
	p.mu.Lock()
	c := p.active
	p.mu.Unlock()
	if c == nil {
		return ErrNotRecording
	}
	return c.push(data)
}

type pipeCapture struct {
	pipe *Pipe

	mu      sync.Mutex
	pending []byte
	onChunk func([]byte)
	stopped bool
	done    chan struct{}
	ticker  sync.WaitGroup
	track   pipeTrack

	// deliver serialises onChunk calls so chunks arrive in push order.
	deliver sync.Mutex
}

func (c *pipeCapture) Start(timeslice time.Duration, onChunk func([]byte)) {
	c.mu.Lock()
	c.onChunk = onChunk
	c.mu.Unlock()
	c.ticker.Add(1)
	go func() {
		defer c.ticker.Done()
		t := time.NewTicker(timeslice)
		defer t.Stop()
		for {
			select {
			case <-c.done:
				return
			case <-t.C:
				c.flush()
			}
		}
	}()
}

func (c *pipeCapture) push(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return ErrNotRecording
	}
	c.pending = append(c.pending, data...)
	return nil
}

func (c *pipeCapture) flush() {
	c.deliver.Lock()
	defer c.deliver.Unlock()
	c.mu.Lock()
	data, fn := c.pending, c.onChunk
	c.pending = nil
	c.mu.Unlock()
	if fn != nil && len(data) > 0 {
		fn(data)
	}
}

func (c *pipeCapture) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	close(c.done)
	c.mu.Unlock()

	// No timed flush may run after the final one.
	c.ticker.Wait()
	c.flush()

	c.pipe.mu.Lock()
	if c.pipe.active == c {
		c.pipe.active = nil
	}
	c.pipe.mu.Unlock()
}

func (c *pipeCapture) Tracks() []Track { return []Track{&c.track} }

type pipeTrack struct {
	mu      sync.Mutex
	stopped bool
}

func (t *pipeTrack) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}
