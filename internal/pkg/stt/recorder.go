package stt

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// State of the push-to-talk lifecycle. Transitions are strictly linear:
// idle -> starting -> recording -> transcribing -> idle.
type State string

const (
	StateIdle         State = "idle"
	StateStarting     State = "starting"
	StateRecording    State = "recording"
	StateTranscribing State = "transcribing"
)

// RemoteEngine is what the recorder talks to: an utterance handshake plus the
// actual audio-to-text conversion.
type RemoteEngine interface {
	Prepare(ctx context.Context) error
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// StartError wraps a failed utterance handshake. The recorder is back in idle
// when this is returned.
type StartError struct {
	Err error
}

func (e *StartError) Error() string { return fmt.Sprintf("stt start failed: %v", e.Err) }
func (e *StartError) Unwrap() error { return e.Err }

// StopError wraps a failed transcription round trip. The recorder is back in
// idle when this is returned, so the caller can retry from scratch.
type StopError struct {
	Err error
}

func (e *StopError) Error() string { return fmt.Sprintf("stt stop failed: %v", e.Err) }
func (e *StopError) Unwrap() error { return e.Err }

const defaultSettleDelay = time.Second

// Recorder drives one speech-to-text utterance at a time. Events arriving in
// the wrong state are ignored rather than queued, which debounces repeated
// clicks and guarantees no overlapping engine sessions.
type Recorder struct {
	mu     sync.Mutex
	state  State
	engine RemoteEngine
	settle time.Duration
	log    *logrus.Logger
}

func NewRecorder(engine RemoteEngine, settle time.Duration, log *logrus.Logger) *Recorder {
	if settle <= 0 {
		settle = defaultSettleDelay
	}
	return &Recorder{
		state:  StateIdle,
		engine: engine,
		settle: settle,
		log:    log,
	}
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start performs the utterance handshake. The engine needs a moment to warm
// up after acknowledging, so the remote round trip and a minimum settle delay
// run in parallel and Start returns only once both are satisfied. A Start in
// any state but idle is silently ignored.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return nil
	}
	r.state = StateStarting
	r.mu.Unlock()

	settled := time.NewTimer(r.settle)
	defer settled.Stop()

	errc := make(chan error, 1)
	go func() {
		errc <- r.engine.Prepare(ctx)
	}()

	var err error
	select {
	case err = <-errc:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err == nil {
		select {
		case <-settled.C:
		case <-ctx.Done():
			err = ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.state = StateIdle
		return &StartError{Err: err}
	}
	r.state = StateRecording
	return nil
}

// Abort drops an in-flight recording without contacting the engine, for
// stops that arrive carrying no audio.
func (r *Recorder) Abort() {
	r.mu.Lock()
	if r.state == StateRecording {
		r.state = StateIdle
	}
	r.mu.Unlock()
}

// Stop sends the buffered audio for transcription and returns the recognized
// text. Empty text means nothing was recognized, which is a valid outcome. A
// Stop in any state but recording is a no-op: no request is sent and empty
// text is returned.
func (r *Recorder) Stop(ctx context.Context, filename string, audio io.Reader) (string, error) {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return "", nil
	}
	r.state = StateTranscribing
	r.mu.Unlock()

	text, err := r.engine.Transcribe(ctx, filename, audio)

	r.mu.Lock()
	r.state = StateIdle
	r.mu.Unlock()

	if err != nil {
		if r.log != nil {
			r.log.Errorf("transcription failed: %v", err)
		}
		return "", &StopError{Err: err}
	}
	return text, nil
}
