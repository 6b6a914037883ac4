package player

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"
	"layeh.com/gopus"

	"github.com/kazusane/murasame/pkg/pipeline"
)

const (
	sampleRate     = 48000
	channels       = 2
	frameSamples   = 960                              // 20ms at 48kHz
	pcmFrameBytes  = frameSamples * channels * 2      // s16le
	opusSendWindow = 100 * time.Millisecond
)

// session is one active playback. It is created per track, never reused: the
// queue replaces it wholesale on every track change.
type session interface {
	Pause() bool
	Resume() bool
	Stop()
	Done() <-chan error
}

// ffmpegSession decodes a pipeline.Source through a local ffmpeg process and
// streams opus frames to the voice transport. A nil value on Done() means the
// track ended naturally (or was stopped, or hit a transient network error the
// queue must not treat as a failure); a non-nil value is a fatal playback
// error.
type ffmpegSession struct {
	ctx    context.Context
	cancel context.CancelFunc

	voice  VoiceConn
	src    *pipeline.Source
	ffmpeg string
	log    *zap.Logger

	cmd  *exec.Cmd
	done chan error
	once sync.Once

	mu      sync.Mutex
	cond    *sync.Cond
	paused  bool
	stopped bool
}

func newFFmpegSession(voice VoiceConn, src *pipeline.Source, ffmpegPath string, log *zap.Logger) *ffmpegSession {
	ctx, cancel := context.WithCancel(context.Background())
	s := &ffmpegSession{
		ctx:    ctx,
		cancel: cancel,
		voice:  voice,
		src:    src,
		ffmpeg: ffmpegPath,
		log:    log,
		done:   make(chan error, 1),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Start spawns the transcoder and begins streaming in the background.
func (s *ffmpegSession) Start() error {
	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("failed to create opus encoder: %w", err)
	}
	encoder.SetBitrate(128000)

	args := []string{}
	if s.src.URL != "" {
		// Remote input: let ffmpeg handle mid-stream drops itself.
		args = append(args,
			"-reconnect", "1",
			"-reconnect_streamed", "1",
			"-reconnect_delay_max", "5",
			"-i", s.src.URL,
		)
	} else {
		args = append(args, "-i", "pipe:0")
	}
	args = append(args,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprint(sampleRate),
		"-ac", fmt.Sprint(channels),
		"-")

	cmd := exec.CommandContext(s.ctx, s.ffmpeg, args...)
	if s.src.Body != nil {
		cmd.Stdin = s.src.Body
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	go consumePipe(stderr)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", s.ffmpeg, err)
	}
	s.cmd = cmd

	go s.stream(stdout, encoder)
	return nil
}

func (s *ffmpegSession) stream(pcm io.Reader, encoder *gopus.Encoder) {
	defer func() {
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		_ = s.cmd.Wait()
		s.src.Close()
		_ = s.voice.Speaking(false)
	}()

	_ = s.voice.Speaking(true)

	buffer := make([]byte, pcmFrameBytes)
	for {
		if !s.waitWhilePaused() {
			s.finish(nil)
			return
		}

		select {
		case <-s.ctx.Done():
			s.finish(nil)
			return
		default:
		}

		n, err := io.ReadFull(pcm, buffer)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			if n > 0 {
				s.sendFrame(encoder, buffer[:n])
			}
			s.finish(nil)
			return
		}
		if err != nil {
			if IsTransientStreamError(err) {
				// Leave it to the transcoder's reconnect or the natural
				// end-of-stream; never escalate to a skip.
				s.log.Warn("transient stream error", zap.Error(err))
				s.finish(nil)
				return
			}
			s.finish(fmt.Errorf("error reading PCM data: %w", err))
			return
		}

		s.sendFrame(encoder, buffer)
	}
}

func (s *ffmpegSession) sendFrame(encoder *gopus.Encoder, data []byte) {
	samples := bytesToInt16(data)
	if len(samples) != frameSamples*channels {
		padded := make([]int16, frameSamples*channels)
		copy(padded, samples)
		samples = padded
	}

	opusData, err := encoder.Encode(samples, frameSamples, pcmFrameBytes)
	if err != nil {
		s.log.Warn("opus encoding error", zap.Error(err))
		return
	}

	select {
	case s.voice.Send() <- opusData:
	case <-time.After(opusSendWindow):
		// Voice send buffer is saturated; dropping one frame keeps the
		// stream realtime instead of drifting behind.
	case <-s.ctx.Done():
	}
}

// waitWhilePaused blocks while the session is paused. It returns false once
// the session has been stopped.
func (s *ffmpegSession) waitWhilePaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.paused && !s.stopped {
		s.cond.Wait()
	}
	return !s.stopped
}

func (s *ffmpegSession) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused || s.stopped {
		return false
	}
	s.paused = true
	_ = s.voice.Speaking(false)
	return true
}

func (s *ffmpegSession) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused || s.stopped {
		return false
	}
	s.paused = false
	_ = s.voice.Speaking(true)
	s.cond.Broadcast()
	return true
}

// Stop forces the session to end; the done event still fires (with nil) so
// the queue's normal track-end transition runs.
func (s *ffmpegSession) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.cond.Broadcast()
	s.mu.Unlock()
	s.cancel()
}

func (s *ffmpegSession) Done() <-chan error { return s.done }

func (s *ffmpegSession) finish(err error) {
	s.once.Do(func() {
		s.done <- err
	})
}

func consumePipe(r io.ReadCloser) {
	defer r.Close()
	buffer := make([]byte, 1024)
	for {
		if _, err := r.Read(buffer); err != nil {
			return
		}
	}
}

func bytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples
}
