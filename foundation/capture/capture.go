// Package capture records one answer window from the microphone and the
// webcam through ffmpeg child processes. Audio lands in a temporary WAV
// file, video arrives as individual JPEG frames on a channel.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	jpegSOI = []byte{0xff, 0xd8}
	jpegEOI = []byte{0xff, 0xd9}
)

type Config struct {
	Logger      *zap.SugaredLogger
	FFmpegPath  string
	AudioDevice string
	VideoDevice string
	FrameRate   int
	SampleRate  int
}

type Capture struct {
	config Config
}

func New(cfg Config) *Capture {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.AudioDevice == "" {
		cfg.AudioDevice = "default"
	}
	if cfg.VideoDevice == "" {
		cfg.VideoDevice = "/dev/video0"
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 2
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	return &Capture{config: cfg}
}

// Open starts recording both devices for the window duration. The stream
// must be closed on every exit path so the device handles are released.
func (c *Capture) Open(ctx context.Context, window time.Duration) (*Stream, error) {
	seconds := fmt.Sprintf("%.1f", window.Seconds())
	audioPath := filepath.Join(os.TempDir(), "goInterview-"+uuid.NewString()[:8]+".wav")

	audioCmd := exec.Command(c.config.FFmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-f", "alsa", "-i", c.config.AudioDevice,
		"-t", seconds,
		"-ac", "1", "-ar", fmt.Sprintf("%d", c.config.SampleRate),
		"-y", audioPath,
	)

	videoCmd := exec.Command(c.config.FFmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-f", "v4l2", "-i", c.config.VideoDevice,
		"-t", seconds,
		"-r", fmt.Sprintf("%d", c.config.FrameRate),
		"-f", "image2pipe", "-vcodec", "mjpeg", "-",
	)

	videoOut, err := videoCmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("capture: video stdout: %w", err)
	}

	if err := audioCmd.Start(); err != nil {
		return nil, fmt.Errorf("capture: starting audio recorder: %w", err)
	}

	if err := videoCmd.Start(); err != nil {
		audioCmd.Process.Kill()
		audioCmd.Wait()
		return nil, fmt.Errorf("capture: starting video recorder: %w", err)
	}

	s := &Stream{
		logger:    c.config.Logger,
		audioPath: audioPath,
		audioCmd:  audioCmd,
		videoCmd:  videoCmd,
		frames:    make(chan []byte, 16),
		done:      make(chan struct{}),
		audioDone: make(chan struct{}),
		videoDone: make(chan struct{}),
	}

	// Sole waiter for each command. Wait must not be called twice, and
	// the video wait has to happen after the pipe reader is finished, so
	// the frame scanner reaps its own process.
	go func() {
		s.scanFrames(videoOut)
		videoCmd.Wait()
		close(s.videoDone)
	}()

	go func() {
		audioCmd.Wait()
		close(s.audioDone)
	}()

	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()

	c.config.Logger.Infow("capture: open", "window", window.String(), "audio", audioPath)
	return s, nil
}

type Stream struct {
	logger    *zap.SugaredLogger
	audioPath string
	audioCmd  *exec.Cmd
	videoCmd  *exec.Cmd
	frames    chan []byte
	done      chan struct{}
	audioDone chan struct{}
	videoDone chan struct{}
	closeOnce sync.Once
}

// Frames returns the channel of JPEG frames. It is closed when the
// window elapses or the stream is closed early.
func (s *Stream) Frames() <-chan []byte {
	return s.frames
}

// Audio waits for the audio recorder to finish writing and returns the
// WAV payload. The temporary file is removed afterwards.
func (s *Stream) Audio() ([]byte, error) {
	select {
	case <-s.audioDone:
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("capture: audio recorder did not finish")
	}

	data, err := os.ReadFile(s.audioPath)
	os.Remove(s.audioPath)
	if err != nil {
		return nil, fmt.Errorf("capture: reading audio file: %w", err)
	}
	return data, nil
}

// Close stops both recorders. Safe to call at any time, any number of
// times. ffmpeg finalizes the WAV header on interrupt, so an early stop
// still yields a readable partial recording.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		interrupt(s.audioCmd)
		interrupt(s.videoCmd)
		awaitOrKill(s.audioCmd, s.audioDone)
		awaitOrKill(s.videoCmd, s.videoDone)
		if s.logger != nil {
			s.logger.Infow("capture: closed")
		}
	})
	return nil
}

func interrupt(cmd *exec.Cmd) {
	if cmd.Process != nil {
		cmd.Process.Signal(os.Interrupt)
	}
}

// awaitOrKill blocks on the command's dedicated waiter instead of
// calling Wait itself; each command has exactly one Wait caller.
func awaitOrKill(cmd *exec.Cmd, reaped <-chan struct{}) {
	select {
	case <-reaped:
	case <-time.After(3 * time.Second):
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		<-reaped
	}
}

// scanFrames splits the MJPEG byte stream on SOI/EOI markers and pushes
// complete frames until the pipe drains.
func (s *Stream) scanFrames(r io.Reader) {
	defer close(s.frames)

	var buf []byte
	tmp := make([]byte, 32*1024)

	for {
		n, err := r.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)

			for {
				start := bytes.Index(buf, jpegSOI)
				if start < 0 {
					buf = nil
					break
				}

				end := bytes.Index(buf[start+2:], jpegEOI)
				if end < 0 {
					buf = buf[start:]
					break
				}

				frameEnd := start + 2 + end + 2
				frame := make([]byte, frameEnd-start)
				copy(frame, buf[start:frameEnd])
				buf = buf[frameEnd:]

				select {
				case s.frames <- frame:
				case <-s.done:
					return
				}
			}
		}
		if err != nil {
			return
		}
	}
}
