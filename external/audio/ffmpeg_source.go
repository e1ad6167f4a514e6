package audio

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/foxseedlab/jukebox/internal/audio"
	"github.com/foxseedlab/jukebox/internal/resolver"
)

// FFmpegSource transcodes whatever the locator points at into raw PCM.
type FFmpegSource struct {
	path    string
	locator resolver.StreamLocator
}

func NewFFmpegSource(path string, locator resolver.StreamLocator) *FFmpegSource {
	return &FFmpegSource{path: path, locator: locator}
}

func (s *FFmpegSource) Open(ctx context.Context, track *audio.Track) (io.ReadCloser, error) {
	input, err := s.locator.Locate(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("failed to locate stream: %w", err)
	}
	cmd := exec.CommandContext(ctx, s.path, ffmpegArgs(input)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	return &processReader{ReadCloser: stdout, cmd: cmd}, nil
}

func ffmpegArgs(input string) []string {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		args = append(args, "-reconnect", "1", "-reconnect_streamed", "1", "-reconnect_delay_max", "5")
	}
	return append(args,
		"-i", input,
		"-vn",
		"-f", "s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"pipe:1",
	)
}

type processReader struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (r *processReader) Close() error {
	_ = r.ReadCloser.Close()
	if r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
	_ = r.cmd.Wait()
	return nil
}
