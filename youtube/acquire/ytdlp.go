package acquire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kokiebisu/sonus/youtube/types"
)

const (
	killGracePeriod = 5 * time.Second
	maxStderrLog    = 2048
	videoFormat     = "bv*[ext=mp4]+ba[ext=m4a]/b[ext=mp4]/b"
)

func (a *Acquirer) args(task types.Task) []string {
	out := filepath.Join(task.DestinationDir, task.FileName+".%(ext)s")

	args := []string{
		"--no-playlist",
		"--no-progress",
		"--quiet",
		"--no-warnings",
		"-o", out,
	}
	if !a.skipExisting {
		args = append(args, "--force-overwrites")
	}

	switch task.Mode {
	case types.ModeVideo:
		args = append(args, "-f", videoFormat, "--merge-output-format", types.ModeVideo.Ext())
	case types.ModeMusic:
		args = append(args, "-x", "--audio-format", types.ModeMusic.Ext(), "--audio-quality", "0")
	default:
		panic("unexpected mode: " + string(task.Mode))
	}

	return append(args, task.SourceURL)
}

func (a *Acquirer) download(ctx context.Context, logger zerolog.Logger, task types.Task) error {
	cmd := exec.CommandContext(ctx, a.conf.Binary, a.args(task)...)
	logger.Debug().Strs("args", cmd.Args).Msg("Starting yt-dlp command")

	// Setpgid lets cancellation reach the ffmpeg children yt-dlp spawns.
	// Only works on Unix.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true} //nolint:exhaustruct
	cmd.Cancel = func() error {
		p := cmd.Process
		if nil == p {
			return nil
		}

		return syscall.Kill(-p.Pid, syscall.SIGTERM)
	}
	cmd.WaitDelay = killGracePeriod

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); nil != err {
		if ctxErr := ctx.Err(); nil != ctxErr {
			return fmt.Errorf("%s interrupted: %w", a.conf.Binary, ctxErr)
		}

		msg := strings.TrimSpace(stderr.String())
		if len(msg) > maxStderrLog {
			msg = msg[len(msg)-maxStderrLog:]
		}
		logger.Error().Err(err).Str("stderr", msg).Msg("yt-dlp command failed")

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with code %d: %s", a.conf.Binary, exitErr.ExitCode(), lastLine(msg))
		}

		return fmt.Errorf("failed to run %s: %w", a.conf.Binary, err)
	}

	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}

	return s
}
