package ytsearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"youtube_trend_collector/config"
	"youtube_trend_collector/internal/domain"
	"youtube_trend_collector/internal/logger"
)

// Service runs keyword searches through the yt-dlp binary and parses its
// one-JSON-record-per-line output.
type Service struct {
	binPath   string
	maxBuffer int
	now       func() time.Time
}

// NewService creates a new search service. The binary is resolved lazily;
// a missing binary surfaces as ErrToolNotInstalled on Available or Search,
// not here, so deployments can be preflighted explicitly.
func NewService(cfg *config.Config) *Service {
	bin := "yt-dlp"
	maxBuffer := 0
	if cfg != nil {
		if cfg.YtDlpPath != "" {
			bin = cfg.YtDlpPath
		}
		maxBuffer = cfg.ParserMaxBuffer
	}
	return &Service{
		binPath:   bin,
		maxBuffer: maxBuffer,
		now:       time.Now,
	}
}

// Available reports whether the yt-dlp binary can be spawned.
func (s *Service) Available() error {
	// A path with separators is checked directly; a bare name goes through PATH.
	if strings.ContainsAny(s.binPath, `/\`) {
		info, err := os.Stat(filepath.Clean(s.binPath))
		if err != nil || info.IsDir() {
			return fmt.Errorf("%w: %s", domain.ErrToolNotInstalled, s.binPath)
		}
		return nil
	}
	if _, err := exec.LookPath(s.binPath); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrToolNotInstalled, s.binPath)
	}
	return nil
}

// Search spawns yt-dlp for one keyword, drains its stdout through the
// stream parser until the process exits, and classifies the outcome.
// A nonzero exit with at least one parsed record is still a success with
// the partial set: the tool's exit status is not trusted over observed
// output.
func (s *Service) Search(ctx context.Context, opts domain.SearchOptions) ([]domain.RawVideo, error) {
	args := buildArgs(opts, s.now())

	cmd := exec.CommandContext(ctx, s.binPath, args...)
	// stderr is progress noise and warnings; never parsed for control flow.
	cmd.Stderr = io.Discard

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open stdout pipe: %w", err)
	}

	var records []domain.RawVideo
	parser := NewStreamParser(s.maxBuffer,
		func(raw domain.RawVideo) {
			records = append(records, raw)
		},
		func(line []byte, err error) {
			logger.Error().Printf("skipping undecodable search output line for %q: %v", opts.Keyword, err)
		},
	)

	if err := cmd.Start(); err != nil {
		return nil, translateStartError(err, s.binPath)
	}

	readErr := drain(stdout, parser)
	waitErr := cmd.Wait()

	if readErr != nil {
		logger.Error().Printf("reading search output for %q: %v", opts.Keyword, readErr)
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return finalizeOutcome(records, exitErr.ExitCode(), opts.Keyword)
		}
		return nil, fmt.Errorf("wait for %s: %w", s.binPath, waitErr)
	}
	return finalizeOutcome(records, 0, opts.Keyword)
}

// buildArgs assembles the yt-dlp argument list: a combined count+keyword
// search directive, NDJSON output, and an optional recency filter.
// MaxAgeDays takes precedence over the named recency window.
func buildArgs(opts domain.SearchOptions, now time.Time) []string {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	args := []string{
		fmt.Sprintf("ytsearch%d:%s", limit, opts.Keyword),
		"--dump-json",
		"--no-warnings",
	}

	switch {
	case opts.MaxAgeDays > 0:
		cutoff := now.AddDate(0, 0, -opts.MaxAgeDays).Format("20060102")
		args = append(args, "--dateafter", cutoff)
	case opts.RecencyWindow != "":
		if token, ok := recencyToken(opts.RecencyWindow); ok {
			args = append(args, "--dateafter", token)
		} else {
			logger.Error().Printf("unknown recency window %q; searching without a date filter", opts.RecencyWindow)
		}
	}

	return args
}

// recencyToken maps a named recency bucket to yt-dlp's relative-date token.
func recencyToken(window string) (string, bool) {
	switch strings.ToLower(window) {
	case "today":
		return "now-1day", true
	case "week":
		return "now-1week", true
	case "month":
		return "now-1month", true
	default:
		return "", false
	}
}

// translateStartError maps the OS-level "binary not found" spawn error to
// ErrToolNotInstalled; anything else is a plain execution failure.
func translateStartError(err error, bin string) error {
	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrToolNotInstalled, bin)
	}
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrToolNotInstalled, bin)
	}
	return fmt.Errorf("start %s: %w", bin, err)
}

// finalizeOutcome classifies a finished invocation from its exit code and
// the records actually observed on stdout.
func finalizeOutcome(records []domain.RawVideo, exitCode int, keyword string) ([]domain.RawVideo, error) {
	if exitCode == 0 {
		return records, nil
	}
	if len(records) > 0 {
		logger.Info().Printf("search for %q exited with code %d after %d records; keeping partial set",
			keyword, exitCode, len(records))
		return records, nil
	}
	return nil, &domain.ToolExecutionError{ExitCode: exitCode}
}

// drain feeds the reader through the parser in chunks and flushes the
// parser when the stream ends.
func drain(r io.Reader, parser *StreamParser) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			parser.Write(buf[:n])
		}
		if err != nil {
			parser.Flush()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
