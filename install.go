package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"hdlg/hdldump"
	"hdlg/logger"
	"hdlg/tui"
)

// lineStream is the part of *hdldump.Stream the installer consumes.
type lineStream interface {
	Scan() bool
	Text() string
	Wait() error
	Close() error
}

type injector interface {
	DiscInfo(ctx context.Context, path string) (hdldump.DiscMetadata, bool, error)
	Inject(ctx context.Context, target string, disc hdldump.DiscMetadata, label, path string) (lineStream, error)
}

type toolInjector struct{ *hdldump.Tool }

func (t toolInjector) Inject(ctx context.Context, target string, disc hdldump.DiscMetadata, label, path string) (lineStream, error) {
	return t.Tool.Inject(ctx, target, disc, label, path)
}

// progressSink shows install progress, full-screen or as plain lines.
type progressSink interface {
	Begin(i int, image string, disc hdldump.DiscMetadata)
	Progress(p hdldump.Progress)
	Finish(i int, state int, msg string)
}

var errNotPS2 = errors.New("not a PS2 disc image")

// installBatch installs images onto target one at a time. Failures are
// collected and returned together; with stopOnError the first one ends the
// batch. Cancelling ctx kills the running injection and ends the batch.
func installBatch(ctx context.Context, inj injector, target string, images []string, stopOnError bool, sink progressSink, log logger.Logger) (installed int, err error) {
	var failures []error
	for i, image := range images {
		if err := ctx.Err(); err != nil {
			return installed, errors.Join(append(failures, err)...)
		}
		err := installOne(ctx, inj, target, i, image, sink, log)
		switch {
		case err == nil:
			installed++
			continue
		case errors.Is(err, errNotPS2):
			log.Warn("skipping image", "image", image, "reason", err)
			sink.Finish(i, tui.Skipped, err.Error())
			continue
		}
		sink.Finish(i, tui.Failed, err.Error())
		log.Error("install failed", "image", image, "error", err)
		failures = append(failures, fmt.Errorf("%s: %w", filepath.Base(image), err))
		if ctx.Err() != nil || stopOnError {
			break
		}
	}
	return installed, errors.Join(failures...)
}

func installOne(ctx context.Context, inj injector, target string, i int, image string, sink progressSink, log logger.Logger) error {
	disc, ok, err := inj.DiscInfo(ctx, image)
	if err != nil {
		return err
	}
	if !ok {
		return errNotPS2
	}
	sink.Begin(i, image, disc)

	label := hdldump.InstallLabel(image)
	log.Info("installing", "image", image, "game_id", disc.GameID, "label", label, "target", target)
	stream, err := inj.Inject(ctx, target, disc, label, image)
	if err != nil {
		return err
	}
	defer stream.Close()

	for stream.Scan() {
		p, err := hdldump.ParseProgress(stream.Text())
		if err != nil {
			log.Debug("ignoring hdl-dump output", "line", stream.Text())
			continue
		}
		sink.Progress(p)
	}
	if err := stream.Wait(); err != nil {
		return err
	}
	sink.Finish(i, tui.Done, fmt.Sprintf("installed %s (%s)", label, disc.GameID))
	return nil
}

// plainSink prints one line per event, redrawing the progress line in place.
type plainSink struct {
	w     io.Writer
	total int
}

func (s *plainSink) Begin(i int, image string, disc hdldump.DiscMetadata) {
	fmt.Fprintf(s.w, "[%d/%d] %s (%s)\n", i+1, s.total, filepath.Base(image), disc.GameID)
}

func (s *plainSink) Progress(p hdldump.Progress) {
	fmt.Fprintf(s.w, "\r  %6.2f%%", p.Percent)
	if p.Remaining != "" {
		fmt.Fprintf(s.w, "  %s  %s", p.Remaining, p.Speed)
	}
}

func (s *plainSink) Finish(i int, state int, msg string) {
	mark := map[int]string{tui.Done: "ok", tui.Failed: "FAILED", tui.Skipped: "skipped"}[state]
	fmt.Fprintf(s.w, "\r[%d/%d] %s: %s\n", i+1, s.total, mark, msg)
}

// screenSink drives the tcell progress screen.
type screenSink struct {
	s *tui.Screen
}

func newScreenSink(s *tui.Screen, target string, images []string) *screenSink {
	labels := make([]string, len(images))
	for i, img := range images {
		labels[i] = filepath.Base(img)
	}
	s.SetTitle(" hdlg install ")
	s.SetSummary("Target: "+target, "Q / Esc / Ctrl-C to stop")
	s.SetPhases(labels...)
	s.Draw()
	return &screenSink{s: s}
}

func (s *screenSink) Begin(i int, image string, disc hdldump.DiscMetadata) {
	s.s.SetPhaseState(i, tui.Running)
	s.s.SetProgress(0, "")
	s.s.AddStatus(fmt.Sprintf("Installing %s (%s)", filepath.Base(image), disc.GameID))
	s.s.Draw()
}

func (s *screenSink) Progress(p hdldump.Progress) {
	detail := p.Remaining
	if p.Speed != "" {
		detail += ", " + p.Speed
	}
	s.s.SetProgress(p.Percent, detail)
	s.s.Draw()
}

func (s *screenSink) Finish(i int, state int, msg string) {
	s.s.SetPhaseState(i, state)
	s.s.AddStatus(msg)
	s.s.Draw()
}
