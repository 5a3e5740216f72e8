package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/comalice/countlesson/internal/lesson"
	"github.com/comalice/countlesson/internal/narration"
	"github.com/comalice/countlesson/internal/production"
	"github.com/comalice/countlesson/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the lesson in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runLesson,
}

func runLesson(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scene := tui.NewScene()
	var voice narration.Narrator = narration.SilentNarrator{}
	if cfg.Narration.Enabled {
		voice = tui.NewSubtitles(scene, cfg.Narration.WordsPerMinute, cfg.GetMinHold())
	}

	events := make(chan production.PublishedEvent, 64)
	publisher := production.NewChannelPublisher(events)

	opts := []lesson.Option{
		lesson.WithLogger(logger.Named("lesson")),
		lesson.WithPublisher(publisher),
		lesson.WithContext(ctx),
	}
	if cfg.Seed != 0 {
		opts = append(opts, lesson.WithRand(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))))
	}

	l, err := lesson.New(cfg.ToLesson(), lesson.Host{
		Renderer: scene,
		Panel:    scene,
		Input:    scene,
		Narrator: voice,
	}, opts...)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	logger.Info("lesson starting",
		zap.Int("length", cfg.Lesson.Length),
		zap.Bool("narration", cfg.Narration.Enabled),
		zap.Uint64("seed", cfg.Seed))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return production.LogTransitions(gctx, events, logger.Named("phases"))
	})
	g.Go(func() error {
		defer publisher.Close()
		defer l.Close()

		model := tui.NewModel(scene, l, tui.WithModelLogger(logger.Named("tui")))
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))
		if _, err := p.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("terminal program: %w", err)
		}
		return nil
	})

	err = g.Wait()
	logger.Info("lesson finished",
		zap.Stringer("phase", l.State().Phase),
		zap.String("state", l.Chart().Current()),
		zap.Error(err))
	return err
}
