package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/facelit/internal/config"
	"github.com/Faultbox/facelit/internal/logger"
	"github.com/Faultbox/facelit/internal/source"
)

// sources holds the inputs selected by configuration.
type sources struct {
	landmarks source.LandmarkSource
	frames    source.FrameSource

	feed     *source.Feed
	recorder *source.Recorder
}

// openSources picks the landmark and frame inputs:
// a replay or the live feed for landmarks, and a still image, the live
// feed or a black frame for video.
func openSources(ctx context.Context, cfg *config.Config) (*sources, error) {
	s := &sources{}
	w, h := cfg.Video.Width, cfg.Video.Height

	if cfg.Feed.Replay != "" {
		replay, err := source.LoadReplay(cfg.Feed.Replay)
		if err != nil {
			return nil, err
		}
		logger.Info("replaying landmarks",
			zap.String("path", cfg.Feed.Replay),
			zap.Int("entries", replay.Len()))
		s.landmarks = replay
	} else {
		if cfg.Feed.Record != "" {
			rec, err := source.NewRecorder(cfg.Feed.Record)
			if err != nil {
				return nil, err
			}
			s.recorder = rec
			logger.Info("recording landmarks", zap.String("path", cfg.Feed.Record))
		}
		s.feed = source.NewFeed(source.FeedConfig{
			Listen:      cfg.Feed.Listen,
			Path:        cfg.Feed.Path,
			FrameWidth:  w,
			FrameHeight: h,
			Recorder:    s.recorder,
		})
		if err := s.feed.Start(ctx); err != nil {
			s.close()
			return nil, err
		}
		s.landmarks = s.feed
	}

	switch {
	case cfg.Video.StillImage != "":
		still, err := source.LoadStillFrame(cfg.Video.StillImage, w, h)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("still image: %w", err)
		}
		s.frames = still
	case s.feed != nil:
		s.frames = s.feed
	default:
		s.frames = source.BlankFrame(w, h)
	}
	return s, nil
}

func (s *sources) close() error {
	var errs []error
	if s.feed != nil {
		errs = append(errs, s.feed.Close())
	}
	if s.recorder != nil {
		errs = append(errs, s.recorder.Close())
	}
	return errors.Join(errs...)
}
