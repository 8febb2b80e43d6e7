package pipeline

import (
	"context"
	"log/slog"

	"ripple/internal/catalog"
	"ripple/internal/logging"
	"ripple/internal/scrape"
	"ripple/internal/services"
)

// DiscoveryOutcome records what one monitored target contributed.
type DiscoveryOutcome struct {
	Target    *catalog.Target
	Found     int
	Created   int
	Refreshed int
	Err       error
}

// Discoverer pulls recent videos for every monitored target and upserts
// them into the catalog. Re-discovered items only get their engagement
// counters refreshed; stage fields are never reset.
type Discoverer struct {
	store  *catalog.Store
	source ContentSource
	logger *slog.Logger
}

// NewDiscoverer constructs a discoverer over the given store and source.
func NewDiscoverer(store *catalog.Store, source ContentSource, logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Discoverer{store: store, source: source, logger: logger}
}

// Run discovers content for every monitored target under the tag (all
// targets when tag is empty). One target's scrape failure never aborts the
// others.
func (d *Discoverer) Run(ctx context.Context, tag string) ([]DiscoveryOutcome, error) {
	targets, err := d.store.Targets(ctx, tag)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "discover", "load targets", "", err)
	}
	if len(targets) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "discover", "load targets", "no monitored targets configured", nil)
	}

	outcomes := make([]DiscoveryOutcome, 0, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcome := d.runTarget(ctx, target)
		if outcome.Err != nil {
			d.logger.Warn("target discovery failed",
				logging.String("target", target.Value),
				logging.Error(outcome.Err))
		} else {
			d.logger.Info("target discovered",
				logging.String(logging.FieldEventType, "discovery"),
				logging.String("target", target.Value),
				logging.Int("found", outcome.Found),
				logging.Int("created", outcome.Created))
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (d *Discoverer) runTarget(ctx context.Context, target *catalog.Target) DiscoveryOutcome {
	outcome := DiscoveryOutcome{Target: target}

	var (
		videos []scrape.Video
		err    error
	)
	switch target.Type {
	case catalog.TargetUsername:
		videos, err = d.source.ProfileVideos(ctx, target.Value)
	case catalog.TargetHashtag:
		videos, err = d.source.HashtagVideos(ctx, target.Value)
	default:
		outcome.Err = services.Wrap(services.ErrValidation, "discover", "scrape target", "unknown target type "+string(target.Type), nil)
		return outcome
	}
	if err != nil {
		outcome.Err = services.Wrap(services.ErrExternalService, "discover", "scrape target", "", err)
		return outcome
	}

	outcome.Found = len(videos)
	for _, video := range videos {
		_, created, err := d.store.UpsertDiscovered(ctx, catalog.Discovered{
			ExternalID:  video.ExternalID,
			Author:      video.Author,
			SourceType:  string(target.Type),
			SourceValue: target.Value,
			Tag:         target.Tag,
			Description: video.Description,
			CoverURL:    video.CoverURL,
			PlayURL:     video.PlayURL,
			Stats: catalog.Stats{
				Diggs:    video.DiggCount,
				Comments: video.CommentCount,
				Plays:    video.PlayCount,
				Shares:   video.ShareCount,
			},
			PostedAt: video.PostedAt,
		})
		if err != nil {
			outcome.Err = services.Wrap(services.ErrExternalService, "discover", "persist item", "", err)
			return outcome
		}
		if created {
			outcome.Created++
		} else {
			outcome.Refreshed++
		}
	}
	return outcome
}
