package views

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"listing-radar/internal/aggregate"
	"listing-radar/internal/cache"
	"listing-radar/internal/filter"
	"listing-radar/internal/listing"
	"listing-radar/internal/metrics"
)

type Source interface {
	LoadAll(ctx context.Context) ([]listing.Listing, error)
}

// Options are the values offered in filter pickers.
type Options struct {
	Districts []string
	Rooms     []int
}

// Service answers view requests from the store, going through the cache.
type Service struct {
	source Source
	cache  cache.Cache
	logger *logrus.Logger
}

func NewService(source Source, c cache.Cache, logger *logrus.Logger) *Service {
	return &Service{source: source, cache: c, logger: logger}
}

func (s *Service) Views(ctx context.Context, spec filter.Spec) (aggregate.Views, error) {
	if cached, found := s.cache.GetCachedViews(spec); found {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	all, err := s.source.LoadAll(ctx)
	if err != nil {
		return aggregate.Views{}, err
	}

	views := aggregate.Compute(filter.Compute(spec, all))
	if err := s.cache.CacheViews(spec, views); err != nil {
		s.logger.WithError(err).Warn("Failed to cache views")
	}
	return views, nil
}

// Options lists the districts and room counts present in the store. Empty
// districts are left out.
func (s *Service) Options(ctx context.Context) (Options, error) {
	all, err := s.source.LoadAll(ctx)
	if err != nil {
		return Options{}, err
	}

	opts := Options{Districts: []string{}, Rooms: []int{}}
	for _, d := range aggregate.ByDistrict(all) {
		if d.District != "" {
			opts.Districts = append(opts.Districts, d.District)
		}
	}
	for _, r := range aggregate.ByRooms(all) {
		opts.Rooms = append(opts.Rooms, r.Rooms)
	}

	sort.Strings(opts.Districts)
	sort.Ints(opts.Rooms)
	return opts, nil
}

func (s *Service) Invalidate() error {
	return s.cache.Invalidate()
}
