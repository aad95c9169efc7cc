package catalog

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"chinguetti/internal/statics"
	"chinguetti/internal/upstream"
	"chinguetti/pkg/models"
)

// ErrNotFound is returned when an entry exists in neither the live API nor
// the fallback data. Detail pages treat it as a normal outcome.
var ErrNotFound = upstream.ErrNotFound

// Snapshot is an optional local copy of the catalog (see internal/snapshot).
// When present it is preferred over the compiled-in samples as fallback.
type Snapshot interface {
	Entries(ctx context.Context) ([]models.Entry, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Subcategories(ctx context.Context) ([]models.Subcategory, error)
	Kinds(ctx context.Context) ([]models.Kind, error)
	Entry(ctx context.Context, id int) (*models.Entry, error)
}

// Service pairs each upstream read with a deterministic fallback. The
// subcategory list, read by every listing card, is additionally cached
// behind a single-flight group with a TTL instead of the unbounded
// process-lifetime cache the original pages relied on.
type Service struct {
	client  *upstream.Client
	snap    Snapshot
	timeout time.Duration

	now    func() time.Time
	subTTL time.Duration

	sf         singleflight.Group
	mu         sync.Mutex
	subCache   []models.Subcategory
	subFetched time.Time
	subGen     uint64
}

type Option func(*Service)

// WithSnapshot points the fallback path at a local snapshot store.
func WithSnapshot(s Snapshot) Option {
	return func(svc *Service) { svc.snap = s }
}

// WithClock injects the clock used for the subcategory cache TTL.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// WithSubcategoryTTL overrides how long the cached subcategory list is
// considered fresh.
func WithSubcategoryTTL(ttl time.Duration) Option {
	return func(svc *Service) { svc.subTTL = ttl }
}

func NewService(client *upstream.Client, timeout time.Duration, opts ...Option) *Service {
	svc := &Service{
		client:  client,
		timeout: timeout,
		now:     time.Now,
		subTTL:  10 * time.Minute,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Categories shares one fetch among concurrent callers; every page load
// asks for the category list, so a burst must not fan out upstream.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	v, err, _ := s.sf.Do("categories", func() (any, error) {
		cats, _, err := withFallback(ctx, s.timeout, "categories",
			s.client.Categories,
			func() ([]models.Category, error) {
				if s.snap != nil {
					if cats, err := s.snap.Categories(context.Background()); err == nil && len(cats) > 0 {
						return cats, nil
					}
				}
				return statics.Categories(), nil
			})
		if err != nil {
			return nil, err
		}
		return cats, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Category), nil
}

// Subcategories serves from the TTL cache when fresh; otherwise one flight
// fetches for all concurrent callers.
func (s *Service) Subcategories(ctx context.Context) ([]models.Subcategory, error) {
	s.mu.Lock()
	if s.subCache != nil && s.now().Sub(s.subFetched) < s.subTTL {
		cached := s.subCache
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	v, err, _ := s.sf.Do("subcategories", func() (any, error) {
		s.mu.Lock()
		gen := s.subGen
		s.mu.Unlock()

		subs, _, err := withFallback(ctx, s.timeout, "subcategories",
			s.client.Subcategories,
			func() ([]models.Subcategory, error) {
				if s.snap != nil {
					if subs, err := s.snap.Subcategories(context.Background()); err == nil && len(subs) > 0 {
						return subs, nil
					}
				}
				return statics.Subcategories(), nil
			})
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		// an invalidation that landed mid-flight wins: the fetched list
		// predates the mutation and must not be cached
		if s.subGen == gen {
			s.subCache = subs
			s.subFetched = s.now()
		}
		s.mu.Unlock()
		return subs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Subcategory), nil
}

func (s *Service) Kinds(ctx context.Context) ([]models.Kind, error) {
	kinds, _, err := withFallback(ctx, s.timeout, "kinds",
		s.client.Kinds,
		func() ([]models.Kind, error) {
			if s.snap != nil {
				if kinds, err := s.snap.Kinds(context.Background()); err == nil && len(kinds) > 0 {
					return kinds, nil
				}
			}
			return statics.Kinds, nil
		})
	return kinds, err
}

// Entries lists entries matching the filter. The live path walks every
// server page of the unfiltered set and filters here, matching how the
// listing pages always behaved; the fallback path filters the bundled
// samples the same way.
func (s *Service) Entries(ctx context.Context, f Filter) ([]models.Entry, error) {
	entries, _, err := withFallback(ctx, s.timeout, "entries",
		func(ctx context.Context) ([]models.Entry, error) {
			return s.client.AllEntries(ctx, upstream.EntryQuery{})
		},
		s.fallbackEntries)
	if err != nil {
		return nil, err
	}
	return filterEntries(entries, f), nil
}

// EntriesPage asks the server for one page directly; nothing is sliced
// client-side on the live path. The fallback slices the bundled samples to
// the same envelope shape.
func (s *Service) EntriesPage(ctx context.Context, f Filter, page, limit int) (upstream.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	f.Subcategory = s.resolveSubcategory(ctx, f.Subcategory)

	p, _, err := withFallback(ctx, s.timeout, "entries page",
		func(ctx context.Context) (upstream.Page, error) {
			return s.client.EntriesPage(ctx, f.query(), page, limit)
		},
		func() (upstream.Page, error) {
			all, err := s.fallbackEntries()
			if err != nil {
				return upstream.Page{}, err
			}
			matched := filterEntries(all, f)
			return upstream.Page{
				Count:   len(matched),
				Results: pageSlice(matched, page, limit),
			}, nil
		})
	return p, err
}

// Entry fetches one entry by id, falling back to the bundled samples. A
// miss in both sources is ErrNotFound.
func (s *Service) Entry(ctx context.Context, id int) (*models.Entry, error) {
	e, _, err := withFallback(ctx, s.timeout, "entry",
		func(ctx context.Context) (*models.Entry, error) {
			return s.client.Entry(ctx, id)
		},
		func() (*models.Entry, error) {
			if s.snap != nil {
				if e, err := s.snap.Entry(context.Background(), id); err == nil && e != nil {
					return e, nil
				}
			}
			if e := statics.EntryByID(id); e != nil {
				return e, nil
			}
			return nil, ErrNotFound
		})
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

// Search queries the live search endpoint, degrading to a case-insensitive
// substring match over the bundled samples.
func (s *Service) Search(ctx context.Context, term string) ([]models.Entry, error) {
	entries, _, err := withFallback(ctx, s.timeout, "search",
		func(ctx context.Context) ([]models.Entry, error) {
			return s.client.Search(ctx, term)
		},
		func() ([]models.Entry, error) {
			all, err := s.fallbackEntries()
			if err != nil {
				return nil, err
			}
			return searchLocal(all, term), nil
		})
	return entries, err
}

// resolveSubcategory maps a slug or name filter to its numeric id through
// the cached subcategory list, so the upstream query can carry it. Numeric
// input and unknown values pass through unchanged.
func (s *Service) resolveSubcategory(ctx context.Context, val string) string {
	if val == "" {
		return val
	}
	if _, err := strconv.Atoi(val); err == nil {
		return val
	}
	subs, err := s.Subcategories(ctx)
	if err != nil {
		return val
	}
	for _, sub := range subs {
		if sub.Slug == val || sub.Name == val {
			return strconv.Itoa(sub.ID)
		}
	}
	return val
}

func (s *Service) fallbackEntries() ([]models.Entry, error) {
	if s.snap != nil {
		if entries, err := s.snap.Entries(context.Background()); err == nil && len(entries) > 0 {
			return entries, nil
		}
	}
	return statics.AllEntries(), nil
}

// InvalidateSubcategories drops the cached subcategory list; the next call
// refetches. Bumping the generation also discards any fetch already in
// flight, whose result predates the mutation.
func (s *Service) InvalidateSubcategories() {
	s.mu.Lock()
	s.subCache = nil
	s.subFetched = time.Time{}
	s.subGen++
	s.mu.Unlock()
	s.sf.Forget("subcategories")
}

var errStale = errors.New("stale search result")

// IsStale reports whether an error from a SearchSession means the result
// was superseded by a newer query and should simply be dropped.
func IsStale(err error) bool {
	return errors.Is(err, errStale)
}
