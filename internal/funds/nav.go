package funds

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/domain"
)

// lookupConcurrency bounds the parallel upstream requests of LookupMany
const lookupConcurrency = 4

// NAVSource fetches the latest NAV of a scheme. *mfapi.Client satisfies it.
type NAVSource interface {
	LatestNAV(ctx context.Context, schemeCode string) (*domain.NAV, error)
}

// NAVService caches NAV lookups in memory for ttl
type NAVService struct {
	source NAVSource
	cache  *cache.Cache
	Logger calculation.Logger
}

// NewNAVService wraps source with a cache; a non-positive ttl defaults to six hours
func NewNAVService(source NAVSource, ttl time.Duration) *NAVService {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &NAVService{
		source: source,
		cache:  cache.New(ttl, 2*ttl),
		Logger: calculation.NopLogger{},
	}
}

// Lookup returns the cached NAV for schemeCode or fetches it
func (s *NAVService) Lookup(ctx context.Context, schemeCode string) (*domain.NAV, error) {
	if schemeCode == "" {
		return nil, domain.NewInvalidInput("nav_lookup", "scheme_code", "scheme code is required")
	}
	if cached, found := s.cache.Get(schemeCode); found {
		if nav, ok := cached.(domain.NAV); ok {
			s.Logger.Debugf("nav cache hit for %s", schemeCode)
			return &nav, nil
		}
	}

	nav, err := s.source.LatestNAV(ctx, schemeCode)
	if err != nil {
		s.Logger.Warnf("nav lookup for %s failed: %v", schemeCode, err)
		return nil, err
	}
	s.cache.Set(schemeCode, *nav, cache.DefaultExpiration)
	return nav, nil
}

// LookupResult is the outcome of one scheme in LookupMany
type LookupResult struct {
	Fund domain.Fund
	NAV  *domain.NAV
	Err  error
}

// LookupMany fetches the NAV of every fund with at most four requests in flight.
// Results keep the order of funds; a failed fund carries its error and does not
// abort the others. Funds not started before ctx is done get ctx.Err().
func (s *NAVService) LookupMany(ctx context.Context, funds []domain.Fund) []LookupResult {
	results := make([]LookupResult, len(funds))
	sem := make(chan struct{}, lookupConcurrency)
	var wg sync.WaitGroup

	for i, f := range funds {
		results[i].Fund = f
		if err := ctx.Err(); err != nil {
			results[i].Err = fmt.Errorf("nav lookup %s: %w", f.SchemeCode, err)
			continue
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i].Err = fmt.Errorf("nav lookup %s: %w", f.SchemeCode, ctx.Err())
			continue
		}
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i].NAV, results[i].Err = s.Lookup(ctx, code)
		}(i, f.SchemeCode)
	}

	wg.Wait()
	return results
}
