package prices

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultRefreshHour is the local hour after which next-day prices are expected to be available.
	DefaultRefreshHour = 14

	// DefaultFreshnessHorizon is the minimum lead the newest cached period must
	// keep ahead of the current hour before a refresh is considered unnecessary.
	DefaultFreshnessHorizon = 20 * time.Hour

	cacheUsedMessageConstant          = "using cached spot prices"
	cacheStaleMessageConstant         = "cached spot prices are stale"
	cacheUnavailableMessageConstant   = "price cache unavailable"
	cacheRefreshedMessageConstant     = "refreshed price cache"
	logFieldCachePathConstant         = "cache_path"
	logFieldCacheErrorConstant        = "cache_error"
	logFieldNewestPeriodStartConstant = "newest_period_start"
)

// Fetcher retrieves the latest price sheet together with its raw payload.
type Fetcher interface {
	FetchLatestPrices(executionContext context.Context) (PriceSheet, []byte, error)
}

// Store reads and writes the persisted price payload.
type Store interface {
	Path() string
	Read() (PriceSheet, error)
	Write(payloadBytes []byte) error
}

// Clock supplies the current time; injectable for deterministic tests.
type Clock func() time.Time

// Service resolves the price sheet for a publication run, consulting the
// network only when the cache is unusable or has gone stale.
type Service struct {
	fetcher          Fetcher
	store            Store
	clock            Clock
	location         *time.Location
	refreshHour      int
	freshnessHorizon time.Duration
	logger           *zap.Logger
}

// ServiceOptions configures a price resolution service.
type ServiceOptions struct {
	Fetcher          Fetcher
	Store            Store
	Clock            Clock
	Location         *time.Location
	RefreshHour      int
	FreshnessHorizon time.Duration
	Logger           *zap.Logger
}

// NewService constructs a Service, applying defaults for unset options.
func NewService(options ServiceOptions) *Service {
	resolvedClock := options.Clock
	if resolvedClock == nil {
		resolvedClock = time.Now
	}
	resolvedLocation := options.Location
	if resolvedLocation == nil {
		resolvedLocation = time.UTC
	}
	resolvedRefreshHour := options.RefreshHour
	if resolvedRefreshHour <= 0 {
		resolvedRefreshHour = DefaultRefreshHour
	}
	resolvedHorizon := options.FreshnessHorizon
	if resolvedHorizon <= 0 {
		resolvedHorizon = DefaultFreshnessHorizon
	}
	resolvedLogger := options.Logger
	if resolvedLogger == nil {
		resolvedLogger = zap.NewNop()
	}

	return &Service{
		fetcher:          options.Fetcher,
		store:            options.Store,
		clock:            resolvedClock,
		location:         resolvedLocation,
		refreshHour:      resolvedRefreshHour,
		freshnessHorizon: resolvedHorizon,
		logger:           resolvedLogger,
	}
}

// ReferenceTime reports the current local time truncated to the hour.
func (service *Service) ReferenceTime() time.Time {
	localNow := service.clock().In(service.location)
	return time.Date(localNow.Year(), localNow.Month(), localNow.Day(), localNow.Hour(), 0, 0, 0, service.location)
}

// ResolvePrices returns a usable price sheet, refreshing the cache from the
// network when required or when forceRefresh is set.
func (service *Service) ResolvePrices(executionContext context.Context, forceRefresh bool) (PriceSheet, error) {
	referenceTime := service.ReferenceTime()

	if !forceRefresh {
		cachedSheet, cacheError := service.store.Read()
		if cacheError == nil {
			if !service.requiresRefresh(cachedSheet, referenceTime) {
				service.logger.Debug(cacheUsedMessageConstant, zap.String(logFieldCachePathConstant, service.store.Path()))
				return cachedSheet, nil
			}
			service.logger.Info(cacheStaleMessageConstant, zap.String(logFieldCachePathConstant, service.store.Path()))
		} else {
			service.logger.Info(
				cacheUnavailableMessageConstant,
				zap.String(logFieldCachePathConstant, service.store.Path()),
				zap.String(logFieldCacheErrorConstant, cacheError.Error()),
			)
		}
	}

	fetchedSheet, payloadBytes, fetchError := service.fetcher.FetchLatestPrices(executionContext)
	if fetchError != nil {
		return PriceSheet{}, fetchError
	}

	if writeError := service.store.Write(payloadBytes); writeError != nil {
		return PriceSheet{}, writeError
	}

	newestStart, _ := fetchedSheet.NewestStart()
	service.logger.Info(
		cacheRefreshedMessageConstant,
		zap.String(logFieldCachePathConstant, service.store.Path()),
		zap.Time(logFieldNewestPeriodStartConstant, newestStart),
	)

	return fetchedSheet, nil
}

// requiresRefresh applies the publication-window rule: once the local hour
// reaches the refresh hour, the newest cached period must start at least the
// freshness horizon after the current hour, otherwise next-day prices are due.
func (service *Service) requiresRefresh(cachedSheet PriceSheet, referenceTime time.Time) bool {
	newestStart, newestAvailable := cachedSheet.NewestStart()
	if !newestAvailable {
		return true
	}

	if referenceTime.Hour() < service.refreshHour {
		return false
	}

	return newestStart.Sub(referenceTime) < service.freshnessHorizon
}
