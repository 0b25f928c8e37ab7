package optimizer

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MarketRefreshScheduler periodically warms the market-rate cache for every
// whitelisted base currency, so request-time comparisons mostly hit the
// cache instead of the external feed.
type MarketRefreshScheduler struct {
	market   *MarketComparator
	interval time.Duration
	// -----
	sched gocron.Scheduler
}

func NewMarketRefreshScheduler(market *MarketComparator, interval time.Duration) *MarketRefreshScheduler {
	return &MarketRefreshScheduler{market: market, interval: interval}
}

func (s *MarketRefreshScheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = scheduler

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		tables := s.market.FetchAllRates(jobCtx)
		logrus.Infof("Market rate refresh %s warmed %d/%d base currencies",
			execID, len(tables), len(s.market.SupportedCurrencies()))
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Market refresh scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *MarketRefreshScheduler) Shutdown() error {
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}
