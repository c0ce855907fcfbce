package background

import (
	"context"
	"sync"
	"time"

	"tankbill/internal/caching"
	"tankbill/internal/repositories"
	"tankbill/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// JobScheduler manages recurring background jobs
type JobScheduler struct {
	scheduler       gocron.Scheduler
	subscriptionSvc services.SubscriptionServiceInterface
	cacheSvc        caching.CacheService
	tenantRepo      repositories.TenantRepository
	jobs            map[string]gocron.Job
	mu              sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(subscriptionSvc services.SubscriptionServiceInterface, cacheSvc caching.CacheService, tenantRepo repositories.TenantRepository) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}

	js := &JobScheduler{
		scheduler:       scheduler,
		subscriptionSvc: subscriptionSvc,
		cacheSvc:        cacheSvc,
		tenantRepo:      tenantRepo,
		jobs:            make(map[string]gocron.Job),
	}

	js.registerJobs()
	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Info().Msg("starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Subscription expiry sweep - hourly
	expiryJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.expireSubscriptions),
		gocron.WithName("subscription-expiry"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create subscription expiry job")
	} else {
		js.addJob("subscription-expiry", expiryJob)
	}

	// Stale projection cleanup - daily. Reconciliation caches have short
	// TTLs; this sweep only catches keys orphaned by tenant deletion.
	cacheJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.cleanStaleProjections),
		gocron.WithName("projection-cleanup"),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create projection cleanup job")
	} else {
		js.addJob("projection-cleanup", cacheJob)
	}
}

func (js *JobScheduler) addJob(name string, job gocron.Job) {
	js.mu.Lock()
	defer js.mu.Unlock()
	js.jobs[name] = job
}

func (js *JobScheduler) expireSubscriptions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := js.subscriptionSvc.ExpireEndedSubscriptions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("subscription expiry sweep failed")
		return
	}
	if count > 0 {
		log.Info().Int64("expired", count).Msg("marked ended subscriptions as expired")
	}
}

func (js *JobScheduler) cleanStaleProjections() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tenants, err := js.tenantRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Error().Err(err).Msg("projection cleanup failed to list tenants")
		return
	}

	for _, tenant := range tenants {
		if tenant.Status != "active" {
			if err := js.cacheSvc.InvalidateTenantCache(ctx, tenant.ID); err != nil {
				log.Error().Err(err).Str("tenant", tenant.ID.String()).Msg("failed to invalidate tenant cache")
			}
		}
	}
}
