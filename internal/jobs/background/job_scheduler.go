package background

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"comanda/internal/repositories"
	"comanda/internal/services"
)

const (
	cartaWarmInterval = 10 * time.Minute
	eventosPurgeEvery = 24 * time.Hour
	eventosRetention  = 30 * 24 * time.Hour
)

// JobScheduler runs the periodic maintenance work: re-priming the carta
// cache and trimming the eventos audit trail.
type JobScheduler struct {
	scheduler gocron.Scheduler
	menuSvc   services.MenuService
	eventRepo repositories.EventLogRepository
}

func NewJobScheduler(menuSvc services.MenuService, eventRepo repositories.EventLogRepository) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		menuSvc:   menuSvc,
		eventRepo: eventRepo,
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(cartaWarmInterval),
		gocron.NewTask(js.warmCartaCache),
		gocron.WithName("carta-cache-warm"),
	)
	if err != nil {
		return err
	}

	_, err = js.scheduler.NewJob(
		gocron.DurationJob(eventosPurgeEvery),
		gocron.NewTask(js.purgeEventos),
		gocron.WithName("eventos-purge"),
	)
	return err
}

// warmCartaCache reads the carta through the service, which re-primes the
// cache as a side effect.
func (js *JobScheduler) warmCartaCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := js.menuSvc.List(ctx); err != nil {
		log.Printf("carta cache warm failed: %v", err)
	}
}

func (js *JobScheduler) purgeEventos() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	purged, err := js.eventRepo.PurgeOlderThan(ctx, time.Now().Add(-eventosRetention))
	if err != nil {
		log.Printf("eventos purge failed: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("eventos purge removed %d rows", purged)
	}
}
