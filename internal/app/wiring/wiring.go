// Package wiring assembles repositories, services and event handlers. The
// same assembly backs the server and the choreography tests.
package wiring

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"pubhub/internal/domain"
	"pubhub/internal/domain/catalogue"
	"pubhub/internal/domain/donation"
	"pubhub/internal/domain/eventlog"
	"pubhub/internal/domain/notification"
	"pubhub/internal/domain/publication"
	"pubhub/internal/domain/reports"
	"pubhub/internal/domain/user"
	"pubhub/internal/infrastructure/db/memory"
	"pubhub/internal/infrastructure/db/pg"
)

// Handler names recorded in the acknowledgment ledger. Renaming one makes
// recovery treat every logged event as unhandled for it.
const (
	NotifierName = "notification.notifier"
	RevenueName  = "reports.revenue"
)

type Repos struct {
	UoW           domain.UnitOfWork
	Users         user.Repository
	Publications  publication.Repository
	Donations     donation.Repository
	Catalogue     catalogue.Repository
	Notifications notification.Repository
	Revenue       reports.Repository
	Events        eventlog.Repository
}

func PostgresRepos(db *sql.DB) Repos {
	return Repos{
		UoW:           pg.NewTxManager(db),
		Users:         pg.NewUserRepository(db),
		Publications:  pg.NewPublicationRepository(db),
		Donations:     pg.NewDonationRepository(db),
		Catalogue:     pg.NewCatalogueRepository(db),
		Notifications: pg.NewNotificationRepository(db),
		Revenue:       pg.NewRevenueRepository(db),
		Events:        pg.NewEventLogRepository(db),
	}
}

func MemoryRepos() Repos {
	return Repos{
		UoW:           memory.NewTxManager(),
		Users:         memory.NewUserRepository(),
		Publications:  memory.NewPublicationRepository(),
		Donations:     memory.NewDonationRepository(),
		Catalogue:     memory.NewCatalogueRepository(),
		Notifications: memory.NewNotificationRepository(),
		Revenue:       memory.NewRevenueRepository(),
		Events:        memory.NewEventLogRepository(),
	}
}

type Services struct {
	Users         user.Service
	Publications  publication.Service
	Donations     donation.Service
	Catalogue     catalogue.Service
	Notifications notification.Service
	Reports       reports.Service
	Events        eventlog.Service
}

func NewServices(r Repos, events domain.EventPublisher, log *zap.Logger) Services {
	return Services{
		Users:         user.NewService(r.UoW, r.Users, events, log),
		Publications:  publication.NewService(r.UoW, r.Publications, r.Users, events, log),
		Donations:     donation.NewService(r.UoW, r.Donations, r.Users, r.Events, events, log),
		Catalogue:     catalogue.NewService(r.Catalogue),
		Notifications: notification.NewService(r.Notifications),
		Reports:       reports.NewService(r.Revenue),
		Events:        eventlog.NewService(r.Events),
	}
}

// Handlers returns the subscribers in the order the bus must invoke them.
// The auditor comes first so the log holds an event before anything reacts
// to it.
func Handlers(r Repos, deliverer notification.Deliverer, log *zap.Logger) []domain.EventHandler {
	notifier := notification.NewNotifier(r.Notifications, r.Users, r.Publications, deliverer, log)
	revenue := reports.NewRevenueProjector(r.Revenue, r.Donations)

	return []domain.EventHandler{
		eventlog.NewAuditor(r.Events),
		catalogue.NewAuthorProjector(r.Catalogue, r.Users, r.Publications),
		catalogue.NewPublicationProjector(r.Catalogue, r.Publications),
		eventlog.Acknowledging(NotifierName, notifier, r.Events),
		eventlog.Acknowledging(RevenueName, revenue, r.Events),
	}
}

func Subscribe(bus domain.EventSubscriber, handlers []domain.EventHandler) error {
	for _, h := range handlers {
		if err := bus.Subscribe(h); err != nil {
			return err
		}
	}
	return nil
}

// NewRecoverer replays logged events the acknowledging handlers missed.
func NewRecoverer(r Repos, events domain.EventPublisher, window time.Duration, log *zap.Logger) *eventlog.Recoverer {
	return eventlog.NewRecoverer(r.Events, events, window, log, NotifierName, RevenueName)
}
