package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pubhub/internal/domain/catalogue"
	"pubhub/internal/domain/donation"
	"pubhub/internal/domain/eventlog"
	"pubhub/internal/domain/notification"
	"pubhub/internal/domain/publication"
	"pubhub/internal/domain/reports"
	"pubhub/internal/domain/user"
)

type Handler struct {
	UserSvc         user.Service
	PublicationSvc  publication.Service
	DonationSvc     donation.Service
	CatalogueSvc    catalogue.Service
	NotificationSvc notification.Service
	ReportSvc       reports.Service
	EventSvc        eventlog.Service
	Log             *zap.Logger
}

func New(
	userSvc user.Service,
	publicationSvc publication.Service,
	donationSvc donation.Service,
	catalogueSvc catalogue.Service,
	notificationSvc notification.Service,
	reportSvc reports.Service,
	eventSvc eventlog.Service,
	log *zap.Logger,
) *Handler {
	return &Handler{
		UserSvc:         userSvc,
		PublicationSvc:  publicationSvc,
		DonationSvc:     donationSvc,
		CatalogueSvc:    catalogueSvc,
		NotificationSvc: notificationSvc,
		ReportSvc:       reportSvc,
		EventSvc:        eventSvc,
		Log:             log,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
