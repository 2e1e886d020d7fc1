package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"pubhub/internal/app/http/handler"
	"pubhub/internal/app/http/middleware"
)

func NewRouter(h *handler.Handler, log *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.ZapLogger(log),
		middleware.ZapRecovery(log),
	)

	r.GET("/health", h.Health)

	r.POST("/users/register", h.UserRegister)
	r.POST("/users/update", h.UserUpdate)
	r.POST("/users/follow", h.UserFollow)
	r.POST("/users/unfollow", h.UserUnfollow)
	r.POST("/users/deactivate", h.UserDeactivate)
	r.GET("/users/get", h.UserGet)

	r.POST("/publications/create", h.PublicationCreate)
	r.POST("/publications/update", h.PublicationUpdate)
	r.POST("/publications/publish", h.PublicationPublish)
	r.POST("/publications/like", h.PublicationLike)
	r.POST("/publications/unlike", h.PublicationUnlike)
	r.POST("/publications/read", h.PublicationRead)
	r.POST("/publications/review", h.PublicationReview)
	r.POST("/publications/delete", h.PublicationDelete)
	r.GET("/publications/get", h.PublicationGet)
	r.GET("/publications/list", h.PublicationList)

	r.POST("/donations/create", h.DonationCreate)
	r.POST("/donations/pay", h.DonationPay)
	r.POST("/donations/cancel", h.DonationCancel)
	r.GET("/donations/get", h.DonationGet)

	r.GET("/catalogue/author", h.CatalogueAuthor)
	r.GET("/catalogue/entry", h.CatalogueEntry)
	r.GET("/catalogue/entries", h.CatalogueEntries)

	r.GET("/notifications/list", h.NotificationList)
	r.POST("/notifications/read", h.NotificationRead)

	r.GET("/reports/revenue", h.ReportRevenue)

	r.GET("/events", h.EventList)

	return r
}

// Instrument wraps the router so every request starts a server span.
func Instrument(r *gin.Engine, service string) http.Handler {
	return otelhttp.NewHandler(r, service,
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return req.Method + " " + req.URL.Path
		}),
	)
}
