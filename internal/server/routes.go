package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"featreq/internal/db"
	"featreq/internal/featreq"
	"featreq/internal/handlers"
	"featreq/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(database *db.DB) {
	svc := featreq.New(database)

	requestHandler := handlers.NewRequestHandler(svc)
	clientHandler := handlers.NewClientHandler(svc)
	openReqHandler := handlers.NewOpenReqHandler(svc)
	closedReqHandler := handlers.NewClosedReqHandler(svc)
	healthHandler := handlers.NewHealthHandler(database)

	s.App.Use(middleware.Identity(s.Cfg))

	api := s.App.Group("/api")

	api.Get("/health", healthHandler.Check)

	api.Get("/req", requestHandler.List)
	api.Post("/req", requestHandler.Create)
	api.Get("/req/:id", requestHandler.Get)
	api.Post("/req/:id", requestHandler.Update)

	api.Get("/client", clientHandler.List)
	api.Post("/client", clientHandler.Create)
	api.Get("/client/:id", clientHandler.Get)
	api.Post("/client/:id", clientHandler.Update)

	api.Get("/open", openReqHandler.Counts)
	api.Post("/open", openReqHandler.Attach)
	api.Get("/open/:client_id", openReqHandler.ListByClient)
	api.Patch("/open/:id", openReqHandler.Update)

	api.Get("/closed", closedReqHandler.Counts)
	api.Post("/closed", closedReqHandler.Close)
	api.Get("/closed/:client_id", closedReqHandler.ListByClient)

	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
