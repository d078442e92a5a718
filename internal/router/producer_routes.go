package router

import (
	"github.com/labstack/echo/v4"

	"github.com/tomabrook/cheese-ledger/internal/handler"
	"github.com/tomabrook/cheese-ledger/internal/middleware"
)

// RegisterProducer wires producer, cheese variety and milk source
// endpoints.  Mutations require the PRODUCER role; the handlers then
// check the record's registering authority.
func RegisterProducer(e *echo.Echo, p *handler.ProducerHandler, jwtSecret string) {
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	auth.GET("/producers/:id", p.GetProducer)
	auth.GET("/producers/:id/varieties", p.ListProducerVarieties)
	auth.GET("/varieties/:id", p.GetVariety)
	auth.GET("/milk-sources/:id", p.GetMilkSource)

	producer := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("PRODUCER"))
	producer.POST("/producers", p.RegisterProducer)
	producer.PUT("/producers/:id", p.UpdateProducer)
	producer.PATCH("/producers/:id/active", p.SetProducerStatus)
	producer.POST("/producers/:id/varieties", p.RegisterVariety)
	producer.POST("/producers/:id/milk-sources", p.RegisterMilkSource)
}
