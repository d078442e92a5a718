package router

import (
	"github.com/labstack/echo/v4"

	"github.com/tomabrook/cheese-ledger/internal/handler"
	"github.com/tomabrook/cheese-ledger/internal/middleware"
)

// RegisterFacility wires the facility and slot endpoints.  Reads are
// open to any authenticated role; mutations require OWNER.  The
// engine additionally enforces that the caller owns the facility.
func RegisterFacility(e *echo.Echo, f *handler.FacilityHandler, jwtSecret string) {
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	auth.GET("/facilities/:id", f.GetFacility)
	auth.GET("/facilities/:id/slots", f.ListSlots)
	auth.GET("/facilities/:id/slots/:slot_id", f.GetSlot)

	owner := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("OWNER"))
	owner.POST("/facilities", f.RegisterFacility)
	owner.PATCH("/facilities/:id/active", f.SetFacilityActive)
	owner.POST("/facilities/:id/slots", f.AddSlot)
	owner.PATCH("/facilities/:id/slots/:slot_id/available", f.SetSlotAvailable)
}
