package router

import (
	"github.com/labstack/echo/v4"

	"github.com/tomabrook/cheese-ledger/internal/handler"
	"github.com/tomabrook/cheese-ledger/internal/middleware"
)

// RegisterBooking wires booking and environmental reading endpoints.
// Creating a booking is a PRODUCER operation; status changes are
// accepted from producers and facility owners, with the engine
// deciding whether the caller actually holds authority over the
// booking.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	auth.GET("/bookings/:id", b.GetBooking)
	auth.GET("/bookings/:id/readings", b.ListBookingReadings)
	auth.GET("/readings/:id", b.GetReading)
	auth.GET("/facilities/:id/slots/:slot_id/bookings", b.ListSlotBookings)
	auth.GET("/producers/:id/bookings", b.ListProducerBookings)

	producer := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("PRODUCER"))
	producer.POST("/bookings", b.CreateBooking)

	manage := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("PRODUCER", "OWNER"))
	manage.PATCH("/bookings/:id/status", b.UpdateBookingStatus)
	manage.POST("/bookings/:id/readings", b.RecordReading)
}
