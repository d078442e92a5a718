package router

import (
	"github.com/labstack/echo/v4"

	"github.com/tomabrook/cheese-ledger/internal/handler"
	"github.com/tomabrook/cheese-ledger/internal/middleware"
)

// RegisterQuality wires quality test, test result and certified
// tester endpoints.  Only TESTER accounts may record results; the
// handler additionally requires a certified, active tester profile.
func RegisterQuality(e *echo.Echo, q *handler.QualityHandler, jwtSecret string) {
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	auth.GET("/quality-tests/:id", q.GetQualityTest)
	auth.GET("/quality-tests/:id/result", q.GetTestResult)
	auth.GET("/testers/:id", q.GetTester)

	requester := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("PRODUCER", "OWNER"))
	requester.POST("/quality-tests", q.RegisterQualityTest)
	requester.POST("/testers", q.RegisterTester)
	requester.PATCH("/testers/:id/certify", q.CertifyTester)
	requester.PATCH("/testers/:id/active", q.SetTesterStatus)

	tester := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("TESTER"))
	tester.POST("/quality-tests/:id/results", q.RecordTestResults)
}
