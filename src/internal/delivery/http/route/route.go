package route

import (
	"earnings-service/src/internal/delivery/http"
	"earnings-service/src/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	App                *fiber.App
	WalletController   *http.WalletController
	RuleController     *http.RuleController
	EarningsController *http.EarningsController
	AuthMiddleware     fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewLogger())
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.SetupInternalRoute()
	c.SetupAuthRoute()
}

// SetupInternalRoute registers service-to-service endpoints. These sit on an
// internal network segment; gateway policy keeps them off the public edge.
func (c *RouteConfig) SetupInternalRoute() {
	c.App.Post("/internal/v1/trips/:tripId/settle", c.EarningsController.SettleTrip)
}

func (c *RouteConfig) SetupAuthRoute() {
	c.App.Use(c.AuthMiddleware)
	c.App.Get("/wallets/v1/summary", c.WalletController.GetSummary)
	c.App.Get("/wallets/v1/transactions", c.WalletController.GetTransactions)
	c.App.Get("/receipts/v1/:tripId", c.WalletController.GetReceipt)

	c.App.Post("/admin/v1/rules", c.RuleController.CreateRule)
	c.App.Put("/admin/v1/rules/:id", c.RuleController.UpdateRule)
	c.App.Delete("/admin/v1/rules/:id", c.RuleController.DeactivateRule)
	c.App.Post("/admin/v1/programs", c.RuleController.CreateProgram)
	c.App.Put("/admin/v1/programs/:id", c.RuleController.UpdateProgram)
	c.App.Delete("/admin/v1/programs/:id", c.RuleController.DeactivateProgram)
}
