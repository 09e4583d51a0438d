package api

import (
	"github.com/buswatch/buswatch/pkg/api/routes"
	"github.com/buswatch/buswatch/pkg/bustime"
	"github.com/gofiber/fiber/v2"
)

func SetupServer(listen string, client *bustime.Client) error {
	routes.Setup(client)

	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.LinesRouter(group.Group("/lines"))

	routes.BusDataRouter(group.Group("/bus_data", NewRateLimiter()))

	return webApp.Listen(listen)
}
