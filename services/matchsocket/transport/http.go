package transport

import (
	"net/http"

	"swipemovie/pkg/middleware"
	"swipemovie/services/matchsocket/handler"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func NewRouter(socketHandler *handler.SocketHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{http.MethodGet},
		AllowHeaders:     []string{echo.HeaderContentType, middleware.UserIDHeader},
		AllowCredentials: true,
	}))
	e.Use(middleware.RequireUserIDEcho())

	e.GET("/ws/room", socketHandler.HandleRoomSocket)

	return e
}
