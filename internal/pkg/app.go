package pkg

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/config"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/handler"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/middleware"
)

type Application struct {
	Config     *config.Config
	Router     *gin.Engine
	Handler    *handler.Handler
	APIHandler *handler.APIHandler
	AuthMW     *middleware.AuthMiddleware
}

func NewApp(c *config.Config, r *gin.Engine, h *handler.Handler, api *handler.APIHandler, authMW *middleware.AuthMiddleware) *Application {
	return &Application{
		Config:     c,
		Router:     r,
		Handler:    h,
		APIHandler: api,
		AuthMW:     authMW,
	}
}

func (a *Application) RunApp() {
	logrus.Info("Server start up")

	// Регистрируем статические файлы и маршруты
	a.Handler.RegisterStatic(a.Router)
	a.Handler.RegisterPageRoutes(a.Router, a.AuthMW)
	a.APIHandler.RegisterAPIRoutes(a.Router, a.AuthMW)

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	logrus.Infof("Starting server on %s", serverAddress)

	if err := a.Router.Run(serverAddress); err != nil {
		logrus.Fatal(err)
	}

	logrus.Info("Server down")
}
