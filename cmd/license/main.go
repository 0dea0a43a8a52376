package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/memocorner/repair-desk/internal/config"
	"github.com/memocorner/repair-desk/internal/handlers"
	"github.com/memocorner/repair-desk/internal/license"
	xhttp "github.com/memocorner/repair-desk/pkg/http"
	"github.com/memocorner/repair-desk/pkg/logger"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	svc := license.NewService(license.NewMemoryStore(), config.Get().LicensePrefix)
	handler := handlers.NewLicenseHandler(svc)

	g := s.Router.Group("/api/v1")
	handlers.RegisterLicenseRoutes(g, handler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().LicenseListenAddr)
		if err != nil {
			logger.Error("error in running license server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
