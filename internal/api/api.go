package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/microsievert/dosimetria/internal/api/controller"
	"github.com/microsievert/dosimetria/internal/pkg/logger"
	"github.com/microsievert/dosimetria/internal/service/dosimetry"
)

type APIService struct {
	router           *echo.Echo
	dosimetryService *dosimetry.Service
}

func (svc *APIService) Serve(addr string) {
	logger.Fatal(context.Background(), svc.router.Start(addr))
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(store dosimetry.RecordStore) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.HideBanner = true
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = sonicSerializer{}
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.Recover())
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	svc.dosimetryService = dosimetry.NewService(store)

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(svc.dosimetryService)

	api.GET("/participants", cntrl.GetParticipants)

	reports := api.Group("/reports")
	reports.POST("/process", cntrl.ProcessReport)
	reports.POST("/upload", cntrl.UploadReport)
	reports.POST("/export", cntrl.ExportReport)

	accumulations := api.Group("/accumulations")
	accumulations.POST("/update", cntrl.UpdateAccumulations)

	return svc, nil
}
