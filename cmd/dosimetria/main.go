package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/microsievert/dosimetria/internal/api"
	"github.com/microsievert/dosimetria/internal/pkg/config"
	"github.com/microsievert/dosimetria/internal/pkg/constants"
	"github.com/microsievert/dosimetria/internal/pkg/logger"
	"github.com/microsievert/dosimetria/internal/pkg/ninox"
	"github.com/microsievert/dosimetria/internal/pkg/store"
	"github.com/microsievert/dosimetria/internal/pkg/store/xpgx"
	"github.com/microsievert/dosimetria/internal/service/dosimetry"
)

func main() {
	ctx := context.Background()

	if err := config.Load(); err != nil {
		logger.Fatal(ctx, err)
	}
	if err := logger.Init(viper.GetString(constants.ViperLogMode)); err != nil {
		logger.Fatal(ctx, err)
	}
	defer logger.Sync()

	recordStore, cleanup, err := newRecordStore(ctx)
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer cleanup()

	svc, err := api.NewAPIService(recordStore)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	go svc.Serve(viper.GetString(constants.ViperHTTPAddr))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "shutdown: %v", err)
	}
}

func newRecordStore(ctx context.Context) (dosimetry.RecordStore, func(), error) {
	switch viper.GetString(constants.ViperStoreBackend) {
	case constants.StoreBackendPostgres:
		pool, err := xpgx.NewPool(ctx, viper.GetString(constants.ViperPostgresDSN))
		if err != nil {
			return nil, nil, err
		}
		return store.NewStore(pool), pool.Close, nil
	default:
		client := ninox.NewClient(ninox.Config{
			BaseURL:           viper.GetString(constants.ViperNinoxBaseURL),
			APIToken:          viper.GetString(constants.ViperNinoxAPIToken),
			TeamID:            viper.GetString(constants.ViperNinoxTeamID),
			DatabaseID:        viper.GetString(constants.ViperNinoxDatabaseID),
			ParticipantsTable: viper.GetString(constants.ViperNinoxParticipantsTable),
			ReportTable:       viper.GetString(constants.ViperNinoxReportTable),
			PMAsText:          viper.GetBool(constants.ViperNinoxPMAsText),
		})
		return client, func() {}, nil
	}
}
