package main

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"os"

	echoapi "github.com/trezcool/gradespark/apps/api/echo"
	"github.com/trezcool/gradespark/core"
	"github.com/trezcool/gradespark/core/catalog"
	"github.com/trezcool/gradespark/core/grading"
	"github.com/trezcool/gradespark/core/lead"
	"github.com/trezcool/gradespark/core/settings"
	emailsvc "github.com/trezcool/gradespark/services/email"
	logsvc "github.com/trezcool/gradespark/services/logger"
	"github.com/trezcool/gradespark/services/webhook"
	filedb "github.com/trezcool/gradespark/storage/file"
	inmemdb "github.com/trezcool/gradespark/storage/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig("")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Close()

	store := settings.NewStore(
		conf.SettingsPath,
		settings.WithEnvFile(conf.EnvFile),
		settings.WithLogger(logger),
	)
	leadSvc := newLeadService(conf, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()

	cat := catalog.New(conf.DataDir, logger)
	if !cat.DataExists() {
		logger.Warn(fmt.Sprintf("no demo data found under %s", conf.DataDir))
	}

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Catalog:    cat,
			Settings:   store,
			Simulator:  grading.NewSimulator(nil),
			LeadSvc:    leadSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()
	logger.Info(fmt.Sprintf("listening on http://%s", conf.Server.Address()))

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}

	// pending lead deliveries still fall back to the backup file
	leadSvc.Wait()

	if err = store.Save(); err != nil {
		logger.Error(fmt.Sprintf("saving settings: %v", err), err)
	}
}

func newLeadService(conf *core.Config, logger core.Logger) *lead.Service {
	var sender lead.Sender
	if conf.LeadWebhookURL != "" {
		sender = webhook.NewClient(conf.LeadWebhookURL, conf.LeadWebhookTimeout)
	}

	var opts []lead.Option
	if conf.SalesEmail != "" {
		mailer := emailsvc.NewService(
			log.New(os.Stdout, "EMAIL : ", log.LstdFlags|log.Lmicroseconds),
			logger,
			conf,
		)
		opts = append(opts, lead.WithNotifier(mailer, mail.Address{Address: conf.SalesEmail}))
	}

	return lead.NewService(sender, newLeadRepository(conf, logger), logger, opts...)
}

// newLeadRepository keeps undelivered leads in memory when the file backup is disabled.
func newLeadRepository(conf *core.Config, logger core.Logger) lead.Repository {
	if conf.LeadBackup {
		return filedb.NewLeadRepository(conf.AppDataDir, logger)
	}
	logger.Warn("lead backup disabled: undelivered leads are kept in memory only")
	db, _ := inmemdb.Open()
	return inmemdb.NewLeadRepository(db)
}
