package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/gradespark/core"
	"github.com/trezcool/gradespark/core/catalog"
	"github.com/trezcool/gradespark/core/grading"
	"github.com/trezcool/gradespark/core/lead"
	"github.com/trezcool/gradespark/core/settings"
	logsvc "github.com/trezcool/gradespark/services/logger"
	"github.com/trezcool/gradespark/services/webhook"
	filedb "github.com/trezcool/gradespark/storage/file"
	inmemdb "github.com/trezcool/gradespark/storage/inmem"
)

func main() {
	os.Exit(run())
}

func run() int {
	std := log.New(os.Stderr, "CLI : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig("")
	if err != nil {
		std.Printf("loading config: %v", err)
		return 1
	}

	logger := logsvc.NewRollbarLogger(std, conf)
	defer logger.Close()

	var sender lead.Sender
	if conf.LeadWebhookURL != "" {
		sender = webhook.NewClient(conf.LeadWebhookURL, conf.LeadWebhookTimeout)
	}

	cli := commandLine{
		out:     os.Stdout,
		catalog: catalog.New(conf.DataDir, logger),
		store: settings.NewStore(
			conf.SettingsPath,
			settings.WithEnvFile(conf.EnvFile),
			settings.WithLogger(logger),
		),
		simulator: grading.NewSimulator(nil),
		leadSvc:   lead.NewService(sender, newLeadRepository(conf, logger), logger),
	}
	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", describe(err))
		}
		return 1
	}
	return 0
}

func newLeadRepository(conf *core.Config, logger core.Logger) lead.Repository {
	if !conf.LeadBackup {
		db, _ := inmemdb.Open()
		return inmemdb.NewLeadRepository(db)
	}
	return filedb.NewLeadRepository(conf.AppDataDir, logger)
}
