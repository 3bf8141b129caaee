package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/edusight/backend/core"
	"github.com/edusight/backend/core/analytics"
	"github.com/edusight/backend/core/record"
	"github.com/edusight/backend/core/school"
	"github.com/edusight/backend/core/user"
	emailsvc "github.com/edusight/backend/services/email"
	logsvc "github.com/edusight/backend/services/logger"
	msgsvc "github.com/edusight/backend/services/messaging"
	llmsvc "github.com/edusight/backend/services/textgen"
	"github.com/edusight/backend/storage/database"
	sqlxrepos "github.com/edusight/backend/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validator.New(), translator)
	core.ParseEmailTemplates(conf)

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	// set up services
	appLogger := logsvc.NewStdLogger(logger)

	var messenger core.Messenger
	if conf.Mojo.Token != "" {
		messenger = msgsvc.NewMojoService(conf, appLogger)
	} else {
		messenger = msgsvc.NewConsoleService()
	}

	var textGen core.TextGenerator
	if conf.LLM.APIKey != "" {
		textGen = llmsvc.NewDeepseekService(conf)
	} else if conf.Debug {
		textGen = llmsvc.NewStaticService("AI insights are not configured in this environment.")
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	schoolSvc := school.NewService(sqlxrepos.NewSchoolRepository(db))
	recordSvc := record.NewService(sqlxrepos.NewRecordRepository(db))
	analyticsSvc := analytics.NewService(sqlxrepos.NewAnalyticsRepository(db), textGen, nil, conf, appLogger)
	jobs := analytics.NewJobs(
		analyticsSvc, usrSvc, schoolSvc, recordSvc,
		messenger, emailsvc.NewConsoleService(conf), conf, appLogger,
	)

	// start CLI
	cli := commandLine{
		db:     db,
		usrSvc: usrSvc,
		jobs:   jobs,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
