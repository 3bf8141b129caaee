package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/edusight/backend/apps/api/echo"
	"github.com/edusight/backend/core"
	"github.com/edusight/backend/core/analytics"
	"github.com/edusight/backend/core/record"
	"github.com/edusight/backend/core/schedule"
	"github.com/edusight/backend/core/school"
	"github.com/edusight/backend/core/user"
	emailsvc "github.com/edusight/backend/services/email"
	logsvc "github.com/edusight/backend/services/logger"
	msgsvc "github.com/edusight/backend/services/messaging"
	llmsvc "github.com/edusight/backend/services/textgen"
	"github.com/edusight/backend/storage/cache"
	"github.com/edusight/backend/storage/database"
	sqlxrepos "github.com/edusight/backend/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	var messenger core.Messenger
	if conf.Mojo.Token != "" {
		messenger = msgsvc.NewMojoService(conf, logger)
	} else {
		messenger = msgsvc.NewConsoleService()
	}

	var textGen core.TextGenerator
	if conf.LLM.APIKey != "" {
		textGen = llmsvc.NewDeepseekService(conf)
	} else if conf.Debug {
		textGen = llmsvc.NewStaticService("AI insights are not configured in this environment.")
	}

	var reportCache analytics.ReportCache
	rc := cache.NewReportCache(conf)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err = rc.Ping(pingCtx); err != nil {
		logger.Info("redis unreachable, report caching disabled")
	} else {
		reportCache = rc
		defer rc.Close()
	}
	cancelPing()

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	schoolSvc := school.NewService(sqlxrepos.NewSchoolRepository(db))
	recordSvc := record.NewService(sqlxrepos.NewRecordRepository(db))
	analyticsSvc := analytics.NewService(sqlxrepos.NewAnalyticsRepository(db), textGen, reportCache, conf, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.InitValidators(validator.New(), newTranslator())
	core.ParseEmailTemplates(conf)

	// =========================================================================
	// Start Scheduler

	jobs := analytics.NewJobs(analyticsSvc, usrSvc, schoolSvc, recordSvc, messenger, mailSvc, conf, logger)

	sched := schedule.New(conf, logger)
	mustRegister(logger, sched, analytics.JobGradingTimeliness, schedule.Every(conf.Scheduler.GradingCheckInterval), jobs.CheckGradingTimeliness)
	mustRegister(logger, sched, analytics.JobWeeklyReports, schedule.WeeklyAt(time.Monday, 9, 0), jobs.SendWeeklyReports)
	mustRegister(logger, sched, analytics.JobDailyAlerts, schedule.DailyAt(7, 30), jobs.SendDailyAlerts)

	if err = sched.Start(context.Background()); err != nil {
		logger.Fatal(fmt.Sprintf("starting scheduler: %v", err), err)
	}
	defer func() {
		if err = sched.Stop(); err != nil {
			logger.Error(fmt.Sprintf("scheduler did not drain: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:         conf,
			Logger:       logger,
			UserSvc:      usrSvc,
			SchoolSvc:    schoolSvc,
			RecordSvc:    recordSvc,
			AnalyticsSvc: analyticsSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.InitSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func mustRegister(logger core.Logger, sched *schedule.Scheduler, name string, trigger schedule.Trigger, action schedule.Action) {
	if err := sched.Register(name, trigger, action); err != nil {
		logger.Fatal(fmt.Sprintf("registering job %q: %v", name, err), err)
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
