package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/ascend-bim/gradebook/apps/api/echo"
	"github.com/ascend-bim/gradebook/core"
	"github.com/ascend-bim/gradebook/core/student"
	emailsvc "github.com/ascend-bim/gradebook/services/email"
	logsvc "github.com/ascend-bim/gradebook/services/logger"
	mentorsvc "github.com/ascend-bim/gradebook/services/mentor"
	sheetsvc "github.com/ascend-bim/gradebook/services/sheets"
	"github.com/ascend-bim/gradebook/storage/database/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger("API"), conf)
	logger.Enable(!conf.Debug)

	syncLogger := logsvc.NewRollbarLogger(logsvc.NewStdLogger("SYNC"), conf)
	aiLogger := logsvc.NewRollbarLogger(logsvc.NewStdLogger("AI"), conf)

	// set up roster store
	db, err := inmemdb.Open()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up roster store: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	advisor, err := mentorsvc.NewAdvisor(context.Background(), conf, aiLogger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up AI advisor: %v", err), err)
	}
	defer func() {
		if err := advisor.Close(); err != nil {
			aiLogger.Error(fmt.Sprintf("closing AI advisor: %v", err), err)
		}
	}()

	studentSvc := student.NewService(
		inmemdb.NewStudentRepository(db),
		sheetsvc.NewClient(conf, syncLogger),
		advisor,
		mailSvc,
		logger,
	)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)

	res, err := studentSvc.Load(context.Background())
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading roster: %v", err), err)
	}
	logger.Info(fmt.Sprintf("roster ready: %d students (%s)", res.Count, res.Status))

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.Publish("students", expvar.Func(func() interface{} {
		st, err := studentSvc.Stats()
		if err != nil {
			return nil
		}
		return st.Count
	}))

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			StudentSvc: studentSvc,
			Validate:   validate,
			Translator: translator,
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
