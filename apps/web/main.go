package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoweb "github.com/Kwesikendy/academyos/apps/web/echo"
	"github.com/Kwesikendy/academyos/core"
	"github.com/Kwesikendy/academyos/core/session"
	"github.com/Kwesikendy/academyos/services/api"
	logsvc "github.com/Kwesikendy/academyos/services/logger"
)

func main() {
	std := stdlog.New(os.Stdout, "WEB : ", stdlog.LstdFlags|stdlog.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatalf("loading config: %v", err)
	}

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	validate := validator.New()
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator(enLocale.Locale())
	core.InitValidators(validate, translator)
	session.InitValidators(validate, translator)

	// the web surface scopes tokens per request cookie; the base client
	// starts anonymous
	client := api.NewClient(conf.API, api.StaticToken(""), logger)

	server := echoweb.NewServer(&echoweb.Options{
		Conf:       conf,
		Logger:     logger,
		Client:     client,
		Validate:   validate,
		Translator: translator,
	})

	logger.Info(fmt.Sprintf("%s web starting on %s : build %q", conf.AppName, conf.Web.Addr, conf.Build))
	server.Start()

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: start shutdown...", sig))

		ctx, cancel := context.WithTimeout(context.Background(), conf.Web.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
		logger.Info("server stopped")
	}
}
