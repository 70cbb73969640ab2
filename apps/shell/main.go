package main

import (
	"context"
	stdlog "log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Kwesikendy/academyos/core"
	"github.com/Kwesikendy/academyos/core/routing"
	"github.com/Kwesikendy/academyos/core/session"
	"github.com/Kwesikendy/academyos/services/api"
	logsvc "github.com/Kwesikendy/academyos/services/logger"
	localdb "github.com/Kwesikendy/academyos/storage/local"
)

// sessionTokens bridges the API client and the session store: the
// client is built first, the store hooks in after.
type sessionTokens struct {
	store *session.Store
}

func (t *sessionTokens) Token() string {
	if t.store == nil {
		return ""
	}
	return t.store.Token()
}

func main() {
	std := stdlog.New(os.Stdout, "SHELL : ", stdlog.LstdFlags)

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

	db, err := localdb.Open(conf.Storage, conf.SecretKey)
	if err != nil {
		logger.Fatal("opening local store", err)
	}
	defer db.Close()

	tokens := &sessionTokens{}
	client := api.NewClient(conf.API, tokens, logger)
	store := session.NewStore(api.NewAuthService(client), db, validate, logger)
	tokens.store = store
	client.OnAuthReject(store.Expire)

	ctx := context.Background()

	// the gate's first non-loading decision waits on this
	store.Resolve(ctx)

	cli := commandLine{
		store: store,
		gate:  routing.NewGate(store),
		out:   os.Stdout,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
