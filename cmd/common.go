package cmd

import (
	"context"
	"fmt"

	"github.com/kasuboski/reelbox/config"
	"github.com/kasuboski/reelbox/pkg/catalog"
	"github.com/kasuboski/reelbox/pkg/collection"
	rhttp "github.com/kasuboski/reelbox/pkg/http"
	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/kasuboski/reelbox/pkg/storage"
	"github.com/kasuboski/reelbox/pkg/storage/badgerdb"
	"github.com/kasuboski/reelbox/pkg/storage/memory"
	"github.com/kasuboski/reelbox/pkg/storage/sqlite"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

func readConfig() config.Config {
	cfg, err := config.New(viper.GetViper())
	if err != nil {
		logger.Get().Fatalw("failed to read configurations", "error", err)
	}
	return cfg
}

// newStore opens the backend the configuration selects.
func newStore(ctx context.Context, cfg config.Storage) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return sqlite.New(ctx, cfg.FilePath)
	case config.DriverBadger:
		return badgerdb.Open(cfg.Dir)
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func newCatalog(cfg config.TMDB) (*catalog.Client, error) {
	return catalog.New(cfg.URL(), rhttp.NewAuthClient(cfg.APIKey), catalog.WithLanguage(cfg.Language))
}

// openCollections loads the collections and returns a func that closes the backend.
func openCollections(ctx context.Context, cfg config.Config) (*collection.Manager, func()) {
	log := logger.FromCtx(ctx)

	store, err := newStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}

	m := collection.New(ctx, store)
	cancelMetrics := collection.ObserveMetrics(m)
	cancelLog := collection.LogChanges(m, log)

	return m, func() {
		cancelLog()
		cancelMetrics()
		if err := store.Close(); err != nil {
			log.Errorw("failed to close storage", "error", err)
		}
	}
}

func collationTag(cfg config.Query) language.Tag {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

func commandContext() context.Context {
	return logger.WithCtx(context.Background(), logger.Get())
}
