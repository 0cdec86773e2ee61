package main

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/alicebob/miniredis/v2"

	"github.com/KirkDiggler/rpg-progression/internal/abilities"
	"github.com/KirkDiggler/rpg-progression/internal/config"
	"github.com/KirkDiggler/rpg-progression/internal/engine"
	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/hooks"
	"github.com/KirkDiggler/rpg-progression/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-progression/internal/providers"
	redisclient "github.com/KirkDiggler/rpg-progression/internal/redis"
	characterrepo "github.com/KirkDiggler/rpg-progression/internal/repositories/character"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/items"
	"github.com/KirkDiggler/rpg-progression/internal/talents"
)

// app holds the wired progression stack shared by the server and the character commands
type app struct {
	orchestrator *character.Orchestrator
	closers      []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type appOptions struct {
	// fumbleOn is passed to the stand-in activator
	fumbleOn int
}

func newApp(ctx context.Context, cfg *config.Config, opts appOptions) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	registry, err := loadRegistry(cfg.Rules.TalentsFile)
	if err != nil {
		return nil, err
	}
	catalog, err := loadCatalog(cfg.Rules.CatalogFile)
	if err != nil {
		return nil, err
	}

	characterRepo, itemRepo, err := a.openStores(ctx, &cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := items.Seed(ctx, itemRepo, catalog); err != nil {
		return nil, err
	}

	eng, err := engine.New(&engine.Config{
		Registry:            registry,
		PointsPerLevel:      cfg.Rules.PointsPerLevel,
		PointsPerSkillLevel: cfg.Rules.PointsPerSkillLevel,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create engine")
	}

	activator, err := abilities.NewFumbleActivator(&abilities.FumbleConfig{FumbleOn: opts.fumbleOn})
	if err != nil {
		return nil, err
	}
	gate, err := abilities.New(&abilities.Config{Registry: registry, Activator: activator})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create ability gate")
	}

	equipment, err := providers.NewEquipment(&providers.EquipmentConfig{ItemRepo: itemRepo})
	if err != nil {
		return nil, err
	}

	notifier, err := a.newHooks()
	if err != nil {
		return nil, err
	}

	a.orchestrator, err = character.New(&character.Config{
		CharacterRepo: characterRepo,
		Engine:        eng,
		Registry:      registry,
		Gate:          gate,
		Equipment:     equipment,
		Hooks:         notifier,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character orchestrator")
	}

	ok = true
	return a, nil
}

func loadRegistry(path string) (*talents.Registry, error) {
	if path == "" {
		return talents.Default()
	}
	return talents.LoadFile(path)
}

func loadCatalog(path string) ([]*entities.Item, error) {
	if path == "" {
		return items.DefaultCatalog()
	}
	return items.LoadCatalogFile(path)
}

func (a *app) openStores(ctx context.Context, cfg *config.StoreConfig) (characterrepo.Repository, items.Repository, error) {
	switch cfg.Kind {
	case config.StoreMemory:
		return characterrepo.NewInMemory(nil), items.NewInMemory(), nil

	case config.StoreSQLite:
		repo, err := characterrepo.NewSQLite(ctx, &characterrepo.SQLiteConfig{Path: cfg.SQLitePath})
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to open sqlite store")
		}
		a.closers = append(a.closers, func() { _ = repo.Close() })
		return repo, items.NewInMemory(), nil

	case config.StoreRedis:
		addrs := cfg.RedisAddrs
		if cfg.EmbeddedRedis {
			mr, err := miniredis.Run()
			if err != nil {
				return nil, nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to start embedded redis")
			}
			a.closers = append(a.closers, mr.Close)
			addrs = []string{mr.Addr()}
			slog.InfoContext(ctx, "embedded redis started", "addr", mr.Addr())
		}

		client, err := redisclient.Connect(addrs, &redisclient.Options{PoolSize: cfg.RedisPoolSize})
		if err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid redis configuration")
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.CodeUnavailable, "redis is unreachable")
		}

		characterRepo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{Client: client})
		if err != nil {
			return nil, nil, err
		}
		itemRepo, err := items.NewRedis(&items.RedisConfig{Client: client})
		if err != nil {
			return nil, nil, err
		}
		return characterRepo, itemRepo, nil
	}
	return nil, nil, errors.InvalidArgumentf("unknown store kind %q", cfg.Kind)
}

// newHooks publishes notifications on an event bus from a background dispatcher.
// Until quest and UI subsystems subscribe, the bus only logs.
func (a *app) newHooks() (hooks.Hooks, error) {
	bus := events.NewBus()
	bus.SubscribeFunc(hooks.EventTalentLearned, 0, func(ctx context.Context, e events.Event) error {
		if learned, ok := hooks.TalentLearnedFrom(e); ok {
			slog.DebugContext(ctx, "talent learned",
				"character_id", learned.CharacterID,
				"talent_id", learned.TalentID,
				"rank", learned.Rank,
				"ability", learned.Ability)
		}
		return nil
	})
	bus.SubscribeFunc(hooks.EventStatsChanged, 0, func(ctx context.Context, e events.Event) error {
		if changed, ok := hooks.StatsChangedFrom(e); ok {
			slog.DebugContext(ctx, "stats changed",
				"character_id", changed.CharacterID,
				"version", changed.Version,
				"max_health", changed.Snapshot.MaxHealth,
				"max_mana", changed.Snapshot.MaxMana)
		}
		return nil
	})

	publisher, err := hooks.NewBus(&hooks.BusConfig{EventBus: bus})
	if err != nil {
		return nil, err
	}
	async, err := hooks.NewAsync(&hooks.AsyncConfig{Next: publisher})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, async.Close)
	return async, nil
}
