package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brainstorm/internal/cache"
	"brainstorm/internal/config"
	"brainstorm/internal/content"
	"brainstorm/internal/repository"
	"brainstorm/internal/service"
	"brainstorm/internal/telemetry"
	"brainstorm/internal/transport/rest"
	"brainstorm/internal/transport/ws"
)

const (
	serviceName = "brainstorm"
	pingTimeout = 5 * time.Second
)

// App holds the wired server components. Redis and Mongo are nil when
// their URIs are not configured.
type App struct {
	Config   *config.Config
	Hub      *ws.Hub
	Game     *service.GameService
	Auth     *service.AuthService
	Pipeline *content.Pipeline

	Redis *redis.Client
	Mongo *mongo.Client

	shutdownTracing func(context.Context) error
}

// New connects the optional backends and builds the game stack
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	shutdown, err := telemetry.Setup(ctx, serviceName, cfg.OTelURL, cfg.OTelEnabled)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	a.shutdownTracing = shutdown

	if cfg.RedisURI != "" {
		rdb, err := openRedis(ctx, cfg.RedisURI)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.Redis = rdb
		log.Println("Connected to Redis")
	} else {
		log.Println("REDIS_URI not set, using in-memory question cache")
	}

	if cfg.MongoURI != "" {
		client, err := openMongo(ctx, cfg.MongoURI)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.Mongo = client
		log.Println("Connected to MongoDB")
	} else {
		log.Println("MONGO_URI not set, results archive disabled")
	}

	a.Pipeline = a.newPipeline()
	a.Hub = ws.NewHub()
	a.Auth = service.NewAuthService(cfg.Auth)

	opts := []service.Option{}
	if a.Redis != nil {
		opts = append(opts, service.WithLeaderboard(cache.NewLeaderboardCache(a.Redis)))
	}
	if a.Mongo != nil {
		opts = append(opts, service.WithResultRepo(repository.NewResultRepo(a.Mongo, cfg.MongoDB)))
	}
	a.Game = service.NewGameService(repository.NewRoomStore(), a.Pipeline, a.Hub, opts...)

	log.Printf("Question backend: %s (model %s)", cfg.AI.Backend(), cfg.AI.Model)
	return a, nil
}

func (a *App) newPipeline() *content.Pipeline {
	var qc cache.QuestionCache
	if a.Redis != nil {
		qc = cache.NewQuestionCache(a.Redis, a.Config.CacheTTL)
	} else {
		qc = cache.NewMemoryQuestionCache(a.Config.CacheTTL)
	}

	var gen content.Generator
	if a.Config.AI.IsEnabled() {
		gen = content.NewGeminiClient(&a.Config.AI)
	}
	return content.NewPipeline(gen, qc)
}

// Handler returns the HTTP router for the app
func (a *App) Handler() http.Handler {
	return rest.NewRouter(&rest.Container{
		AuthService: a.Auth,
		Game:        a.Game,
		WSHub:       a.Hub,
		Backend:     a.Config.AI.Backend(),
		PublicURL:   a.Config.PublicURL,
		CORSOrigins: a.Config.CORSOrigins,
	})
}

// Close releases backend connections and flushes traces
func (a *App) Close(ctx context.Context) {
	if a.Hub != nil {
		a.Hub.Stop()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}
	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(ctx); err != nil {
			log.Printf("close mongo: %v", err)
		}
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			log.Printf("flush traces: %v", err)
		}
	}
}

func openRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

func openMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}
