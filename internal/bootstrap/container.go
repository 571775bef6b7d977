package bootstrap

import (
	"context"
	"fmt"
	"os"

	"expense-log-be/internal/config"
	"expense-log-be/internal/controller"
	"expense-log-be/internal/handler"
	"expense-log-be/internal/pkg/logger"
	"expense-log-be/internal/pkg/serverutils"
	"expense-log-be/internal/repository/implementation"
	"expense-log-be/internal/repository/memory"
	"expense-log-be/internal/repository/unitofwork"
	"expense-log-be/internal/service"
	"expense-log-be/internal/view"
	"expense-log-be/internal/websocket"
	"expense-log-be/pkg/listing"
	pktNats "expense-log-be/pkg/nats"
	"expense-log-be/web"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger   logger.ILogger
	Renderer *view.Renderer

	// Controllers
	AuthController     controller.IAuthController
	BankLogController  controller.IBankLogController
	MonthLogController controller.IMonthLogController
	ListController     controller.IListController
	FeedHandler        *handler.FeedHandler

	AuthMiddleware fiber.Handler

	// Background workers, run by main.go
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub
	NatsSubscriber  *pktNats.Subscriber
	RemoteConsumer  service.IConsumerService

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	location := cfg.Location()

	c := &Container{
		Logger:         sysLogger,
		AuthMiddleware: serverutils.JwtMiddleware(cfg.App.JWTSecret),
	}

	// 2. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure, all optional
	var natsPub *pktNats.Publisher
	if cfg.Events.EnableNats {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn(logger.ModuleEvents, "NATS publisher unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			natsPub = pub
			c.closers = append(c.closers, pub.Close)
		}

		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn(logger.ModuleEvents, "NATS subscriber unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			c.NatsSubscriber = sub
			c.closers = append(c.closers, sub.Close)
		}
	}

	rdb := newRedisClient(cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	feedLogger := logger.NewIsolatedLogger(cfg.App.FeedLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, feedLogger)

	// 4. Caches
	dateCache := memory.NewDateCache(cfg.Cache.DatesTTL)
	flashRepo := memory.NewFlashRepository[serverutils.Message](cfg.Cache.FlashTTL)
	flasher := controller.NewFlasher(flashRepo, cfg.Auth.SecureCookie)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub, natsPub, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Events.Topic, dateCache, c.WebSocketHub, sysLogger)
	// Events from other instances only need to drop stale caches; their
	// feed already reaches local sockets through Redis.
	c.RemoteConsumer = service.NewConsumerService(nil, "", dateCache, nil, sysLogger)

	bankLogService := service.NewBankLogService(uowFactory, publisherService, dateCache, location, sysLogger)
	monthLogService := service.NewMonthLogService(uowFactory, bankLogService, publisherService, dateCache, location, sysLogger)
	statementService := service.NewStatementService(uowFactory, sysLogger)
	authService := service.NewAuthService(cfg.Auth, cfg.App.JWTSecret, sysLogger)

	listRegistry, err := service.NewListRegistry(uowFactory)
	if err != nil {
		return nil, fmt.Errorf("failed to build list registry: %w", err)
	}
	listService := listing.NewService(listRegistry.Registry, implementation.NewListStore(db), sysLogger)

	// 6. Presentation
	renderer, err := view.NewRenderer(web.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	c.Renderer = renderer

	c.AuthController = controller.NewAuthController(authService, flasher, cfg.Auth.SecureCookie)
	c.BankLogController = controller.NewBankLogController(bankLogService, statementService, flasher, location)
	c.MonthLogController = controller.NewMonthLogController(monthLogService, flasher, location)
	c.ListController = controller.NewListController(listService, listRegistry)
	c.FeedHandler = handler.NewFeedHandler(c.WebSocketHub, feedLogger)

	return c, nil
}

// SubscriberDurable names this instance's NATS consumer. Every instance
// needs its own so each one sees every event.
func SubscriberDurable() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}
	return "ledger-cache-" + host
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func newRedisClient(rawURL string, log logger.ILogger) *redis.Client {
	if rawURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		log.Warn(logger.ModuleEvents, "Failed to parse Redis URL, using it as an address", map[string]interface{}{
			"error": err.Error(),
		})
		opt = &redis.Options{Addr: rawURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn(logger.ModuleEvents, "Redis unreachable, live feed stays local", map[string]interface{}{
			"error": err.Error(),
		})
		_ = rdb.Close()
		return nil
	}
	return rdb
}
