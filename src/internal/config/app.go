package config

import (
	"earnings-service/src/internal/delivery/http"
	"earnings-service/src/internal/delivery/http/middleware"
	"earnings-service/src/internal/delivery/http/route"
	"earnings-service/src/internal/gateway/messaging"
	"earnings-service/src/internal/repository"
	"earnings-service/src/internal/usecase"
	"earnings-service/src/pkg/databases/mysql"
	kafkaPkgConfluent "earnings-service/src/pkg/kafka/confluent"
	"earnings-service/src/pkg/log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafkaPkgConfluent.Producer
	Redis       redis.UniversalClient
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

func Bootstrap(config *BootstrapConfig) {
	// setup repositories
	receiptRepository := repository.NewReceiptRepository(config.DB)
	walletRepository := repository.NewWalletRepository(config.DB)
	ledgerRepository := repository.NewLedgerRepository(config.DB)
	awardRepository := repository.NewAwardRepository(config.DB)
	tripRepository := repository.NewTripRepository(config.DB)
	ruleRepository := repository.NewRuleRepository(config.DB)
	earningsProducer := messaging.NewEarningsProducer(config.Producer, config.Log)

	// setup use cases
	ruleStore := usecase.NewRuleStore(config.Log, config.Redis, ruleRepository, config.Config)
	earningsUseCase := usecase.NewEarningsUseCase(
		config.Log,
		config.Validate,
		config.Config,
		config.DB,
		ruleStore,
		receiptRepository,
		walletRepository,
		ledgerRepository,
		awardRepository,
		tripRepository,
		earningsProducer,
	)
	walletUseCase := usecase.NewWalletUseCase(
		config.Log,
		config.Validate,
		config.DB,
		walletRepository,
		ledgerRepository,
		receiptRepository,
	)
	ruleAdminUseCase := usecase.NewRuleAdminUseCase(config.Log, config.Validate, ruleRepository, ruleStore)

	// setup controller
	walletController := http.NewWalletController(walletUseCase, config.Log)
	ruleController := http.NewRuleController(ruleAdminUseCase, config.Log)
	earningsController := http.NewEarningsController(earningsUseCase, config.AsynqClient, config.Log)

	// setup middleware
	authMiddleware := middleware.VerifyBearer(config.Config)

	config.Async.HandleFunc(usecase.TaskTypeSettleTrip, earningsUseCase.HandleSettleTrip)

	routeConfig := route.RouteConfig{
		App:                config.App,
		WalletController:   walletController,
		RuleController:     ruleController,
		EarningsController: earningsController,
		AuthMiddleware:     authMiddleware,
	}
	routeConfig.Setup()
}
