package routes

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "garage_billing/docs" // swag-generated documentation
	"garage_billing/internal/adapter/http/handlers"
	repository "garage_billing/internal/adapter/persistence/repository"
	"garage_billing/internal/infrastructure/database"
	"garage_billing/internal/infrastructure/messaging"
	"garage_billing/internal/infrastructure/payments"
	"garage_billing/internal/saga"
	"garage_billing/internal/usecase"
	"garage_billing/internal/usecase/interfaces"
	"garage_billing/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

var router = gin.Default()

const defaultPort = 8080

// Run wires every dependency, registers the saga subscriptions and starts the
// HTTP server. It blocks until SIGINT/SIGTERM, then drains in-flight requests
// before closing the broker connection.
func Run() {
	logger := util.GetLogger()

	setMiddlewares(logger)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	connector := getRoutes(logger)

	port := defaultPort
	if v, err := strconv.Atoi(os.Getenv("PORT")); err == nil && v > 0 {
		port = v
	}

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(port),
		Handler: router,
	}

	go func() {
		logger.Info("billing service listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start http server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down billing service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	connector.Close()
}

func getRoutes(logger *zap.Logger) *messaging.Connector {
	ddb := database.ConnectDynamoDB()

	quoteRepo := repository.NewQuoteDynamoRepository(ddb)
	paymentRepo := repository.NewPaymentDynamoRepository(ddb)
	partRepo := repository.NewPartDynamoRepository(ddb)
	serviceRepo := repository.NewServiceCatalogDynamoRepository(ddb)

	connector := messaging.NewConnector(os.Getenv("RABBITMQ_URL"))
	connector.Connect()

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(os.Getenv("MERCADOPAGO_ACCESS_TOKEN"))
	if err != nil {
		logger.Warn("mercado pago gateway not configured", zap.Error(err))
	} else {
		paymentGateway = mpGateway
	}

	quoteUseCase := usecase.NewQuoteUseCase(quoteRepo, connector)
	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, paymentGateway, connector)
	partUseCase := usecase.NewPartUseCase(partRepo)
	serviceUseCase := usecase.NewServiceCatalogUseCase(serviceRepo)

	sagaRouter := saga.NewRouter(quoteUseCase, paymentUseCase, connector)
	if err := sagaRouter.Register(connector); err != nil {
		logger.Error("failed to register saga subscriptions", zap.Error(err))
	}

	quoteHandler := handlers.NewQuoteHandler(quoteUseCase)
	paymentHandler := handlers.NewPaymentHandler(paymentUseCase, quoteUseCase)
	partHandler := handlers.NewPartHandler(partUseCase)
	serviceHandler := handlers.NewServiceCatalogHandler(serviceUseCase)
	healthHandler := handlers.NewHealthHandler(connector, ddb)

	v1 := router.Group("/v1")
	v1.GET("/health", healthHandler.Health)
	addBillingRoutes(v1, quoteHandler, paymentHandler)
	addCatalogRoutes(v1, partHandler, serviceHandler)

	return connector
}

func setMiddlewares(logger *zap.Logger) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("recovered from panic", zap.Any("panic", recovered))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
