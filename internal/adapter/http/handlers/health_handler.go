package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
)

// BrokerStatus is the broker-side dependency of the health check. The RabbitMQ
// connector satisfies it.
type BrokerStatus interface {
	IsConnected() bool
}

// HealthHandler reports the service's dependency health. A lost broker connection
// degrades the service (it reconnects on its own) but does not report it down.
type HealthHandler struct {
	broker BrokerStatus
	ddb    *dynamodb.Client
}

func NewHealthHandler(broker BrokerStatus, ddb *dynamodb.Client) *HealthHandler {
	return &HealthHandler{broker: broker, ddb: ddb}
}

func (h *HealthHandler) Health(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if h.ddb != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		_, err := h.ddb.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)})
		if err != nil {
			checks["dynamodb"] = "unavailable"
			healthy = false
		} else {
			checks["dynamodb"] = "ok"
		}
	}

	if h.broker != nil {
		if h.broker.IsConnected() {
			checks["rabbitmq"] = "ok"
		} else {
			checks["rabbitmq"] = "reconnecting"
		}
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status": status,
		"checks": checks,
	})
}
