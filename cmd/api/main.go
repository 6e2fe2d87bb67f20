package main

import (
	"log"
	"os"

	_ "garage_billing/docs"
	"garage_billing/internal/adapter/http/routes"
	"garage_billing/internal/util"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Garage Billing Service API
// @version         1.0
// @description     Billing Service (quotes + payments) backed by DynamoDB and RabbitMQ.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	if err := util.InitLogger(os.Getenv("APP_ENV")); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	routes.Run()
}
