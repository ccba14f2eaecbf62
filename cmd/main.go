package main

import (
	"sms-relay-api/app"

	_ "sms-relay-api/docs"
)

// @title           SMS Relay API
// @version         1.0
// @description     SMS relay backend: gateway ingestion, token auth and realtime delivery.

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
