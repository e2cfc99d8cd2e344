package main

import (
	"os"
	"slot-swapper/core/logger"
	"slot-swapper/core/server"
)

// @title Slot Swapper API
// @version 1.0
// @description Post calendar slots as swappable and trade them with other users.

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
		os.Exit(1)
	}
}
