package main

import (
	"os"

	"github.com/DRSN-tech/giftshop-backend/internal/app"
	config "github.com/DRSN-tech/giftshop-backend/internal/cfg"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
)

//go:generate swag init -g cmd/app/app.go -d ../../ -o ../../docs

//	@title			Gift Shop API
//	@version		1.0
//	@description	Каталог подарков: витрина, админка с одобрением товаров, заказ через WhatsApp.
//	@BasePath		/api/v1

func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		log.Errorf(err, "application stopped with error")
		os.Exit(1)
	}
}
