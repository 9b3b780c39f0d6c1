package main

import (
	"log"

	"backend/config"
	"backend/routes"
	"backend/services"
)

func main() {
	config.InitDB()

	hub := services.NewRealtimeHub()
	services.InitAlertDeps(config.DB, hub)

	r := routes.SetupRouter(config.DB, hub)
	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
