package main

import (
	"log"

	"Agenda/FiberConfig"
	"Agenda/Models"
)

func main() {
	db, err := Models.Connect("database.db")
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	FiberConfig.FiberConfig(db)
}
