package main

import (
	"log"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/api"
)

func main() {
	log.Println("App start")
	api.StartServer()
	log.Println("App terminated")
}
