package main

import (
	"errors"
	"log"
	"os"

	"barberqueue-backend/cmd"
	"barberqueue-backend/config"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			log.Printf("%v", err)
			os.Exit(2)
		}
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}
