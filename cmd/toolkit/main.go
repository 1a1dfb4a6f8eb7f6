package main

import (
	"log"
	"os"

	"ffmpeg-toolkit/internal/cli"
)

func main() {
	log.SetFlags(log.LstdFlags)
	if err := cli.Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
