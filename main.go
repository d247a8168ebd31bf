package main

import (
	"log"

	"github.com/prasmadji/maganghub-seeker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
