package main

import (
	"context"
	"log"

	"github.com/dalemusser/waffle/app"
	"github.com/suraj4124/gamesphere/internal/app/bootstrap"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
