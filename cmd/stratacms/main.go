// cmd/stratacms/main.go
package main

import (
	"context"
	"log"

	"github.com/dalemusser/stratacms/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	// app.Run owns signal handling and graceful shutdown.
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
