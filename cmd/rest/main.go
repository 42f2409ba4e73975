package main

import (
	"context"
	"log"

	"ai-hub-be/internal/bootstrap"
	"ai-hub-be/internal/config"
	"ai-hub-be/internal/server"
	"ai-hub-be/internal/tracer"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	container := bootstrap.NewContainer(cfg)
	defer container.Bus.Close()
	defer container.Logger.Sync()

	srv := server.New(cfg, container)

	log.Fatal(srv.Run(context.Background()))
}
