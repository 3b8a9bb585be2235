package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"maze-server/api"
	"maze-server/config"
	"maze-server/maze"
	"maze-server/rpc"
	"maze-server/server"
	"maze-server/solve"

	"github.com/go-chi/chi/v5"
)

func main() {
	cfg := config.LoadConfig()

	store := maze.NewStore()
	if err := maze.Seed(store, cfg); err != nil {
		log.Fatalf("maze seed error: %v", err)
	}
	svc := solve.NewService(cfg, store)
	hub := server.NewHub(svc)

	r := chi.NewRouter()
	// Mount REST API under /api
	r.Mount("/api", api.NewAPIRouter(svc, hub))
	r.HandleFunc("/ws", hub.HandleConnections)
	if cfg.StaticDir != "" {
		static, err := api.StaticFileServer(cfg.StaticDir, "/index.html")
		if err != nil {
			log.Fatalf("static files: %v", err)
		}
		r.Handle("/*", static)
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("gRPC listen error: %v", err)
	}
	grpcSrv := rpc.NewGRPCServer(svc)

	go func() {
		log.Printf("gRPC server started on %s", cfg.GRPCAddr)
		if err := grpcSrv.Serve(lis); err != nil {
			log.Fatalf("gRPC serve error: %v", err)
		}
	}()
	go func() {
		log.Printf("Server started on %s with %d mazes", cfg.HTTPAddr, store.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] HTTP shutdown: %v", err)
	}
	if err := hub.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] websocket shutdown: %v", err)
	}
	grpcSrv.GracefulStop()
	log.Println("Server stopped")
}
