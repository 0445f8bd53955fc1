package fx

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"

	"go.uber.org/fx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/amityadav/policyfeed/internal/config"
	"github.com/amityadav/policyfeed/internal/core"
	"github.com/amityadav/policyfeed/internal/middleware"
	"github.com/amityadav/policyfeed/internal/notifications"
	"github.com/amityadav/policyfeed/internal/server"
	"github.com/amityadav/policyfeed/internal/store"
	"github.com/amityadav/policyfeed/internal/token"
)

// ServerModule provides gRPC and HTTP servers
var ServerModule = fx.Module("server",
	fx.Provide(
		server.NewGRPCServer,
		NewTokenManager,
		NewAdminAuth,
	),
	fx.Invoke(
		RegisterRunHealth,
		StartServers,
		StartNotificationWorker,
	),
)

// NewTokenManager creates JWT token manager (optional)
func NewTokenManager(cfg config.Config) *token.Manager {
	if cfg.JWTSecret == "" {
		log.Printf("[FX] TokenManager disabled (JWT_SECRET not set)")
		return nil
	}
	tm := token.NewManager(cfg.JWTSecret)
	log.Printf("[FX] TokenManager initialized")
	return tm
}

// NewAdminAuth creates the guard for operator endpoints
func NewAdminAuth(cfg config.Config, tm *token.Manager) *middleware.AdminAuth {
	return middleware.NewAdminAuth(cfg.FeedAPIKey, tm)
}

// RegisterRunHealth keeps the gRPC health status in step with pipeline runs
func RegisterRunHealth(pipeline *core.PipelineCore, hs *health.Server) {
	pipeline.OnRunFinished(server.ReportRunHealth(hs))
}

// ServerParams groups dependencies for starting servers
type ServerParams struct {
	fx.In
	Lifecycle  fx.Lifecycle
	GRPCServer *grpc.Server
	Health     *health.Server
	Pipeline   *core.PipelineCore
	Worker     *notifications.Worker
	RunLog     *store.RunLog `optional:"true"`
	Auth       *middleware.AdminAuth
	Config     config.Config
}

// StartServers starts gRPC and HTTP servers with lifecycle management
func StartServers(p ServerParams) {
	var httpServer *http.Server

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			grpcAddr := ":" + p.Config.GRPCPort
			lis, err := net.Listen("tcp", grpcAddr)
			if err != nil {
				return err
			}

			go func() {
				log.Printf("[FX] gRPC Server listening on %s", grpcAddr)
				if err := p.GRPCServer.Serve(lis); err != nil {
					log.Printf("[FX] gRPC Server error: %v", err)
				}
			}()

			services := server.Services{
				Records: p.Pipeline,
				Worker:  p.Worker,
				Auth:    p.Auth,
			}
			if p.RunLog != nil {
				services.Runs = p.RunLog
			}

			wrappedServer := server.CreateGRPCWebWrapper(p.GRPCServer)
			httpHandler := server.CreateHTTPHandler(wrappedServer)
			restHandler := server.CreateRESTHandler(services)
			combinedHandler := server.CreateCombinedHandler(httpHandler, restHandler)

			httpServer = &http.Server{
				Addr:    ":" + p.Config.HTTPPort,
				Handler: server.CreateRecoveryHandler(combinedHandler),
			}
			go func() {
				log.Printf("[FX] HTTP Server (gRPC-Web + REST) listening on %s", httpServer.Addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down servers...")
			p.Health.Shutdown()
			p.GRPCServer.GracefulStop()
			if httpServer != nil {
				return httpServer.Shutdown(ctx)
			}
			return nil
		},
	})
}

// StartNotificationWorker starts the scheduled pipeline worker
func StartNotificationWorker(lc fx.Lifecycle, worker *notifications.Worker, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := worker.Start(); err != nil {
				return err
			}
			log.Printf("[FX] NotificationWorker started (%s, %s)", cfg.CronSchedule, cfg.CronTZ)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			worker.Stop()
			return nil
		},
	})
}
