package server

import (
	"log"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/amityadav/policyfeed/internal/core"
)

// PipelineService is the health service name reported for the pipeline
const PipelineService = "policyfeed.Pipeline"

// NewGRPCServer creates a gRPC server exposing the standard health service and reflection
func NewGRPCServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer()
	hs := health.NewServer()
	hs.SetServingStatus(PipelineService, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	return srv, hs
}

// ReportRunHealth flips the pipeline health status after each run
func ReportRunHealth(hs *health.Server) func(*core.RunReport) {
	return func(report *core.RunReport) {
		status := healthpb.HealthCheckResponse_SERVING
		if report.Err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus(PipelineService, status)
		log.Printf("[Health] %s is %s after run %s", PipelineService, status, report.ID)
	}
}
