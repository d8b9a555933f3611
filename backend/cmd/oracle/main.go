package main

import (
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"fractal-marble/backend/internal/adapter/out/oracle"
	"fractal-marble/backend/internal/fractal"
	"fractal-marble/backend/internal/vecmath"
)

var (
	addr   = flag.String("addr", "localhost:50051", "gRPC listen address")
	shape  = flag.String("shape", "plane", "Surface: plane, sphere or point")
	radius = flag.Float64("radius", 1, "Sphere radius before scaling")
)

func surface(name string) (fractal.Oracle, bool) {
	switch name {
	case "plane":
		return fractal.Plane{Point: vecmath.VecZero, Normal: vecmath.VecY}, true
	case "sphere":
		return fractal.Sphere{Center: vecmath.VecZero, Radius: *radius}, true
	case "point":
		return fractal.FixedPoint{Point: vecmath.VecZero}, true
	}
	return nil, false
}

func main() {
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	o, ok := surface(*shape)
	if !ok {
		log.Fatalf("Unknown -shape %q", *shape)
	}

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", *addr, err)
	}

	server := grpc.NewServer()
	service := oracle.NewServer(o, logger)
	oracle.RegisterDistanceFieldServer(server, service)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		logger.Println("Shutting down...")
		server.GracefulStop()
	}()

	logger.Printf("Distance field (%s) serving on %s", *shape, *addr)
	if err := server.Serve(lis); err != nil {
		log.Fatalf("gRPC server error: %v", err)
	}
	logger.Printf("Served %d requests", service.Requests())
}
