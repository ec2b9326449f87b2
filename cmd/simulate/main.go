package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/routesim/server/internal/clients/google"
	"github.com/dpup/routesim/server/internal/config"
	"github.com/dpup/routesim/server/internal/lib/export"
	"github.com/dpup/routesim/server/internal/lib/geo"
	"github.com/dpup/routesim/server/internal/lib/routing"
	"github.com/dpup/routesim/server/internal/services"
)

func main() {
	var (
		apiKey    = flag.String("api-key", "", "Google Maps API key (or set MAPS_API_KEY env var)")
		provider  = flag.String("provider", config.ProviderRoutes, "Routing provider: routes or directions")
		originStr = flag.String("origin", "38.067400,-120.540200", "Origin as lat,lng or a place name")
		destStr   = flag.String("dest", "38.139117,-120.456111", "Destination as lat,lng or a place name")
		speed     = flag.Float64("speed", 60, "Speed in km/h")
		format    = flag.String("format", "", "Print the full result as json, geojson or kml instead of a summary")
		timeout   = flag.Duration("timeout", 30*time.Second, "Timeout for the routing request")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("GPS Route Simulation Tool\n\n")
		fmt.Printf("Runs a single route simulation against Google.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -api-key=YOUR_KEY\n", os.Args[0])
		fmt.Printf("  %s -origin=\"Angels Camp, CA\" -dest=\"Arnold, CA\" -speed=80\n", os.Args[0])
		fmt.Printf("  MAPS_API_KEY=your_key %s -format=geojson > route.geojson\n", os.Args[0])
		return
	}

	cfg := config.DefaultConfig()
	cfg.Provider = *provider
	cfg.Google.APIKey = *apiKey
	cfg.Google.Timeout = *timeout
	cfg.ApplyEnvFallbacks()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	outFormat, err := export.ParseFormat(*format)
	if err != nil {
		log.Fatalf("Invalid format: %v", err)
	}

	routeProvider, err := google.NewProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to create provider: %v", err)
	}

	req := services.SimulateRequest{
		Origin:      parseLocation(*originStr),
		Destination: parseLocation(*destStr),
		SpeedKmh:    *speed,
	}

	ctx := logging.EnsureLogger(context.Background())
	result, err := services.NewSimulationService(routeProvider).Simulate(ctx, req)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	switch {
	case *format == "":
		printSummary(req, result.TotalDurationSeconds, len(result.Steps))
	case outFormat == export.FormatGeoJSON:
		writeJSON(export.GeoJSON(result))
	case outFormat == export.FormatKML:
		if err := export.WriteKML(os.Stdout, result, time.Now()); err != nil {
			log.Fatalf("Failed to write KML: %v", err)
		}
	default:
		writeJSON(result)
	}
}

// parseLocation treats "lat,lng" as a coordinate and anything else as a place name
func parseLocation(s string) routing.Location {
	var lat, lng float64
	var rest string
	if n, _ := fmt.Sscanf(s, "%f,%f%s", &lat, &lng, &rest); n == 2 {
		return routing.PointLocation(geo.Point{Latitude: lat, Longitude: lng})
	}
	return routing.AddressLocation(s)
}

func printSummary(req services.SimulateRequest, durationSeconds, steps int) {
	fmt.Printf("GPS Route Simulation\n")
	fmt.Printf("====================\n")
	fmt.Printf("Origin: %s\n", req.Origin)
	fmt.Printf("Destination: %s\n", req.Destination)
	fmt.Printf("Speed: %.1f km/h\n", req.SpeedKmh)
	fmt.Printf("\n")
	fmt.Printf("Duration: %.1f minutes (%d s)\n", float64(durationSeconds)/60.0, durationSeconds)
	fmt.Printf("Steps: %d\n", steps)
}

func writeJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Failed to write JSON: %v", err)
	}
}
