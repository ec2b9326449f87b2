package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/dpup/prefab"

	"github.com/dpup/routesim/server/internal/clients/google"
	"github.com/dpup/routesim/server/internal/config"
	"github.com/dpup/routesim/server/internal/handlers"
	"github.com/dpup/routesim/server/internal/services"
)

func main() {
	// Load configuration using Prefab's config system
	appConfig := loadConfig()

	provider, err := google.NewProvider(appConfig)
	if err != nil {
		log.Fatalf("Failed to create routing provider: %v", err)
	}

	simulationService := services.NewSimulationService(provider)
	simulateHandler := handlers.NewSimulateHandler(simulationService)

	log.Printf("GPS route simulator starting (provider: %s, travel mode: %s, timeout: %s)",
		appConfig.Provider, appConfig.TravelMode, appConfig.Google.Timeout)

	// Server configuration (port, etc.) is loaded by Prefab from prefab.yaml/env vars
	server := prefab.New(
		prefab.WithHTTPHandlerFunc("/simulate-route", simulateHandler.ServeHTTP),
		prefab.WithHTTPHandlerFunc("/", homepageHandler),
	)

	// Start the server (blocks until shutdown)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig loads the simulator section of Prefab's config on top of the defaults
// Configuration is loaded from prefab.yaml and environment variables with PF__ prefix
func loadConfig() *config.Config {
	appConfig := config.DefaultConfig()

	if err := prefab.Config.Unmarshal("simulator", appConfig); err != nil {
		log.Fatalf("Failed to unmarshal simulator section: %v", err)
	}

	appConfig.ApplyEnvFallbacks()
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return appConfig
}

// homepageHandler serves a simple HTML homepage at the server root
func homepageHandler(w http.ResponseWriter, r *http.Request) {
	// Only handle the root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>GPS route simulator</title>
    <style>
        body { 
            font-family: 'Courier New', Consolas, monospace; 
            background: #000; 
            color: #0f0; 
            padding: 20px; 
            line-height: 1.4; 
        }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">GPS route simulator</span>

Turns a Google route between two points into a once-per-second sequence of
simulated GPS fixes at a constant speed.

<span class="header">API Endpoint:</span>

  POST /simulate-route                 - Simulate a trip
       ?format=json|geojson|kml        - Output format (default json)
       ?startTime=RFC3339              - Trip start for KML timestamps

<span class="header">Request Body:</span>

  {
    "origin":      "Angels Camp, CA"  or {"lat": 38.0675, "lng": -120.5436},
    "destination": "Murphys, CA"      or {"lat": 38.1391, "lng": -120.4561},
    "speedKmh":    60
  }

<span class="header">Response:</span>

  {
    "totalDurationSeconds": 812,
    "steps": [{"lat": 38.0675, "lng": -120.5436, "timestamp": 0}, ...]
  }

<span class="header">Example Usage:</span>
  curl -X POST -H 'Content-Type: application/json' \
    -d '{"origin":"Angels Camp, CA","destination":"Murphys, CA","speedKmh":60}' \
    http://localhost:3000/simulate-route
</pre>
</body>
</html>`

	if _, err := fmt.Fprint(w, html); err != nil {
		slog.Error("Failed to write homepage HTML", "error", err)
	}
}
