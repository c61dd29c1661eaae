// main.go
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/apex/log"
	"github.com/joho/godotenv"

	"github.com/fibretrack/sow-backend/config"
	"github.com/fibretrack/sow-backend/database"
	"github.com/fibretrack/sow-backend/handlers"
	"github.com/fibretrack/sow-backend/services"
)

func main() {
	log.Info("starting fibretrack SOW backend")

	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found, using system environment variables")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	log.Infof("configuration loaded, server port %s, db name %s", cfg.Server.Port, cfg.Database.DBName)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	poleStore := database.NewPoleStore(db)
	dropStore := database.NewDropStore(db)
	fibreStore := database.NewFibreStore(db)
	summaryStore := database.NewSummaryStore(db)

	summaryService := services.NewSummaryService(poleStore, dropStore, fibreStore, summaryStore)
	ingestService := services.NewIngestService(poleStore, dropStore, fibreStore, summaryService)
	exportService := services.NewExportService(poleStore, dropStore, fibreStore)

	sowHandler := handlers.NewSowHandler(
		ingestService, summaryService, exportService,
		poleStore, dropStore, fibreStore,
		cfg.MaxUploadBytes(),
	)

	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(); err != nil {
			http.Error(w, `{"status": "error", "message": "database connection error"}`, http.StatusInternalServerError)
			log.Errorf("health check failed: db ping error: %v", err)
			return
		}
		fmt.Fprintln(w, `{"status": "ok", "message": "fibretrack SOW backend is healthy"}`)
	})
	http.Handle("/api/projects/", sowHandler)

	serverAddr := ":" + cfg.Server.Port
	log.Infof("server starting on http://localhost%s", serverAddr)
	if err := http.ListenAndServe(serverAddr, nil); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
