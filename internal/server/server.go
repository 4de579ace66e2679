package server

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/peterkacmarik/dockify/internal/api"
	"github.com/peterkacmarik/dockify/internal/auth"
	"github.com/peterkacmarik/dockify/internal/classifier"
	"github.com/peterkacmarik/dockify/internal/cleaner"
	"github.com/peterkacmarik/dockify/internal/config"
	"github.com/peterkacmarik/dockify/internal/exporter"
	"github.com/peterkacmarik/dockify/internal/fields"
	"github.com/peterkacmarik/dockify/internal/llm"
	"github.com/peterkacmarik/dockify/internal/store"
	"github.com/peterkacmarik/dockify/internal/wizard"
)

// Server wires the intake pipeline behind a gin HTTP server.
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
}

// NewServer builds the full service from configuration.
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if _, err := config.EnsureDataDir(cfg); err != nil {
		log.Printf("failed to prepare data directory: %v", err)
	}

	sqliteStore, err := store.New(config.GetDataPath(cfg, "", "dockify.db"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	fieldSvc, err := fields.NewService(sqliteStore)
	if err != nil {
		log.Fatalf("Failed to load field registry: %v", err)
	}

	analyzer := classifier.NewAnalyzer(classifier.DefaultRegistry(), classifier.Options{
		AnalysisRowLimit: cfg.Intake.AnalysisRowLimit,
		SampleRowCount:   cfg.Intake.SampleRowCount,
		WarningCap:       cfg.Intake.WarningCap,
	})

	enhancer := llm.NewAdapter(llm.Config{
		Enabled:             cfg.LLM.Enabled,
		Endpoint:            cfg.LLM.Endpoint,
		APIKey:              cfg.LLM.APIKey,
		Model:               cfg.LLM.Model,
		EscalationThreshold: cfg.LLM.EscalationThreshold,
	})

	manager := wizard.NewManager(wizard.Deps{
		Analyzer:  analyzer,
		Enhancer:  enhancer,
		Fields:    fieldSvc,
		Validator: cleaner.NewValidator(cfg.Intake.MaxQuantity),
		Exporter:  exporter.New(config.GetDataPath(cfg, "exports", "")),
		Store:     sqliteStore,
	})

	sessions := auth.NewCoordinator(auth.DefaultTTL)
	apiHandler := api.NewHandler(manager, fieldSvc, sqliteStore, sessions)

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		api:    apiHandler,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases the underlying store.
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore exposes the store for tests.
func (s *Server) GetStore() *store.Store {
	return s.store
}
