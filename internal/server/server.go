package server

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/enerlytics/roomscan/internal/config"
	"github.com/enerlytics/roomscan/internal/core"
	"github.com/enerlytics/roomscan/internal/core/model"
	"github.com/enerlytics/roomscan/internal/detect"
	"github.com/enerlytics/roomscan/internal/store"
)

type Server struct {
	Detector *core.Detector
	Port     string
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using built-in defaults", cfgPath, err)
		cfg = config.Default()
	}

	// Override config with env vars if present (simple override logic)
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("WORKSPACE_ROOT"); v != "" {
		cfg.Storage.WorkspaceRoot = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("DETECTOR_ENGINE"); v != "" {
		cfg.Detector.Engine = v
	}
	if v := os.Getenv("DETECTOR_INTERPRETER"); v != "" {
		cfg.Detector.Interpreter = v
	}
	if v := os.Getenv("DETECTOR_SCRIPT"); v != "" {
		cfg.Detector.Script = v
	}

	ws, err := store.NewWorkspace(cfg.Storage.WorkspaceRoot)
	if err != nil {
		log.Fatalf("Failed to open workspace root: %v", err)
	}

	artifacts, err := store.NewArtifactStore(cfg.Storage.DataDir, cfg.Storage.CacheEntries)
	if err != nil {
		log.Fatalf("Failed to open artifact store: %v", err)
	}

	engine, err := detect.NewEngine(cfg.Detector)
	if err != nil {
		log.Fatalf("Failed to initialize detection engine: %v", err)
	}

	log.Printf("Workspace root: %s, data dir: %s", ws.Root(), artifacts.DataDir())

	return &Server{
		Detector: core.NewDetector(engine, ws, artifacts, cfg.Results),
		Port:     cfg.Server.Port,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(RequestID(), CORS())

	r.GET("/healthz", s.Health)

	api := r.Group("/api/room-detection")
	api.POST("/opencv", s.DetectRooms)
	api.GET("/floors", s.ListFloors)
	api.GET("/floors/:floorId", s.FloorResult)

	return r
}

// NewHTTPServer wraps the router so HTTP/2 cleartext clients work too.
func NewHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:    ":" + port,
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}

func (s *Server) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) DetectRooms(c *gin.Context) {
	var req model.DetectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	doc, err := s.Detector.DetectRooms(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (s *Server) FloorResult(c *gin.Context) {
	doc, err := s.Detector.FloorResult(c.Param("floorId"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (s *Server) ListFloors(c *gin.Context) {
	floors, err := s.Detector.Floors()
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"floors": floors})
}

// respondError maps the error taxonomy onto status codes. Diagnostic text
// from the external process goes out unredacted in the details field.
func (s *Server) respondError(c *gin.Context, err error) {
	var vErr *core.ValidationError
	var nfErr *core.NotFoundError
	var pErr *core.ProcessingError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Msg})
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, gin.H{"error": nfErr.Msg})
	case errors.As(err, &pErr):
		log.Printf("Processing error: %v (cause: %v)", pErr.Msg, pErr.Err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": pErr.Msg, "details": pErr.Details})
	default:
		log.Printf("Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
