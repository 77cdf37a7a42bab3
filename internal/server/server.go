// Package server exposes the HTTP API and the inbox page.
package server

import (
	_ "embed"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jeroen-stam/Budgetting-app/internal/engine"
	"github.com/jeroen-stam/Budgetting-app/internal/logging"
	"github.com/jeroen-stam/Budgetting-app/internal/models"
	"github.com/jeroen-stam/Budgetting-app/internal/store"
)

//go:embed index.html
var indexHTML []byte

const (
	defaultLimit = 50
)

// Server wires the store, the rule engine and the gin router.
type Server struct {
	store  *store.Store
	engine *engine.Engine
	logger logging.Logger
	router *gin.Engine
}

// New creates a Server with all routes registered. A nil logger gets a
// default one.
func New(st *store.Store, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	s := &Server{
		store:  st,
		engine: engine.New(st, logger),
		logger: logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", s.handleIndex)
	router.GET("/transactions", s.handleTransactions)
	router.GET("/transactions/uncategorized", s.handleUncategorized)
	router.GET("/categories", s.handleCategories)
	router.POST("/rules", s.handleAddRule)
	router.POST("/apply-rules", s.handleApplyRules)
	router.POST("/transaction/:id/set-category", s.handleSetCategory)

	s.router = router
	return s
}

// Router returns the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves HTTP on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.WithField("addr", addr).Info("Serving budget inbox")
	return s.router.Run(addr)
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *Server) handleTransactions(c *gin.Context) {
	profileID, ok := queryInt64(c, "profile_id", models.DefaultProfileID)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", defaultLimit)
	if !ok {
		return
	}

	rows, err := s.store.Transactions(profileID, limit)
	if err != nil {
		s.fail(c, "list transactions", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) handleUncategorized(c *gin.Context) {
	profileID, ok := queryInt64(c, "profile_id", models.DefaultProfileID)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", defaultLimit)
	if !ok {
		return
	}

	rows, err := s.store.Uncategorized(profileID, limit)
	if err != nil {
		s.fail(c, "list uncategorized transactions", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) handleCategories(c *gin.Context) {
	profileID, ok := queryInt64(c, "profile_id", models.DefaultProfileID)
	if !ok {
		return
	}

	cats, err := s.store.Categories(profileID)
	if err != nil {
		s.fail(c, "list categories", err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (s *Server) handleAddRule(c *gin.Context) {
	profileID, ok := queryInt64(c, "profile_id", models.DefaultProfileID)
	if !ok {
		return
	}
	keyword := c.Query("keyword")
	category := strings.TrimSpace(c.Query("category"))

	// Keywords keep inner/trailing whitespace (short keywords rely on a
	// trailing space), but a blank keyword is still invalid.
	if strings.TrimSpace(keyword) == "" || category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword and category are required"})
		return
	}

	if err := s.store.AddUserRule(profileID, keyword, category); err != nil {
		s.fail(c, "add rule", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "rule added",
		"profile_id": profileID,
		"keyword":    keyword,
		"category":   category,
	})
}

func (s *Server) handleApplyRules(c *gin.Context) {
	profileID, ok := queryInt64(c, "profile_id", models.DefaultProfileID)
	if !ok {
		return
	}

	summary, err := s.engine.Apply(profileID)
	if err != nil {
		s.fail(c, "apply rules", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "rules applied",
		"profile_id":    profileID,
		"categorized":   summary.DefaultPass,
		"recategorized": summary.UserPass,
	})
}

func (s *Server) handleSetCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	var payload struct {
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || strings.TrimSpace(payload.Category) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}

	if err := s.store.SetTransactionCategory(id, payload.Category); err != nil {
		s.fail(c, "set category", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"transaction_id": id,
		"category":       payload.Category,
	})
}

// fail logs an unexpected store failure and answers with a 500.
func (s *Server) fail(c *gin.Context, op string, err error) {
	s.logger.WithError(err).WithField("op", op).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func queryInt64(c *gin.Context, name string, def int64) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	v, ok := queryInt64(c, name, int64(def))
	return int(v), ok
}
