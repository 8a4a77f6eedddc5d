package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/padsync/padsync/internal/collab/service"
	"github.com/padsync/padsync/pkg/metrics"
)

// RegisterRoutes wires the synchronization protocol onto the engine:
// full fetch / edit on /document, the polling delta on /sync, and
// join / presence / leave on /users.
func RegisterRoutes(r *gin.Engine, svc *service.Service) {
	r.GET("/document", func(c *gin.Context) {
		st := svc.State()
		metrics.ActiveUsers.Set(float64(len(st.Users)))
		c.JSON(http.StatusOK, st)
	})

	r.POST("/document", func(c *gin.Context) {
		var req struct {
			Content string `json:"content"`
			UserID  string `json:"userId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		doc, users, err := svc.Edit(req.Content, req.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		metrics.EditsTotal.Inc()
		metrics.ActiveUsers.Set(float64(len(users)))
		c.JSON(http.StatusOK, gin.H{"document": doc, "users": users})
	})

	r.GET("/sync", func(c *gin.Context) {
		// malformed or absent version falls back to 0, forcing a full send
		since, err := strconv.Atoi(c.Query("version"))
		if err != nil {
			since = 0
		}
		res := svc.Sync(since)
		if res.Document != nil {
			metrics.SyncsTotal.WithLabelValues("full").Inc()
		} else {
			metrics.SyncsTotal.WithLabelValues("delta").Inc()
		}
		metrics.ActiveUsers.Set(float64(len(res.Users)))
		c.JSON(http.StatusOK, res)
	})

	r.POST("/users", func(c *gin.Context) {
		var req struct {
			Name   string `json:"name"`
			UserID string `json:"userId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		u, err := svc.Join(req.Name, req.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		metrics.JoinsTotal.Inc()
		c.JSON(http.StatusOK, gin.H{"user": u})
	})

	r.PUT("/users", func(c *gin.Context) {
		var req struct {
			UserID         string `json:"userId"`
			CursorPosition *int   `json:"cursorPosition"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.UpdatePresence(req.UserID, req.CursorPosition); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	r.DELETE("/users", func(c *gin.Context) {
		var req struct {
			UserID string `json:"userId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.Leave(req.UserID); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

// fail classifies service errors onto the wire: validation failures are
// the client's fault (400), anything else is surfaced as a generic 500.
func fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
