package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultFrameLimit = 100
	maxFrameLimit     = 1000
)

// handleGetFrames returns recent journaled frames, optionally filtered by
// the conn query parameter.
func (s *Server) handleGetFrames(c *gin.Context) {
	if s.journal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "journal disabled"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultFrameLimit)))
	if err != nil || limit < 1 {
		limit = defaultFrameLimit
	}
	limit = min(limit, maxFrameLimit)

	frames, err := s.journal.Recent(c.Query("conn"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"frames": frames,
		"count":  len(frames),
	})
}

func (s *Server) handleGetCounts(c *gin.Context) {
	if s.journal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "journal disabled"})
		return
	}

	counts, err := s.journal.Counts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"counts":  counts,
		"dropped": s.journal.Dropped(),
	})
}
