package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Assasans/protanki-server/internal/util"
)

// handleGetStatus reports the game listener alongside host load.
func (s *Server) handleGetStatus(c *gin.Context) {
	listen := ""
	if addr := s.game.Addr(); addr != nil {
		listen = addr.String()
	}

	status := gin.H{
		"version":        s.version,
		"listen_address": listen,
		"connections":    s.game.Connections().Count(),
		"packets":        s.game.Packets().Len(),
		"uptime_sec":     int64(time.Since(s.startedAt).Seconds()),
		"system":         util.GetSystemInfo(),
		"resources":      util.GetResourceUsage(),
	}
	if s.journal != nil {
		status["journal_dropped"] = s.journal.Dropped()
	}
	c.JSON(http.StatusOK, status)
}

// handleGetPackets lists every registered packet ordered by id.
func (s *Server) handleGetPackets(c *gin.Context) {
	entries := s.game.Packets().Entries()
	c.JSON(http.StatusOK, gin.H{
		"packets": entries,
		"total":   len(entries),
	})
}

func (s *Server) handleGetConnections(c *gin.Context) {
	conns := s.game.Connections().Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"connections": conns,
		"total":       len(conns),
	})
}

func (s *Server) handleGetConnection(c *gin.Context) {
	id, ok := parseConnID(c)
	if !ok {
		return
	}
	conn, found := s.game.Connections().Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "connection not found", "id": id.String()})
		return
	}
	c.JSON(http.StatusOK, conn.Info())
}

// handleCloseConnection disconnects a client.
func (s *Server) handleCloseConnection(c *gin.Context) {
	id, ok := parseConnID(c)
	if !ok {
		return
	}
	registry := s.game.Connections()
	if _, found := registry.Get(id); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "connection not found", "id": id.String()})
		return
	}
	registry.Unregister(id)

	log.Info().Str("conn_id", id.String()).Str("client_ip", c.ClientIP()).Msg("API: connection closed")
	c.JSON(http.StatusOK, gin.H{"status": "closed", "id": id.String()})
}

func parseConnID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid connection id"})
		return uuid.Nil, false
	}
	return id, true
}
