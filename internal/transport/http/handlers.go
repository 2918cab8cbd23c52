// Package http holds the REST handlers beside the signal channel.
package http

import (
	"net/http"
	"strings"

	"github.com/dkeye/CodeRoom/internal/app/orch"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/gin-gonic/gin"
)

type MembershipRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
	RoomID      string `json:"roomId" binding:"required"`
}

type MembershipResponse struct {
	Exists bool `json:"exists"`
}

type Handlers struct {
	Orch *orch.Orchestrator
}

func (h *Handlers) Register(api *gin.RouterGroup) {
	api.GET("/rooms", h.listRooms)
	api.POST("/rooms", h.createRoom)
	api.GET("/rooms/:id/members/:name", h.memberByPath)
	api.POST("/membership", h.membership)
}

func (h *Handlers) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Orch.ListRooms()})
}

func (h *Handlers) createRoom(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"roomId": h.Orch.NewRoom()})
}

// membership is the out-of-band liveness check.
func (h *Handlers) membership(c *gin.Context) {
	var req MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid displayName/roomId"})
		return
	}
	c.JSON(http.StatusOK, MembershipResponse{
		Exists: h.Orch.IsMember(domain.RoomID(strings.TrimSpace(req.RoomID)), strings.TrimSpace(req.DisplayName)),
	})
}

func (h *Handlers) memberByPath(c *gin.Context) {
	c.JSON(http.StatusOK, MembershipResponse{
		Exists: h.Orch.IsMember(domain.RoomID(c.Param("id")), c.Param("name")),
	})
}
