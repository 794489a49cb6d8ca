package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"voicehub/internal/model"
	"voicehub/pkg/database"
	"voicehub/pkg/logger"
	"voicehub/prometheus"
)

// Voice agent CRUD, scoped to the active organization resolved by the
// middleware. Write access is enforced by RequirePermission on the routes.

// ListAgents returns the active organization's voice agents.
func ListAgents(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAgentOperation("list")

	orgID, ok := c.Get("active_org_id").(uint)
	if !ok {
		log.Error("Failed to get active organization from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "organization context required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var agents []model.VoiceAgent
	if result := database.GetDB().Where("organization_id = ?", orgID).Order("created_at DESC").Find(&agents); result.Error != nil {
		log.Error("Failed to list agents", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list agents"})
	}

	return c.JSON(http.StatusOK, agents)
}

// GetAgent returns one voice agent belonging to the active organization.
func GetAgent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAgentOperation("get")

	orgID, ok := c.Get("active_org_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "organization context required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid agent ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var agent model.VoiceAgent
	if result := database.GetDB().Where("id = ? AND organization_id = ?", id, orgID).First(&agent); result.Error != nil {
		log.Warn("Agent not found", zap.Uint64("id", id), zap.Uint("organization_id", orgID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "agent not found"})
	}

	return c.JSON(http.StatusOK, agent)
}

// CreateAgent creates a voice agent in the active organization.
func CreateAgent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAgentOperation("create")

	orgID, ok := c.Get("active_org_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "organization context required"})
	}

	var req struct {
		Name        string `json:"name"`
		Greeting    string `json:"greeting,omitempty"`
		Language    string `json:"language,omitempty"`
		Voice       string `json:"voice,omitempty"`
		Prompt      string `json:"prompt,omitempty"`
		PhoneNumber string `json:"phone_number,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse agent creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if req.Language == "" {
		req.Language = "es"
	}

	agent := model.VoiceAgent{
		OrganizationID: orgID,
		Name:           req.Name,
		Greeting:       req.Greeting,
		Language:       req.Language,
		Voice:          req.Voice,
		Prompt:         req.Prompt,
		PhoneNumber:    req.PhoneNumber,
		Active:         true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&agent); result.Error != nil {
		log.Error("Failed to create agent", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create agent"})
	}

	log.Info("Agent created",
		zap.Uint("id", agent.ID),
		zap.Uint("organization_id", orgID),
		zap.String("name", agent.Name))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Agent created successfully",
		"agent":   agent,
	})
}

// UpdateAgent updates a voice agent's configuration.
func UpdateAgent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAgentOperation("update")

	orgID, ok := c.Get("active_org_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "organization context required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid agent ID"})
	}

	var req struct {
		Name        *string `json:"name,omitempty"`
		Greeting    *string `json:"greeting,omitempty"`
		Language    *string `json:"language,omitempty"`
		Voice       *string `json:"voice,omitempty"`
		Prompt      *string `json:"prompt,omitempty"`
		PhoneNumber *string `json:"phone_number,omitempty"`
		Active      *bool   `json:"active,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse agent update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var agent model.VoiceAgent
	if result := database.GetDB().Where("id = ? AND organization_id = ?", id, orgID).First(&agent); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "agent not found"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		updates["name"] = *req.Name
	}
	if req.Greeting != nil {
		updates["greeting"] = *req.Greeting
	}
	if req.Language != nil {
		updates["language"] = *req.Language
	}
	if req.Voice != nil {
		updates["voice"] = *req.Voice
	}
	if req.Prompt != nil {
		updates["prompt"] = *req.Prompt
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := database.GetDB().Model(&agent).Updates(updates).Error; err != nil {
			log.Error("Failed to update agent", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update agent"})
		}
	}

	log.Info("Agent updated", zap.Uint("id", agent.ID), zap.Uint("organization_id", orgID))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Agent updated successfully",
		"agent":   agent,
	})
}

// DeleteAgent soft-deletes a voice agent.
func DeleteAgent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAgentOperation("delete")

	orgID, ok := c.Get("active_org_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "organization context required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid agent ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("id = ? AND organization_id = ?", id, orgID).Delete(&model.VoiceAgent{})
	if result.Error != nil {
		log.Error("Failed to delete agent", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete agent"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "agent not found"})
	}

	log.Info("Agent deleted", zap.Uint64("id", id), zap.Uint("organization_id", orgID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Agent deleted successfully"})
}
