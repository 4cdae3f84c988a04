package controllers

import (
	"net/http"

	"meetingplanner/internal/delivery/http/helpers"
	"meetingplanner/internal/domain"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Meetings int    `json:"meetings"`
}

type HealthController struct {
	Store domain.MeetingStore
}

func NewHealthController(store domain.MeetingStore) *HealthController {
	return &HealthController{Store: store}
}

// Health godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains status and the number of stored meetings"
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "ok", Meetings: c.Store.Len()})
}
