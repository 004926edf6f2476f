package handlers

import (
	"errors"
	"net/http"

	"water_heater/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK            = "ok"
	statusTargetSet     = "target_set"
	statusBoost         = "boost_requested"
	statusGreen         = "green_requested"
	statusHeartbeatDone = "heartbeat_done"

	errGetState        = "failed to load state"
	errCommandFailed   = "heater did not accept the mode change"
	errTelemetry       = "heater telemetry unavailable"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondWithController answers 200 with status and the live controller snapshot.
func (h *Handler) respondWithController(c *gin.Context, status string, extra gin.H) {
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	resp["controller"] = h.services.Thermo.Snapshot()
	c.JSON(http.StatusOK, resp)
}

// commandError maps controller errors onto HTTP status codes.
func (h *Handler) commandError(c *gin.Context, logKey string, err error) {
	switch {
	case errors.Is(err, service.ErrTargetOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrFetchExhausted):
		h.logAndJSONError(c, http.StatusBadGateway, errTelemetry, logKey, err, "operator_id", operatorID(c))
	case errors.Is(err, service.ErrModeCommand):
		if h.log != nil {
			h.log.Errorw(logKey, "err", err, "operator_id", operatorID(c))
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      errCommandFailed,
			"controller": h.services.Thermo.Snapshot(),
		})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "internal error", logKey, err, "operator_id", operatorID(c))
	}
}

// Request DTO for setting the target.
type targetRequest struct {
	TargetTempC *float64 `json:"target_temp_c" binding:"required"`
}

// SetTargetRequest is an exported model for Swagger docs of the setTarget payload.
type SetTargetRequest struct {
	// Target temperature in Celsius, 40..70 inclusive
	TargetTempC float64 `json:"target_temp_c" example:"55"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get persisted heater state
// @Tags         heater
// @Produce      json
// @Success      200  {object}  models.HeaterState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/heater/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "heater_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Get live controller state
// @Tags         heater
// @Produce      json
// @Success      200  {object}  service.ControllerState
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/heater/controller [get]
// @Security     BearerAuth
func (h *Handler) getController(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Thermo.Snapshot())
}

// @Summary      Set target temperature
// @Description  Stores a boost target; the next heartbeat acts on it.
// @Tags         heater
// @Accept       json
// @Produce      json
// @Param        body  body   SetTargetRequest  true  "Target payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/heater/target [post]
// @Security     BearerAuth
func (h *Handler) setTarget(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	v, err := h.services.Thermo.SetTargetTemperature(c.Request.Context(), *req.TargetTempC)
	if err != nil {
		h.commandError(c, "heater_set_target_failed", err)
		return
	}
	h.respondWithController(c, statusTargetSet, gin.H{"target_temp_c": v})
}

// @Summary      Boost
// @Description  Requests BOOST mode and sets the target to 70 °C.
// @Tags         heater
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/v1/heater/boost [post]
// @Security     BearerAuth
func (h *Handler) boost(c *gin.Context) {
	if err := h.services.Thermo.Boost(c.Request.Context()); err != nil {
		h.commandError(c, "heater_boost_failed", err)
		return
	}
	h.respondWithController(c, statusBoost, nil)
}

// @Summary      Green
// @Description  Requests GREEN mode.
// @Tags         heater
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/v1/heater/green [post]
// @Security     BearerAuth
func (h *Handler) green(c *gin.Context) {
	if err := h.services.Thermo.Green(c.Request.Context()); err != nil {
		h.commandError(c, "heater_green_failed", err)
		return
	}
	h.respondWithController(c, statusGreen, nil)
}

// @Summary      Run a control cycle now
// @Tags         heater
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/v1/heater/heartbeat [post]
// @Security     BearerAuth
func (h *Handler) heartbeat(c *gin.Context) {
	if err := h.services.Thermo.Heartbeat(c.Request.Context()); err != nil {
		h.commandError(c, "heater_heartbeat_failed", err)
		return
	}
	h.respondWithController(c, statusHeartbeatDone, nil)
}
