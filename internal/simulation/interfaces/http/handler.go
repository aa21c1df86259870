package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/application"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/domain"
	"github.com/wyfcoding/rentvsbuy/pkg/logger"
)

// SimulationHandler 对比模拟 HTTP 处理器
type SimulationHandler struct {
	app *application.SimulationApplicationService
}

// NewSimulationHandler 创建 HTTP 处理器实例
func NewSimulationHandler(app *application.SimulationApplicationService) *SimulationHandler {
	return &SimulationHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *SimulationHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api/v1")
	{
		api.POST("/comparisons", h.Compare)
		api.POST("/comparisons/overlay", h.CompareOverlay)
		api.GET("/presets", h.ListPresets)
		api.GET("/presets/:name", h.GetPreset)
	}
}

// Compare 执行一次对比模拟，请求体可为空
func (h *SimulationHandler) Compare(c *gin.Context) {
	var cmd application.CompareCommand
	if !bindOptionalJSON(c, &cmd) {
		return
	}
	if c.Query("bands") == "true" {
		cmd.IncludeBands = true
	}

	dto, err := h.app.Compare(c.Request.Context(), cmd)
	if err != nil {
		h.fail(c, "Failed to run comparison", err)
		return
	}
	response.Success(c, dto)
}

// CompareOverlay 地区叠加对比
func (h *SimulationHandler) CompareOverlay(c *gin.Context) {
	var cmd application.OverlayCommand
	if !bindOptionalJSON(c, &cmd) {
		return
	}

	dto, err := h.app.CompareOverlay(c.Request.Context(), cmd)
	if err != nil {
		h.fail(c, "Failed to run overlay comparison", err)
		return
	}
	response.Success(c, dto)
}

// ListPresets 列出预设
func (h *SimulationHandler) ListPresets(c *gin.Context) {
	presets, err := h.app.ListPresets(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to list presets", err)
		return
	}
	response.Success(c, presets)
}

// GetPreset 获取预设
func (h *SimulationHandler) GetPreset(c *gin.Context) {
	name := c.Param("name")
	preset, err := h.app.GetPreset(c.Request.Context(), name)
	if err != nil {
		h.fail(c, "Failed to get preset", err)
		return
	}
	response.Success(c, preset)
}

func (h *SimulationHandler) fail(c *gin.Context, msg string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), msg, "error", err)
	} else {
		logger.Warn(c.Request.Context(), msg, "error", err)
	}
	response.ErrorWithStatus(c, status, err.Error(), "")
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParameters):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrPresetNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func bindOptionalJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}
