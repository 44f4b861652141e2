package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/admin-console/internal/api/dto"
	"github.com/unifiedui/admin-console/internal/api/middleware"
	"github.com/unifiedui/admin-console/internal/domain/errors"
	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/services/console"
)

// Dispatcher runs console commands.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd console.Command) console.Result
}

// ConsoleHandler exposes the admin console commands over HTTP.
type ConsoleHandler struct {
	console Dispatcher
}

// NewConsoleHandler creates a new ConsoleHandler.
func NewConsoleHandler(d Dispatcher) *ConsoleHandler {
	return &ConsoleHandler{console: d}
}

// Show handles GET /console
// @Summary Show console
// @Description Returns the console view: environment, loaded user and panel state
// @Tags Console
// @Produce json
// @Success 200 {object} console.Result
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin-console/console [get]
func (h *ConsoleHandler) Show(c *gin.Context) {
	h.dispatch(c, console.Show{})
}

// EditSearch handles PUT /console/search
// @Summary Edit search inputs
// @Description Records which search input the operator edited last and returns the search hint
// @Tags Console
// @Accept json
// @Produce json
// @Param request body dto.EditSearchRequest true "Search inputs"
// @Success 200 {object} console.Result
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin-console/console/search [put]
func (h *ConsoleHandler) EditSearch(c *gin.Context) {
	var req dto.EditSearchRequest
	if !bindJSON(c, &req) {
		return
	}

	h.dispatch(c, console.EditSearch{
		Field:      models.ParseSearchField(req.Field),
		IDInput:    req.UserID,
		EmailInput: req.Email,
	})
}

// FindUser handles POST /console/find
// @Summary Find user
// @Description Resolves a user by ID or email and loads it into the console
// @Tags Console
// @Accept json
// @Produce json
// @Param request body dto.FindUserRequest true "Search keys"
// @Success 200 {object} console.Result
// @Failure 400 {object} console.Result
// @Failure 404 {object} console.Result
// @Failure 502 {object} console.Result
// @Security BearerAuth
// @Router /api/v1/admin-console/console/find [post]
func (h *ConsoleHandler) FindUser(c *gin.Context) {
	var req dto.FindUserRequest
	if !bindJSON(c, &req) {
		return
	}

	h.dispatch(c, console.FindUser{
		IDInput:    req.UserID,
		EmailInput: req.Email,
		LastEdited: models.ParseSearchField(req.LastEdited),
	})
}

// Reset handles POST /console/reset
// @Summary Reset console
// @Description Clears the loaded user
// @Tags Console
// @Produce json
// @Success 200 {object} console.Result
// @Security BearerAuth
// @Router /api/v1/admin-console/console/reset [post]
func (h *ConsoleHandler) Reset(c *gin.Context) {
	h.dispatch(c, console.Reset{})
}

// Close handles POST /console/close
// @Summary Close console
// @Description Clears the loaded user and all session state
// @Tags Console
// @Produce json
// @Success 200 {object} console.Result
// @Security BearerAuth
// @Router /api/v1/admin-console/console/close [post]
func (h *ConsoleHandler) Close(c *gin.Context) {
	h.dispatch(c, console.Close{})
}

// Restore handles POST /console/restore
// @Summary Restore console
// @Description Reloads the user saved in session state
// @Tags Console
// @Produce json
// @Success 200 {object} console.Result
// @Security BearerAuth
// @Router /api/v1/admin-console/console/restore [post]
func (h *ConsoleHandler) Restore(c *gin.Context) {
	h.dispatch(c, console.RestoreSession{})
}

// GrantSubscription handles POST /console/subscription
// @Summary Activate subscription
// @Description Grants the environment's product subscription to the loaded user
// @Tags Console
// @Produce json
// @Success 200 {object} console.Result
// @Failure 400 {object} console.Result
// @Failure 422 {object} console.Result
// @Failure 502 {object} console.Result
// @Security BearerAuth
// @Router /api/v1/admin-console/console/subscription [post]
func (h *ConsoleHandler) GrantSubscription(c *gin.Context) {
	h.dispatch(c, console.GrantSubscription{})
}

// UpdateTokens handles PUT /console/tokens
// @Summary Update token balance
// @Description Sets the loaded user's token balance. Invalid or negative amounts are ignored.
// @Tags Console
// @Accept json
// @Produce json
// @Param request body dto.UpdateTokensRequest true "Token amount"
// @Success 200 {object} console.Result
// @Failure 400 {object} console.Result
// @Failure 502 {object} console.Result
// @Security BearerAuth
// @Router /api/v1/admin-console/console/tokens [put]
func (h *ConsoleHandler) UpdateTokens(c *gin.Context) {
	var req dto.UpdateTokensRequest
	if !bindJSON(c, &req) {
		return
	}

	h.dispatch(c, console.UpdateTokens{Amount: req.AmountText()})
}

// ToggleFeature handles POST /console/features/{key}/toggle
// @Summary Toggle feature
// @Description Flips a feature flag of the loaded user
// @Tags Features
// @Produce json
// @Param key path string true "Feature key"
// @Success 200 {object} console.Result
// @Failure 400 {object} console.Result
// @Failure 409 {object} console.Result
// @Failure 502 {object} console.Result
// @Security BearerAuth
// @Router /api/v1/admin-console/console/features/{key}/toggle [post]
func (h *ConsoleHandler) ToggleFeature(c *gin.Context) {
	h.dispatch(c, console.ToggleFeature{Key: c.Param("key")})
}

// SetFeature handles PUT /console/features/{key}
// @Summary Set feature value
// @Description Sets a feature value of the loaded user. Numeric features parse text input.
// @Tags Features
// @Accept json
// @Produce json
// @Param key path string true "Feature key"
// @Param request body dto.SetFeatureRequest true "Feature value"
// @Success 200 {object} console.Result
// @Failure 400 {object} console.Result
// @Failure 409 {object} console.Result
// @Failure 502 {object} console.Result
// @Security BearerAuth
// @Router /api/v1/admin-console/console/features/{key} [put]
func (h *ConsoleHandler) SetFeature(c *gin.Context) {
	var req dto.SetFeatureRequest
	if !bindJSON(c, &req) {
		return
	}

	h.dispatch(c, console.SetFeature{Key: c.Param("key"), Value: *req.Value})
}

// ListOptions handles GET /console/features/{key}/options
// @Summary List feature options
// @Description Lists the selectable values of an option-backed feature
// @Tags Features
// @Produce json
// @Param key path string true "Feature key"
// @Success 200 {object} console.Result
// @Failure 400 {object} console.Result
// @Security BearerAuth
// @Router /api/v1/admin-console/console/features/{key}/options [get]
func (h *ConsoleHandler) ListOptions(c *gin.Context) {
	h.dispatch(c, console.ListOptions{Key: c.Param("key")})
}

// SetFeatureFromOption handles PUT /console/features/{key}/option
// @Summary Choose feature option
// @Description Sets an option-backed feature to one of its listed values
// @Tags Features
// @Accept json
// @Produce json
// @Param key path string true "Feature key"
// @Param request body dto.SetFeatureOptionRequest true "Option"
// @Success 200 {object} console.Result
// @Failure 400 {object} console.Result
// @Failure 502 {object} console.Result
// @Security BearerAuth
// @Router /api/v1/admin-console/console/features/{key}/option [put]
func (h *ConsoleHandler) SetFeatureFromOption(c *gin.Context) {
	var req dto.SetFeatureOptionRequest
	if !bindJSON(c, &req) {
		return
	}

	h.dispatch(c, console.SetFeatureFromOption{Key: c.Param("key"), Option: req.Option})
}

// ToggleCollapse handles POST /console/panel/toggle-collapse
// @Summary Toggle panel collapse
// @Tags Panel
// @Produce json
// @Success 200 {object} console.Result
// @Security BearerAuth
// @Router /api/v1/admin-console/console/panel/toggle-collapse [post]
func (h *ConsoleHandler) ToggleCollapse(c *gin.Context) {
	h.dispatch(c, console.ToggleCollapse{})
}

// SetCollapsed handles PUT /console/panel/collapsed
// @Summary Set panel collapse
// @Tags Panel
// @Accept json
// @Produce json
// @Param request body dto.SetCollapsedRequest true "Collapsed flag"
// @Success 200 {object} console.Result
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin-console/console/panel/collapsed [put]
func (h *ConsoleHandler) SetCollapsed(c *gin.Context) {
	var req dto.SetCollapsedRequest
	if !bindJSON(c, &req) {
		return
	}

	h.dispatch(c, console.SetCollapsed{Collapsed: *req.Collapsed})
}

// MovePanel handles PUT /console/panel/position
// @Summary Move panel
// @Tags Panel
// @Accept json
// @Produce json
// @Param request body dto.MovePanelRequest true "Panel position"
// @Success 200 {object} console.Result
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin-console/console/panel/position [put]
func (h *ConsoleHandler) MovePanel(c *gin.Context) {
	var req dto.MovePanelRequest
	if !bindJSON(c, &req) {
		return
	}

	h.dispatch(c, console.MovePanel{Position: models.Position{Left: req.Left, Top: req.Top}})
}

// dispatch runs cmd and writes the result. Failed commands still carry the current view.
func (h *ConsoleHandler) dispatch(c *gin.Context, cmd console.Command) {
	res := h.console.Dispatch(c.Request.Context(), cmd)

	status := http.StatusOK
	code := ""
	if !res.OK {
		status = http.StatusInternalServerError
		code = errors.ErrCodeInternal
		if res.Error != nil {
			code = res.Error.Code
			if res.Error.HTTPStatus != 0 {
				status = res.Error.HTTPStatus
			}
		}
	}

	middleware.SetOutcome(c, res.Action, code)
	c.JSON(status, res)
}

func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return false
	}
	return true
}
