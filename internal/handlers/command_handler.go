package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "gestaofinanceira/internal/errors"
	"gestaofinanceira/internal/logger"
	"gestaofinanceira/internal/services"
)

// CommandHandler exposes the free-text command interpreter
type CommandHandler struct {
	commandService services.CommandServicer
	userService    services.UserServicer
	auditService   services.AuditServicer
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(commandService services.CommandServicer, userService services.UserServicer, auditService services.AuditServicer) *CommandHandler {
	return &CommandHandler{commandService: commandService, userService: userService, auditService: auditService}
}

// CommandRequest carries a dictated or typed phrase
type CommandRequest struct {
	Command string `json:"command" binding:"required,max=1000"`
}

// HookCommandRequest is a CommandRequest from a shortcut that names its user
type HookCommandRequest struct {
	Command string `json:"command" binding:"required,max=1000"`
	Email   string `json:"email" binding:"required,email"`
}

// CommandResponse reports the outcome of a command. Message is in Portuguese
// and meant to be read back to the user.
type CommandResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Record  *RecordResponse `json:"record,omitempty"`
}

// ExecuteCommand interprets a phrase for the authenticated user
// @Summary     Execute a command
// @Description Interpret a phrase such as "gastei 50 com mercado" and record it
// @Tags        commands
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CommandRequest true "Command text"
// @Success     201 {object} CommandResponse "Record created"
// @Failure     400 {object} CommandResponse "Invalid amount or input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} CommandResponse "Category exists with the other kind"
// @Failure     422 {object} CommandResponse "Command not recognized"
// @Failure     500 {object} CommandResponse "Server error"
// @Router      /commands [post]
func (h *CommandHandler) ExecuteCommand(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondCommandError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "O campo \"command\" é obrigatório."))
		return
	}

	h.interpret(c, userID, req.Command)
}

// ExecuteHookCommand interprets a phrase sent by a voice shortcut
// @Summary     Execute a command from a shortcut
// @Description Same as /commands, authenticated by API key and attributed to the user with the given email
// @Tags        commands
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body HookCommandRequest true "Command text and user email"
// @Success     201 {object} CommandResponse "Record created"
// @Failure     400 {object} CommandResponse "Invalid amount or input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} CommandResponse "User not found"
// @Failure     409 {object} CommandResponse "Category exists with the other kind"
// @Failure     422 {object} CommandResponse "Command not recognized"
// @Failure     500 {object} CommandResponse "Server error"
// @Router      /hooks/command [post]
func (h *CommandHandler) ExecuteHookCommand(c *gin.Context) {
	var req HookCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondCommandError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Os campos \"command\" e \"email\" são obrigatórios."))
		return
	}

	user, err := h.userService.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		respondCommandError(c, err)
		return
	}

	h.interpret(c, user.ID, req.Command)
}

func (h *CommandHandler) interpret(c *gin.Context, userID, text string) {
	result, err := h.commandService.Interpret(userID, text)
	if err != nil {
		respondCommandError(c, err)
		return
	}

	changes := map[string]interface{}{"amount": result.Amount, "kind": result.Kind}
	if result.CategoryCreated {
		h.auditService.Log(userID, "CREATE_CATEGORY", "category", result.Category.ID, c.ClientIP(),
			map[string]interface{}{"name": result.Category.Name, "kind": result.Category.Kind, "source": "command"})
	}
	h.auditService.Log(userID, "CREATE_RECORD", "record", result.Record.ID, c.ClientIP(), changes)

	resp := toRecordResponse(result.Record)
	c.JSON(http.StatusCreated, CommandResponse{
		Success: true,
		Message: result.Message,
		Code:    "RECORD_CREATED",
		Record:  &resp,
	})
}

// respondCommandError writes a failed CommandResponse. AppError messages are
// user-facing; anything else becomes a generic internal error.
func respondCommandError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected command error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
		)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		logger.Get().Errorw("command error",
			"code", appErr.Code,
			"internal", appErr.Internal.Error(),
		)
	}

	c.JSON(appErr.StatusCode, CommandResponse{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}
