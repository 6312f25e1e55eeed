package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gestaofinanceira/internal/services"
)

// TelegramHandler handles Telegram-related requests.
type TelegramHandler struct {
	telegramService services.TelegramServicer
	auditService    services.AuditServicer
}

// NewTelegramHandler creates a new TelegramHandler.
func NewTelegramHandler(telegramService services.TelegramServicer, auditService services.AuditServicer) *TelegramHandler {
	return &TelegramHandler{
		telegramService: telegramService,
		auditService:    auditService,
	}
}

// GetLink retrieves the user's Telegram link status
// @Summary     Get Telegram link status
// @Description Get the current Telegram link for the authenticated user
// @Tags        telegram
// @Accept      json
// @Produce     json
// @Success     200 {object} object "Link information"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /telegram/link [get]
// @Security    BearerAuth
func (h *TelegramHandler) GetLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	link, err := h.telegramService.GetLinkByUserID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"link": link,
	})
}

// GenerateCode generates a new link code for the user
// @Summary     Generate link code
// @Description Generate a new 6-character code; send "/vincular CODE" to the bot to finish linking
// @Tags        telegram
// @Accept      json
// @Produce     json
// @Success     200 {object} object "Link code generated"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /telegram/generate-code [post]
// @Security    BearerAuth
func (h *TelegramHandler) GenerateCode(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	link, err := h.telegramService.GenerateLinkCode(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "GENERATE_TELEGRAM_CODE", "telegram_link", link.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{
		"link_code":  link.LinkCode,
		"expires_at": link.LinkCodeExpiresAt,
	})
}

// Unlink unlinks the user's Telegram account
// @Summary     Unlink Telegram account
// @Description Remove the link between the Telegram account and this user
// @Tags        telegram
// @Accept      json
// @Produce     json
// @Success     200 {object} object "Success message"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /telegram/unlink [delete]
// @Security    BearerAuth
func (h *TelegramHandler) Unlink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.telegramService.UnlinkAccount(userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UNLINK_TELEGRAM", "telegram_link", "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{
		"message": "Telegram account unlinked successfully",
	})
}
