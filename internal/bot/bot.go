// Package bot is the Telegram front end: linked users send the same phrases
// the API accepts and get the interpreter's reply back as a chat message.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	apperrors "gestaofinanceira/internal/errors"
	"gestaofinanceira/internal/logger"
	"gestaofinanceira/internal/models"
	"gestaofinanceira/internal/money"
	"gestaofinanceira/internal/services"
)

// auditSource stands in for the client IP on audit entries written by the bot.
const auditSource = "telegram"

// Sender delivers outgoing messages. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Deps are the services the bot talks to.
type Deps struct {
	Telegram services.TelegramServicer
	Commands services.CommandServicer
	Reports  services.ReportServicer
	Audit    services.AuditServicer
}

// Bot answers Telegram messages.
type Bot struct {
	sender         Sender
	deps           Deps
	currencySymbol string
	now            func() time.Time
	log            *zap.SugaredLogger
}

// New creates a Bot replying through sender.
func New(sender Sender, deps Deps, currencySymbol string) *Bot {
	return &Bot{
		sender:         sender,
		deps:           deps,
		currencySymbol: currencySymbol,
		now:            time.Now,
		log:            logger.Named("bot"),
	}
}

// Run long-polls api for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, api *tgbotapi.BotAPI) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	b.log.Infow("bot started", "username", api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate replies to a single update. Non-message updates and messages
// outside private chats are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil || !msg.Chat.IsPrivate() {
		return
	}

	reply := b.Respond(ctx, msg)
	if reply == "" {
		return
	}
	if _, err := b.sender.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		b.log.Warnw("send failed", "chat_id", msg.Chat.ID, "error", err)
	}
}

// Respond computes the reply text for msg.
func (b *Bot) Respond(_ context.Context, msg *tgbotapi.Message) string {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return ""
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "ajuda", "help":
			return usageMessage
		case "vincular":
			return b.link(msg.From, msg.CommandArguments())
		case "resumo":
			return b.withLink(msg.From.ID, b.summary)
		case "desvincular":
			return b.withLink(msg.From.ID, b.unlink)
		default:
			return "Comando desconhecido. Envie /ajuda para ver o que eu entendo."
		}
	}

	return b.withLink(msg.From.ID, func(link *models.TelegramLink) string {
		return b.interpret(link, text)
	})
}

// withLink resolves the sender's link and runs fn, or explains how to link.
func (b *Bot) withLink(telegramUserID int64, fn func(link *models.TelegramLink) string) string {
	link, err := b.deps.Telegram.GetLinkByTelegramID(telegramUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTelegramNotLinked) {
			return notLinkedMessage
		}
		b.log.Errorw("link lookup failed", "telegram_user_id", telegramUserID, "error", err)
		return genericFailureMessage
	}

	if err := b.deps.Telegram.RecordActivity(telegramUserID); err != nil {
		b.log.Warnw("record activity failed", "telegram_user_id", telegramUserID, "error", err)
	}
	return fn(link)
}

func (b *Bot) link(from *tgbotapi.User, code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "Envie o código junto com o comando, por exemplo: /vincular ab12cd"
	}

	link, err := b.deps.Telegram.CompleteLink(code, from.ID, from.UserName, from.FirstName)
	switch {
	case err == nil:
		b.deps.Audit.Log(link.UserID, "LINK_TELEGRAM", "telegram_link", link.ID, auditSource,
			map[string]interface{}{"telegram_user_id": from.ID})
		return "Conta vinculada com sucesso! Agora é só me mandar frases como \"gastei 50 com mercado\"."
	case errors.Is(err, apperrors.ErrInvalidLinkCode):
		return "Código inválido. Gere um novo código no aplicativo e tente de novo."
	case errors.Is(err, apperrors.ErrLinkCodeExpired):
		return "Este código expirou. Gere um novo código no aplicativo."
	case errors.Is(err, apperrors.ErrTelegramAlreadyLinked):
		return "Esta conta do Telegram já está vinculada a outro usuário."
	default:
		b.log.Errorw("complete link failed", "telegram_user_id", from.ID, "error", err)
		return genericFailureMessage
	}
}

func (b *Bot) unlink(link *models.TelegramLink) string {
	if err := b.deps.Telegram.UnlinkAccount(link.UserID); err != nil {
		b.log.Errorw("unlink failed", "user_id", link.UserID, "error", err)
		return genericFailureMessage
	}
	b.deps.Audit.Log(link.UserID, "UNLINK_TELEGRAM", "telegram_link", link.ID, auditSource, nil)
	return "Conta desvinculada. Até a próxima!"
}

func (b *Bot) interpret(link *models.TelegramLink, text string) string {
	result, err := b.deps.Commands.Interpret(link.UserID, text)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr.Message
		}
		b.log.Errorw("interpret failed", "user_id", link.UserID, "error", err)
		return genericFailureMessage
	}

	if result.CategoryCreated {
		b.deps.Audit.Log(link.UserID, "CREATE_CATEGORY", "category", result.Category.ID, auditSource,
			map[string]interface{}{"name": result.Category.Name, "kind": result.Category.Kind, "source": "telegram"})
	}
	b.deps.Audit.Log(link.UserID, "CREATE_RECORD", "record", result.Record.ID, auditSource,
		map[string]interface{}{"amount": result.Amount, "kind": result.Kind, "source": "telegram"})

	return result.Message
}

// summary reports the current month up to today.
func (b *Bot) summary(_ *models.TelegramLink) string {
	today := models.DateOnly(b.now())
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	s, err := b.deps.Reports.Summary(services.RecordFilter{FromDate: &from, ToDate: &today})
	if err != nil {
		b.log.Errorw("summary failed", "error", err)
		return genericFailureMessage
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Resumo de %s a %s\n", from.Format("02/01/2006"), today.Format("02/01/2006"))
	fmt.Fprintf(&sb, "Entradas: %s\n", money.FormatCurrency(b.currencySymbol, s.TotalIncome))
	fmt.Fprintf(&sb, "Saídas: %s\n", money.FormatCurrency(b.currencySymbol, s.TotalExpense))
	fmt.Fprintf(&sb, "Saldo: %s", money.FormatCurrency(b.currencySymbol, s.Balance))

	if len(s.ExpenseBreakdown) > 0 {
		sb.WriteString("\n\nSaídas por categoria:")
		for _, e := range s.ExpenseBreakdown {
			fmt.Fprintf(&sb, "\n- %s: %s", e.Category, money.FormatCurrency(b.currencySymbol, e.Total))
		}
	}
	if len(s.IncomeBreakdown) > 0 {
		sb.WriteString("\n\nEntradas por categoria:")
		for _, e := range s.IncomeBreakdown {
			fmt.Fprintf(&sb, "\n- %s: %s", e.Category, money.FormatCurrency(b.currencySymbol, e.Total))
		}
	}
	return sb.String()
}
