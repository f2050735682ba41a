package services

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"zc_toolbox_bot/db"
	"zc_toolbox_bot/models"
)

const openTicketsLimit = 10

const (
	callbackReport  = "report"
	callbackTickets = "tickets"
	callbackCancel  = "cancel"
)

// Store is the slice of the graph store the handlers need.
type Store interface {
	CreateTicket(ctx context.Context, reporter db.Reporter, draft db.TicketDraft) (models.Ticket, error)
	ListOpenTickets(ctx context.Context, limit int) ([]models.Ticket, error)
}

// Sender is the slice of the bot API the handlers need. *tgbotapi.BotAPI
// satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	bot     Sender
	store   Store
	tracker *Tracker
	log     *zap.Logger
}

func NewHandler(bot Sender, store Store, tracker *Tracker, log *zap.Logger) *Handler {
	return &Handler{bot: bot, store: store, tracker: tracker, log: log}
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			h.tracker.Reset(userID)
			h.sendMainMenu(chatID)
		case "report":
			h.startReport(userID, chatID)
		case "tickets":
			h.listTickets(ctx, chatID)
		case "cancel":
			h.tracker.Reset(userID)
			h.send(tgbotapi.NewMessage(chatID, "Operation cancelled. Type /start to begin again."))
		default:
			h.send(tgbotapi.NewMessage(chatID, "Unknown command. Type /start for the menu."))
		}
		return
	}

	conv := h.tracker.Get(userID)
	switch conv.State {
	case StateSelectFeature:
		// Users sometimes type the button label instead of tapping it.
		feature, ok := models.ParseFeature(strings.TrimSpace(msg.Text))
		if !ok {
			h.promptFeature(chatID, "That doesn't look like one of the features. Please pick one:")
			return
		}
		h.featureChosen(userID, chatID, feature)

	case StateAwaitCourse:
		code := strings.ToUpper(strings.TrimSpace(msg.Text))
		if code == "" {
			h.send(tgbotapi.NewMessage(chatID, "Please send the course code (e.g., CSEN101)."))
			return
		}
		conv.CourseCode = code
		conv.State = StateAwaitDescription
		h.tracker.Set(userID, conv)
		h.send(tgbotapi.NewMessage(chatID, "Got it. Now describe the problem you ran into."))

	case StateAwaitDescription:
		description := strings.TrimSpace(msg.Text)
		if description == "" {
			h.send(tgbotapi.NewMessage(chatID, "The description can't be empty. Please describe the bug."))
			return
		}
		h.createTicket(ctx, msg.From, chatID, conv, description)

	default:
		h.sendMainMenu(chatID)
	}
}

func (h *Handler) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID
	data := callback.Data

	if _, err := h.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		h.log.Warn("failed to answer callback query", zap.Error(err))
	}

	switch data {
	case callbackReport:
		h.startReport(userID, chatID)
	case callbackTickets:
		h.listTickets(ctx, chatID)
	case callbackCancel:
		h.tracker.Reset(userID)
		h.send(tgbotapi.NewMessage(chatID, "🚫 Report cancelled."))
	default:
		conv := h.tracker.Get(userID)
		if conv.State != StateSelectFeature {
			// Stale button press from an earlier menu.
			h.sendMainMenu(chatID)
			return
		}
		feature, ok := models.ParseFeature(data)
		if !ok {
			h.log.Warn("unrecognized feature callback", zap.String("data", data), zap.Int64("user_id", userID))
			h.promptFeature(chatID, "Please select one of the features below:")
			return
		}
		h.featureChosen(userID, chatID, feature)
	}
}

func (h *Handler) startReport(userID, chatID int64) {
	h.tracker.Set(userID, Conversation{State: StateSelectFeature})
	h.promptFeature(chatID, "Please select the feature where you encountered the bug:")
}

func (h *Handler) featureChosen(userID, chatID int64, feature models.Feature) {
	conv := Conversation{Feature: feature}
	if feature.TracksCourse() {
		conv.State = StateAwaitCourse
		h.tracker.Set(userID, conv)
		h.send(tgbotapi.NewMessage(chatID, "Which course is this about? Send the course code (e.g., CSEN101)."))
		return
	}
	conv.State = StateAwaitDescription
	h.tracker.Set(userID, conv)
	h.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Please describe the bug you found in %s.", feature)))
}

func (h *Handler) createTicket(ctx context.Context, from *tgbotapi.User, chatID int64, conv Conversation, description string) {
	reporter := db.Reporter{
		TelegramID: from.ID,
		Username:   from.UserName,
		FirstName:  from.FirstName,
	}
	draft := db.TicketDraft{
		Feature:     conv.Feature,
		CourseCode:  conv.CourseCode,
		Description: description,
	}

	h.tracker.Reset(from.ID)

	if _, err := h.store.CreateTicket(ctx, reporter, draft); err != nil {
		h.log.Error("failed to save ticket",
			zap.Int64("user_id", from.ID),
			zap.String("feature", string(conv.Feature)),
			zap.Error(err))
		h.send(tgbotapi.NewMessage(chatID, "❌ There was an error saving your ticket. Please try again later."))
		return
	}

	h.send(tgbotapi.NewMessage(chatID, "✅ Ticket created successfully! Thank you for your feedback."))
	h.sendMainMenu(chatID)
}

func (h *Handler) listTickets(ctx context.Context, chatID int64) {
	tickets, err := h.store.ListOpenTickets(ctx, openTicketsLimit)
	if err != nil {
		h.log.Error("failed to fetch open tickets", zap.Error(err))
		h.send(tgbotapi.NewMessage(chatID, "Sorry, I couldn't retrieve the tickets right now."))
		return
	}

	if len(tickets) == 0 {
		h.send(tgbotapi.NewMessage(chatID, "🎉 No open tickets found! Everything seems to be working smoothly."))
		return
	}

	h.send(tgbotapi.NewMessage(chatID, renderTickets(tickets)))
}

func renderTickets(tickets []models.Ticket) string {
	var b strings.Builder
	b.WriteString("📋 Open Tickets:\n")
	for _, t := range tickets {
		course := ""
		if t.CourseCode != "" {
			course = fmt.Sprintf(" [%s]", t.CourseCode)
		}
		fmt.Fprintf(&b, "\n🔹 %s%s: %s\n%s\n", t.Feature, course, t.Description, t.CreatedAt.Format("2006-01-02"))
	}
	return b.String()
}

func (h *Handler) sendMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Welcome to the ZC Toolbox Support Bot! 🛠️\nHow can I help you today?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🐞 Report a Bug", callbackReport),
			tgbotapi.NewInlineKeyboardButtonData("📋 View Open Tickets", callbackTickets),
		),
	)
	h.send(msg)
}

func (h *Handler) promptFeature(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = featureKeyboard()
	h.send(msg)
}

func featureKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(string(models.FeatureStopList), string(models.FeatureStopList)),
			tgbotapi.NewInlineKeyboardButtonData(string(models.FeatureGPA), string(models.FeatureGPA)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(string(models.FeatureCoursework), string(models.FeatureCoursework)),
			tgbotapi.NewInlineKeyboardButtonData(string(models.FeaturePlanner), string(models.FeaturePlanner)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(string(models.FeatureOthers), string(models.FeatureOthers)),
			tgbotapi.NewInlineKeyboardButtonData("🚫 Cancel", callbackCancel),
		),
	)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.log.Warn("failed to send message", zap.Error(err))
	}
}
