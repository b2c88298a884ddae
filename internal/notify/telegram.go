package notify

import (
	"encoding/json"
	"fmt"

	"galli2globe/internal/currency"
	"galli2globe/internal/domain"
	"galli2globe/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramNotifier forwards booking and account events to the staff chat.
type TelegramNotifier struct {
	bot       domain.TelegramSender
	staffChat int64
	table     *currency.Table
	logger    *zerolog.Logger
}

func NewTelegramNotifier(bot domain.TelegramSender, staffChat int64, table *currency.Table, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:       bot,
		staffChat: staffChat,
		table:     table,
		logger:    logger,
	}
}

// SubscribeAll wires the notifier onto the bus.
func (n *TelegramNotifier) SubscribeAll(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, n.onBookingEvent("🆕 Новая заявка"))
	bus.Subscribe(events.EventBookingCanceled, n.onBookingEvent("❌ Заявка отменена"))
	bus.Subscribe(events.EventAccountCreated, n.onAccountCreated)
}

func (n *TelegramNotifier) onBookingEvent(title string) events.EventHandler {
	return func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			n.logger.Error().Err(err).Str("event_type", event.Type).Msg("decode booking event")
			return err
		}

		text := fmt.Sprintf("%s %s\n🏝 %s\n📅 %s\n👥 %s\n💰 %s",
			title,
			payload.BookingID,
			payload.DestinationName,
			payload.TravelMonth,
			payload.GroupSize,
			n.table.Format(payload.Price, n.table.Reference(), false),
		)

		return n.send(text)
	}
}

func (n *TelegramNotifier) onAccountCreated(event *events.Event) error {
	var payload events.AccountEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Msg("decode account event")
		return err
	}

	text := fmt.Sprintf("👤 Новый аккаунт: %s (%s)", payload.Name, payload.Email)
	return n.send(text)
}

func (n *TelegramNotifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.staffChat, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error().Err(err).Msg("telegram notify failed")
		return err
	}
	return nil
}
