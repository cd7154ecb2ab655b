package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"
)

const (
	btnSendContact   = "📞 Raqamni yuborish"
	btnSendLocation  = "📍 Lokatsiyani yuborish"
	btnCancel        = "🔙 Bekor qilish"
	btnMenu          = "🍴 Menyu"
	btnRestart       = "🔄 Qayta boshlash"
	btnContact       = "📞 Aloqa"
	btnViewCart      = "🛒 Savat"
	btnDelivery      = "🚖 Yetkazib berish"
	btnPickup        = "🛍 Olib ketish"
	btnAcceptOrder   = "✅ Qabul qilish"
	btnRejectOrder   = "❌ Rad etish"
	btnContactClient = "📞 Aloqa"
)

func contactKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	markup.Reply(markup.Row(markup.Contact(btnSendContact)))
	return markup
}

func orderTypeKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{
		InlineKeyboard: [][]tele.InlineButton{{
			{Text: btnDelivery, Data: cbTypeDelivery},
			{Text: btnPickup, Data: cbTypePickup},
		}},
	}
}

func locationKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Location(btnSendLocation)),
		markup.Row(markup.Text(btnCancel)),
	)
	return markup
}

func mainMenuKeyboard(webAppURL string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	menuBtn := tele.Btn{Text: btnMenu, WebApp: &tele.WebApp{URL: webAppURL}}
	markup.Reply(
		markup.Row(menuBtn),
		markup.Row(markup.Text(btnRestart), markup.Text(btnContact)),
	)
	return markup
}

// operatorKeyboard carries the approval actions addressed by order id and
// the contact action addressed by the customer chat id.
func operatorKeyboard(orderID, customerChatID int64) *tele.ReplyMarkup {
	return &tele.ReplyMarkup{
		InlineKeyboard: [][]tele.InlineButton{
			{
				{Text: btnAcceptOrder, Data: fmt.Sprintf("%s%d", cbAcceptPrefix, orderID)},
				{Text: btnRejectOrder, Data: fmt.Sprintf("%s%d", cbRejectPrefix, orderID)},
			},
			{
				{Text: btnContactClient, Data: fmt.Sprintf("%s%d", cbContactPrefix, customerChatID)},
			},
		},
	}
}
