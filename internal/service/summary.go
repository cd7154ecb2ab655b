package service

import (
	"fmt"
	"strings"

	"github.com/chartak/orderbot/internal/model"
	"github.com/chartak/orderbot/internal/session"
)

const (
	orderTypeDeliveryLabel = "Yetkazib berish"
	orderTypePickupLabel   = "Olib ketish"
	addressLocationLabel   = "Xaritadagi lokatsiya yuborildi"
)

func orderTypeLabel(t session.OrderType) string {
	switch t {
	case session.OrderTypeDelivery:
		return orderTypeDeliveryLabel
	case session.OrderTypePickup:
		return orderTypePickupLabel
	}
	return "-"
}

func addressLabel(a session.DeliveryAddress) string {
	switch a.Kind() {
	case session.AddressCoordinates:
		return addressLocationLabel
	case session.AddressFreeText:
		return a.Text()
	}
	return "-"
}

// FormatSum renders an amount in so'm with thousands separators.
func FormatSum(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func operatorSummary(order model.Order, customerName string, sess session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚀 *Yangi buyurtma #%d!*\n\n", order.ID)
	if customerName == "" {
		customerName = "Noma'lum"
	}
	fmt.Fprintf(&b, "👤 *Mijoz:* %s\n", customerName)
	fmt.Fprintf(&b, "📞 *Telefon:* +%s\n", order.Phone)
	fmt.Fprintf(&b, "🚚 *Turi:* %s\n", orderTypeLabel(sess.OrderType))
	fmt.Fprintf(&b, "📍 *Manzil:* %s\n\n", addressLabel(sess.Address))
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s | %d ta = %s so'm\n", item.Name, item.Quantity, FormatSum(item.Price*int64(item.Quantity)))
	}
	fmt.Fprintf(&b, "\n💰 *JAMI: %s so'm*", FormatSum(order.TotalAmount))
	return b.String()
}

func customerConfirmation(order model.Order) string {
	return fmt.Sprintf(
		"✅ *Buyurtmangiz #%d qabul qilindi!*\n💰 Jami: %s so'm\n\nTez orada siz bilan bog'lanamiz.",
		order.ID, FormatSum(order.TotalAmount),
	)
}

func statusMessage(order model.Order) string {
	if order.Status == model.OrderStatusAccepted {
		return fmt.Sprintf(
			"✅ *Sizning #%d buyurtmangiz qabul qilindi!*\n💰 Summa: %s so'm\n⏰ Tez orada yetkazamiz.",
			order.ID, FormatSum(order.TotalAmount),
		)
	}
	return fmt.Sprintf(
		"❌ *Kechirasiz, #%d buyurtmangiz rad etildi.* Sababini aniqlashtirish uchun biz bilan bog'laning.",
		order.ID,
	)
}
