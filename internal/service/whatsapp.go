package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mangli-store/internal/models"
)

const orderMessageDivider = "-----------------------------------"

const afterHoursNotice = "*This is an after-hours order and will be delivered tomorrow morning.*"

// buildOrderMessage 生成发给店家的纯文本订单摘要
func buildOrderMessage(storeName, currency string, items []models.CartItem, totals CartTotals, afterHours bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s, I'd like to place an order:\n", storeName)
	b.WriteString(orderMessageDivider)
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s - %d %s x %s%s = %s%s\n",
			item.Name, item.Quantity, item.Unit,
			currency, item.Price.String(),
			currency, item.LineTotal().String(),
		)
	}
	b.WriteString(orderMessageDivider)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: %s%s\n", currency, totals.Subtotal.String())
	fmt.Fprintf(&b, "Delivery: %s%s\n", currency, totals.DeliveryCharge.String())
	fmt.Fprintf(&b, "*Total: %s%s*", currency, totals.Total.String())
	if afterHours {
		b.WriteString("\n")
		b.WriteString(orderMessageDivider)
		b.WriteString("\n")
		b.WriteString(afterHoursNotice)
	}
	b.WriteString("\n\nThank you!")
	return b.String()
}

// buildWhatsAppURL 生成携带订单文本的 WhatsApp 深链
func buildWhatsAppURL(number, message string) string {
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(message)
}
