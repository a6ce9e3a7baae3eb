package mail

import (
	"fmt"
	"strings"
)

type OrderLine struct {
	Name     string
	Price    float64
	Quantity int
}

// OrderConfirmationHTML builds the order confirmation body.
func OrderConfirmationHTML(orderNumber, restaurantName, phone, address string, lines []OrderLine, total float64) string {
	var rows strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&rows,
			"<tr><td>%s</td><td>%d</td><td>&#8377;%.2f</td><td>&#8377;%.2f</td></tr>",
			l.Name, l.Quantity, l.Price, l.Price*float64(l.Quantity))
	}

	return fmt.Sprintf(`<html><body>
<h1>Thank you for your order!</h1>
<p>Order <strong>#%s</strong> from %s has been confirmed and is being prepared.</p>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr>
%s
</table>
<p><strong>Total: &#8377;%.2f</strong></p>
<p>Delivery to: %s<br>Phone: %s</p>
</body></html>`, orderNumber, restaurantName, rows.String(), total, address, phone)
}

func OtpHTML(code string) string {
	return fmt.Sprintf(`<html><body>
<h2>Verify your email</h2>
<p>Your verification code is <strong>%s</strong>. It expires in 10 minutes.</p>
</body></html>`, code)
}
