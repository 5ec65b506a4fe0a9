package email

import (
	"fmt"
	"net/smtp"
	"os"

	"artstore/web/db"
)

func SendEmail(to string, subject string, body string) error {
	smtpServer := os.Getenv("SMTP_SERVER")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	fromAddr := os.Getenv("FROM_ADDR")
	fromName := os.Getenv("FROM_NAME")

	if smtpServer == "" || smtpPort == "" || smtpUser == "" || smtpPass == "" || fromAddr == "" || fromName == "" {
		return fmt.Errorf(
			"missing required SMTP environment variables: SMTP_SERVER=%s, SMTP_PORT=%s, SMTP_USER=%s, SMTP_PASS=%s, FROM_ADDR=%s, FROM_NAME=%s",
			smtpServer, smtpPort, smtpUser, smtpPass, fromAddr, fromName)
	}

	msg := []byte(fmt.Sprintf("From: %s <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n\r\n"+
		"%s",
		fromName, fromAddr, to, subject, body))

	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpServer)

	err := smtp.SendMail(smtpServer+":"+smtpPort, auth, fromAddr, []string{to}, msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendOrderConfirmation is dispatched once, on the first transition of an
// order into COMPLETED.
func SendOrderConfirmation(order *db.Order) error {
	subject := fmt.Sprintf("Your order %s is confirmed", order.OrderNumber)
	body := fmt.Sprintf(
		"Hi %s,\n\nWe received your payment of %.2f USD for order %s.\nWe are now preparing your artwork for shipping to %s, %s.\n\nThank you for supporting our artists!",
		order.ShippingName, order.Total, order.OrderNumber, order.ShippingCity, order.ShippingCountry)
	return SendEmail(order.ShippingEmail, subject, body)
}

// SendPaymentFailed is dispatched once, on the first transition of an
// order into FAILED.
func SendPaymentFailed(order *db.Order) error {
	subject := fmt.Sprintf("Payment for order %s did not go through", order.OrderNumber)
	body := fmt.Sprintf(
		"Hi %s,\n\nThe payment for order %s (%.2f USD) was not completed and the order has been cancelled.\nYou can place a new order at any time.",
		order.ShippingName, order.OrderNumber, order.Total)
	return SendEmail(order.ShippingEmail, subject, body)
}
