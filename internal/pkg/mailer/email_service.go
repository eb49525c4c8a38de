package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendBookingConfirmation(toEmail, customerName, reference, date, startTime string) error
	SendCancellationNotice(toEmail, customerName, reference string, refundAmount float64) error
	SendRescheduleNotice(toEmail, customerName, oldRef, newRef, newDate, newStartTime string, fee float64) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendBookingConfirmation(toEmail, customerName, reference, date, startTime string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Booking Confirmed: %s", reference))

	detailLink := fmt.Sprintf("%s/bookings/%s", s.frontendURL, reference)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s, your booking is confirmed!</h2>
			<p>Reference: <strong>%s</strong></p>
			<p>Date: <strong>%s</strong> at <strong>%s</strong></p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">View Booking</a>
			<p>See you at the studio!</p>
		</div>
	`, customerName, reference, date, startTime, detailLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send confirmation to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Confirmation sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendCancellationNotice(toEmail, customerName, reference string, refundAmount float64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Booking Cancelled: %s", reference))

	refundLine := "<p>No refund applies to this cancellation.</p>"
	if refundAmount > 0 {
		refundLine = fmt.Sprintf("<p>A refund of <strong>%.2f</strong> has been recorded and will be processed shortly.</p>", refundAmount)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s, your booking has been cancelled.</h2>
			<p>Reference: <strong>%s</strong></p>
			%s
			<p>We hope to see you again soon.</p>
		</div>
	`, customerName, reference, refundLine)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send cancellation notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Cancellation notice sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendRescheduleNotice(toEmail, customerName, oldRef, newRef, newDate, newStartTime string, fee float64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Booking Rescheduled: %s", newRef))

	feeLine := ""
	if fee > 0 {
		feeLine = fmt.Sprintf("<p>A rescheduling fee of <strong>%.2f</strong> applies.</p>", fee)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s, your booking has been rescheduled.</h2>
			<p>Previous reference: <strong>%s</strong></p>
			<p>New reference: <strong>%s</strong></p>
			<p>New date: <strong>%s</strong> at <strong>%s</strong></p>
			%s
			<p>See you at the studio!</p>
		</div>
	`, customerName, oldRef, newRef, newDate, newStartTime, feeLine)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send reschedule notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Reschedule notice sent to %s\n", toEmail)
	return nil
}
