package notifications

import (
	"fmt"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

const signature = "SmartQueue AI Team"

func confirmationEmail(p *domain.Profile, b *domain.Booking, waitMinutes int) (string, string) {
	subject := fmt.Sprintf("[SmartQueue AI] Booking Confirmed – #%d", b.ID)
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your appointment has been successfully booked!\n\n"+
			"Service: %s\n"+
			"Date: %s\n"+
			"Time: %s\n"+
			"Status: Pending\n"+
			"Estimated Waiting Time: %d minutes\n\n"+
			"Your QR check-in token: %s\n\n"+
			"You will receive another email once your appointment is approved.\n\n"+
			"%s",
		greetingName(p), b.ServiceName, b.SlotDate.Format(domain.DateFormat), b.SlotLabel(),
		waitMinutes, b.QRToken, signature,
	)
	return subject, body
}

func approvalEmail(p *domain.Profile, b *domain.Booking) (string, string) {
	subject := fmt.Sprintf("[SmartQueue AI] Appointment Approved – #%d", b.ID)
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Great news! Your appointment has been approved.\n\n"+
			"Service: %s\n"+
			"Date: %s\n"+
			"Time: %s\n\n"+
			"Please arrive on time. You can check in using your QR code.\n\n"+
			"%s",
		greetingName(p), b.ServiceName, b.SlotDate.Format(domain.DateFormat), b.SlotStart.Format12h(), signature,
	)
	return subject, body
}

func cancellationEmail(p *domain.Profile, b *domain.Booking) (string, string) {
	subject := fmt.Sprintf("[SmartQueue AI] Appointment Cancelled – #%d", b.ID)
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your appointment (#%d) has been cancelled.\n\n"+
			"If this was a mistake, please book a new appointment.\n\n"+
			"%s",
		greetingName(p), b.ID, signature,
	)
	return subject, body
}

// greetingName имя для обращения: имя, иначе логин
func greetingName(p *domain.Profile) string {
	if p.FirstName != "" {
		return p.FirstName
	}
	return p.Username
}
