package mailer

import (
	"fmt"
	"html"
	"time"

	"hr-helpdesk-be/internal/pkg/logger"
	"hr-helpdesk-be/pkg/events"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendPendingQuestion(toEmail string, ev events.QuestionPendingEvent) error
}

// Sender abstracts the SMTP dial so tests can capture messages.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender      Sender
	senderEmail string
	senderName  string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName string, log logger.ILogger) IEmailService {
	return NewEmailServiceWithSender(gomail.NewDialer(host, port, username, password), username, senderName, log)
}

func NewEmailServiceWithSender(sender Sender, senderEmail, senderName string, log logger.ILogger) IEmailService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &emailService{
		sender:      sender,
		senderEmail: senderEmail,
		senderName:  senderName,
		logger:      log,
	}
}

func (s *emailService) SendPendingQuestion(toEmail string, ev events.QuestionPendingEvent) error {
	m := BuildPendingQuestionMessage(s.senderEmail, s.senderName, toEmail, ev)

	if err := s.sender.DialAndSend(m); err != nil {
		s.logger.Error("mailer", "Failed to send pending question", map[string]interface{}{
			"to":    toEmail,
			"error": err.Error(),
		})
		return err
	}

	s.logger.Info("mailer", "Pending question sent", map[string]interface{}{"to": toEmail})
	return nil
}

// BuildPendingQuestionMessage renders the HR inbox notification.
func BuildPendingQuestionMessage(from, fromName, to string, ev events.QuestionPendingEvent) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", from, fromName)
	m.SetHeader("To", to)

	ref := "unsaved"
	if ev.QuestionID != nil {
		ref = fmt.Sprintf("#%d", *ev.QuestionID)
	}
	m.SetHeader("Subject", fmt.Sprintf("Pending HR question %s", ref))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>A question needs a human answer</h2>
			<p><strong>Question %s</strong> (%s, confidence %.2f)</p>
			<blockquote dir="auto">%s</blockquote>
			<p>Session: %s<br/>Received: %s</p>
		</div>
	`,
		html.EscapeString(ref),
		html.EscapeString(ev.Language),
		ev.Confidence,
		html.EscapeString(ev.Question),
		html.EscapeString(ev.SessionID),
		ev.OccurredAt.Format(time.RFC1123),
	)
	m.SetBody("text/html", body)
	return m
}
