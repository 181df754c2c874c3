package service

import (
	"context"

	"hr-helpdesk-be/internal/pkg/logger"
	"hr-helpdesk-be/internal/pkg/mailer"
	"hr-helpdesk-be/pkg/events"
	pktNats "hr-helpdesk-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
)

const escalationDurable = "hr-inbox-mailer"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventSubscriber is the durable NATS side of the escalation queue.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

// consumerService mails every pending question to the HR inbox. With NATS
// configured it reads the durable JetStream consumer, so one replica handles
// each event; otherwise it reads the in-process channel.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	nats       EventSubscriber
	mailer     mailer.IEmailService
	hrInbox    string
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	nats EventSubscriber,
	emailService mailer.IEmailService,
	hrInbox string,
	log logger.ILogger,
) IConsumerService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		nats:       nats,
		mailer:     emailService,
		hrInbox:    hrInbox,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	if cs.nats != nil {
		return cs.nats.Subscribe(ctx, pktNats.Subject(events.TypeQuestionPending), escalationDurable,
			func(ctx context.Context, ev events.Event) error {
				pending, err := events.QuestionPendingFrom(ev)
				if err != nil {
					// redelivery would not help
					cs.logger.Error("consumer", "Undecodable pending question", map[string]interface{}{"error": err.Error()})
					return nil
				}
				return cs.notify(pending)
			})
	}

	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	pending, err := events.DecodeQuestionPending(msg.Payload)
	if err != nil {
		cs.logger.Error("consumer", "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // invalid payloads are not retried
		return
	}

	// the in-process channel redelivers a nack at once, so a mail outage is
	// logged and dropped here; the question row stays pending either way
	_ = cs.notify(pending)
	msg.Ack()
}

func (cs *consumerService) notify(ev events.QuestionPendingEvent) error {
	if cs.mailer == nil || cs.hrInbox == "" {
		cs.logger.Info("consumer", "Pending question (mail disabled)", map[string]interface{}{
			"question_id": ev.QuestionID,
			"session_id":  ev.SessionID,
			"confidence":  ev.Confidence,
		})
		return nil
	}
	return cs.mailer.SendPendingQuestion(cs.hrInbox, ev)
}
