package contract

import (
	"context"

	"hr-helpdesk-be/internal/entity"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
}
