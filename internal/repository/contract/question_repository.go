package contract

import (
	"context"

	"hr-helpdesk-be/internal/entity"
	"hr-helpdesk-be/internal/repository/specification"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *entity.Question) error
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
