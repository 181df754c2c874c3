package unitofwork

import (
	"context"

	"hr-helpdesk-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	QuestionRepository() contract.QuestionRepository
	FeedbackRepository() contract.FeedbackRepository
	DirectoryRepository() contract.DirectoryRepository
}
