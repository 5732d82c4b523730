package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jairajbhatia/reviewgraph/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, submitterID string, jobID uuid.UUID) (*models.Job, error)
	CompleteJob(ctx context.Context, jobID uuid.UUID, result *models.ReviewResult) error
	FailJob(ctx context.Context, jobID uuid.UUID, message string) error
}
