package ports

import (
	"context"

	"github.com/uniportal/thesis-portal/internal/core/domain"
)

// --- Inputs / outputs shared between handlers and the upstream client ---

type LoginInput struct {
	Username string
	Password string
}

type TopicSearch struct {
	TeacherName string
	TopicName   string
	Page        int
	Limit       int
}

type TopicPage struct {
	Topics []domain.Topic
	Total  int
	Page   int
	Limit  int
}

// RegisterTopicInput follows the round+instructor shape the thesis API
// accepts (a topic is identified by its round and supervising lecturer).
type RegisterTopicInput struct {
	ThesisRoundID int
	InstructorID  int
	Notes         string
}

type ProposeTopicInput struct {
	Title       string
	Description string
}

type ApproveRegistrationInput struct {
	RegistrationID int
	IsApproved     bool
	Notes          string
}

type SubmitReportInput struct {
	Week          int
	Content       string
	AttachmentURL string
}

type CreateAccountInput struct {
	Email    string
	Password string
	FullName string
	Roles    []string
}

// --- Upstream thesis API, split per consumer ---

// AuthAPI covers the credential and identity endpoints.
type AuthAPI interface {
	Login(ctx context.Context, in LoginInput) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, token string) (*domain.User, error)
}

// TopicAPI covers topic browsing, registration and confirmation.
type TopicAPI interface {
	AvailableTopics(ctx context.Context, token string, search TopicSearch) (*TopicPage, error)
	ProposedTopics(ctx context.Context, token string) ([]domain.Topic, error)
	ProposeTopic(ctx context.Context, token string, in ProposeTopicInput) (*domain.Topic, error)
	RegisterTopic(ctx context.Context, token string, in RegisterTopicInput) (*domain.Registration, error)
	MyRegistrations(ctx context.Context, token string) ([]domain.Registration, error)
	StudentRegistrations(ctx context.Context, token string) ([]domain.RegistrationDetail, error)
	ApproveRegistration(ctx context.Context, token string, in ApproveRegistrationInput) (*domain.Registration, error)
}

// ReportAPI covers weekly progress reports.
type ReportAPI interface {
	Reports(ctx context.Context, token string) ([]domain.Report, error)
	SubmitReport(ctx context.Context, token string, in SubmitReportInput) (*domain.Report, error)
}

// AccountAPI covers the admin account-management endpoints.
type AccountAPI interface {
	ListAccounts(ctx context.Context, token string) ([]domain.User, error)
	CreateAccount(ctx context.Context, token string, in CreateAccountInput) (*domain.User, error)
	UpdateRoles(ctx context.Context, token string, userID string, roles []string) (*domain.User, error)
}
