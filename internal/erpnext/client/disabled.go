package client

import (
	"context"

	"github.com/wattlens/wattlens/internal/erpnext/domain"
)

// Disabled is wired when no ERPNext credentials are configured; every call
// fails with a typed error that the publisher records as a step failure.
type Disabled struct{}

func (Disabled) CreateCommunication(ctx context.Context, req domain.CommunicationRequest) (string, error) {
	return "", domain.ErrMissingCredentials
}

func (Disabled) CreateTodo(ctx context.Context, req domain.TodoRequest) (string, error) {
	return "", domain.ErrMissingCredentials
}

func (Disabled) CreateBillInsight(ctx context.Context, req domain.BillInsightRequest) (string, error) {
	return "", domain.ErrMissingCredentials
}
