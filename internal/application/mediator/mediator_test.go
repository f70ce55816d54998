package mediator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/application/mediator"
)

type pingQuery struct{ Name string }

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q := request.(*pingQuery)
	if q.Name == "" {
		return nil, errors.New("name required")
	}
	return "pong " + q.Name, nil
}

func TestMediator_SendDispatchesByType(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, pingHandler{}))

	// Act
	resp, err := m.Send(context.Background(), &pingQuery{Name: "Alpha"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pong Alpha", resp)
}

func TestMediator_RejectsDuplicateAndUnknown(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, pingHandler{}))

	// Act
	dupErr := mediator.RegisterHandler[*pingQuery](m, pingHandler{})
	_, unknownErr := m.Send(context.Background(), struct{}{})
	_, nilErr := m.Send(context.Background(), nil)

	// Assert
	assert.Error(t, dupErr)
	assert.ErrorContains(t, unknownErr, "no handler registered")
	assert.Error(t, nilErr)
}

func TestMediator_MiddlewareRunsInRegistrationOrder(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, pingHandler{}))
	var calls []string
	for _, name := range []string{"outer", "inner"} {
		name := name
		m.RegisterMiddleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			calls = append(calls, name+" before")
			resp, err := next(ctx, request)
			calls = append(calls, name+" after")
			return resp, err
		})
	}

	// Act
	_, err := m.Send(context.Background(), &pingQuery{})

	// Assert
	assert.Error(t, err)
	assert.Equal(t, []string{"outer before", "inner before", "inner after", "outer after"}, calls)
}
