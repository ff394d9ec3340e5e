package queries_test

import (
	"testing"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOpenBidsQuery_Valid(t *testing.T) {
	orderID := kernel.NewUUID()

	query, err := queries.NewGetOpenBidsQuery(orderID)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, orderID, query.OrderID())
}

func TestNewGetOpenBidsQuery_EmptyOrderID(t *testing.T) {
	_, err := queries.NewGetOpenBidsQuery(kernel.UUID{})
	require.Error(t, err)
}

func TestGetOpenBidsQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetOpenBidsQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetOpenBidsQueryIsNotConstructed)
}
