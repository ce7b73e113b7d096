package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSoft/internal/cli/api"
	"FinSoft/internal/cli/auth"
	"FinSoft/internal/cli/repo"
	"FinSoft/internal/cli/store"
	"FinSoft/internal/model"
)

// Клиентские сторы поверх настоящего dev-сервера.
func TestClientStoresAgainstServer(t *testing.T) {
	ts := httptest.NewServer(newTestRouter(t))
	t.Cleanup(ts.Close)
	ctx := context.Background()

	client := api.NewClient(api.Options{BaseURL: ts.URL + "/api", Timeout: 5 * time.Second})
	manager := auth.NewManager(client, repo.NewMemory(), nil)

	res := manager.Login(ctx, "Manager", "manager")
	require.True(t, res.Success, res.Message)
	assert.Equal(t, model.RoleManager, res.User.Role)

	debts := store.NewDebtStore(client, nil)
	created, err := debts.Create(ctx, model.DebtInput{
		Date: "2026-10-01", Client: "Азиз", Product: "Капсула",
		TotalAmount: decimal.NewFromInt(100), Currency: model.TJS,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DebtUnpaid, created.Status)

	require.NoError(t, debts.FetchAll(ctx, nil))
	assert.Equal(t, 1, debts.Pagination().Total)

	_, err = debts.MakePartialPayment(ctx, created.ID, model.PaymentInput{
		Date: "2026-10-05", Amount: decimal.NewFromInt(101), Currency: model.TJS, Method: model.PaymentCash,
	})
	require.Error(t, err)

	paid, err := debts.MakePartialPayment(ctx, created.ID, model.PaymentInput{
		Date: "2026-10-05", Amount: decimal.NewFromInt(100), Currency: model.TJS, Method: model.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DebtPaid, paid.Status)
	history, err := debts.PaymentHistory(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	manager.Logout(ctx)
	assert.False(t, manager.IsAuthenticated())
}
