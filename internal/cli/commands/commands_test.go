package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSoft/internal/cli/auth"
	"FinSoft/internal/cli/repo"
	"FinSoft/internal/cli/store"
	"FinSoft/internal/model"
)

func fakeAPI(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in model.LoginInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in.Password != "manager" {
			writeJSON(w, http.StatusUnauthorized, `{"message":"Unauthenticated."}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"user":{"id":"m1","email":"manager","firstName":"Шерзод","role":"manager"},"token":"t","refreshToken":"r"}}`)
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/debts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"data":[
			{"id":"d1","date":"2026-10-01","client":"Азиз","product":"Капсула","totalAmount":100,"remainingAmount":60,"currency":"сом"},
			{"id":"d2","date":"2026-10-02","client":"Бахром","product":"Стакан","totalAmount":50,"remainingAmount":50,"currency":"$"}
		],"meta":{"currentPage":1,"lastPage":1,"perPage":10,"total":2}}}`)
	})
	mux.HandleFunc("GET /api/debts/d1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":"d1","totalAmount":100,"remainingAmount":60,"currency":"сом"}}`)
	})
	mux.HandleFunc("POST /api/debts/d1/payments", func(w http.ResponseWriter, r *http.Request) {
		var in model.PaymentInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, model.TJS, in.Currency)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":"d1","totalAmount":100,"remainingAmount":0,"currency":"сом","status":"Частично оплачено"}}`)
	})
	mux.HandleFunc("GET /api/debts/d1/payments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":"p1","date":"2026-10-05","amount":40,"currency":"сом","method":"Карта"}]}`)
	})
	list := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, body) }
	}
	mux.HandleFunc("GET /api/warehouse", list(`[{"id":"w1","name":"Преформа","quantity":3,"unit":"кг","location":"Склад Капсула"}]`))
	mux.HandleFunc("GET /api/transactions", list(`[{"id":"t1","type":"Доход","amount":900,"currency":"сом"},{"id":"t2","type":"Расход","amount":200,"currency":"сом"}]`))
	mux.HandleFunc("GET /api/varzob-expenses", list(`[]`))
	mux.HandleFunc("GET /api/chinese-cargo", list(`[{"id":"c1","status":"Заказано в Китае","weight":42}]`))
	mux.HandleFunc("GET /api/workshops", list(`[{"id":"ws1","workshopType":"cup","quantity":7}]`))
	mux.HandleFunc("GET /api/workshops/capsule", list(`[{"id":"ws2","workshopType":"capsule","quantity":11,"productName":"Капсула 28мм"}]`))
	mux.HandleFunc("GET /api/cashier", list(`[{"id":"k1","date":"2026-10-17","type":"Приход","amount":10,"currency":"$"}]`))
	mux.HandleFunc("GET /api/products", list(`[{"id":"p1","name":"Стакан 0.5","unit":"шт","price":1.25}]`))
	return mux
}

func TestLogin_PersistsSessionAndPrintsHome(t *testing.T) {
	app, st := newTestApp(t, fakeAPI(t), "")
	out := withStdoutCapture(t, func() {
		assert.Equal(t, 0, Dispatch(context.Background(), app, []string{"login", "manager", "manager"}))
	})
	assert.Contains(t, out, "Добро пожаловать, Шерзод")
	assert.Contains(t, out, "/manager")

	raw, err := st.GetItem(auth.StorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"role":"manager"`)

	out = withStdoutCapture(t, func() {
		assert.Equal(t, 0, Dispatch(context.Background(), app, []string{"logout"}))
	})
	assert.Contains(t, out, "Сессия завершена")
	_, err = st.GetItem(auth.StorageKey)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app, _ := newTestApp(t, fakeAPI(t), "")
	out := withStdoutCapture(t, func() {
		assert.Equal(t, 1, Dispatch(context.Background(), app, []string{"login", "manager", "bad"}))
	})
	assert.Contains(t, out, auth.MsgInvalidCredentials)
	assert.Equal(t, 2, Dispatch(context.Background(), app, []string{"login", "only-one"}))
}

func TestDebts_ListAndSummary(t *testing.T) {
	app, _ := newTestApp(t, fakeAPI(t), model.RoleAdmin)
	out := withStdoutCapture(t, func() {
		assert.Equal(t, 0, Dispatch(context.Background(), app, []string{"debts"}))
	})
	assert.Contains(t, out, "Азиз")
	assert.Contains(t, out, "01.10.2026")
	assert.Contains(t, out, string(model.DebtPartiallyPaid))
	assert.Contains(t, out, "Неоплачено: 1, частично: 1, оплачено: 0")
	assert.Contains(t, out, "Общий остаток: 50.00 $, 60.00 сом")

	assert.Equal(t, 2, Dispatch(context.Background(), app, []string{"debts", "zero"}))
}

func TestDebtPay_RejectsOverpaymentBeforeRequest(t *testing.T) {
	app, _ := newTestApp(t, fakeAPI(t), model.RoleAdmin)
	out := withStdoutCapture(t, func() {
		assert.Equal(t, 1, Dispatch(context.Background(), app, []string{"debt-pay", "d1", "61"}))
	})
	assert.Contains(t, out, store.MsgPaymentExceedsDebt)
}

func TestDebtPay_AndHistory(t *testing.T) {
	app, _ := newTestApp(t, fakeAPI(t), model.RoleAdmin)
	out := withStdoutCapture(t, func() {
		assert.Equal(t, 0, Dispatch(context.Background(), app, []string{"debt-pay", "d1", "60", "Карта"}))
		assert.Equal(t, 0, Dispatch(context.Background(), app, []string{"debt-payments", "d1"}))
	})
	// сервер прислал несогласованный статус, клиент выводит производный
	assert.Contains(t, out, "Остаток: 0.00 сом (Оплачено)")
	assert.Contains(t, out, "05.10.2026")
	assert.Contains(t, out, "40.00 сом")
}

func TestDelete_ResourceAndUsage(t *testing.T) {
	var deleted atomic.Value
	mux := fakeAPI(t)
	mux.HandleFunc("DELETE /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted.Store(r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})
	app, _ := newTestApp(t, mux, model.RoleManager)

	out := withStdoutCapture(t, func() {
		assert.Equal(t, 0, Dispatch(context.Background(), app, []string{"delete", "products", "p1"}))
	})
	assert.Equal(t, "p1", deleted.Load())
	assert.Contains(t, out, "Запись p1 удалена")

	assert.Equal(t, 2, Dispatch(context.Background(), app, []string{"delete", "users", "1"}))

	anon, _ := newTestApp(t, mux, "")
	assert.Equal(t, 1, Dispatch(context.Background(), anon, []string{"delete", "products", "p1"}))
}

func TestDashboard_CombinesStores(t *testing.T) {
	app, _ := newTestApp(t, fakeAPI(t), model.RoleAdmin)
	out := withStdoutCapture(t, func() {
		assert.Equal(t, 0, Dispatch(context.Background(), app, []string{"dashboard"}))
	})
	assert.Contains(t, out, "Доход:            900.00 сом")
	assert.Contains(t, out, "Позиций на складе: 1")
	assert.Contains(t, out, "Вес груза:        42")
	assert.Contains(t, out, "Выпуск стакана:   7")
}

func TestLists_Render(t *testing.T) {
	app, _ := newTestApp(t, fakeAPI(t), model.RoleManager)
	out := withStdoutCapture(t, func() {
		for _, args := range [][]string{{"warehouse"}, {"cashier"}, {"transactions"}, {"cargo"}, {"products"}, {"workshops", "capsule"}} {
			assert.Equal(t, 0, Dispatch(context.Background(), app, args), args)
		}
	})
	assert.Contains(t, out, "Заканчиваются: 1")
	assert.Contains(t, out, "Баланс: 10.00 $")
	assert.Contains(t, out, "Чистая прибыль: 700.00 сом")
	assert.Contains(t, out, "Заказано: 1, принято: 0")
	assert.Contains(t, out, "Всего товаров: 1")
	assert.Contains(t, out, "Капсула 28мм")

	assert.Equal(t, 2, Dispatch(context.Background(), app, []string{"workshops", "oven"}))
}

func TestTheme_TogglePersists(t *testing.T) {
	app, st := newTestApp(t, nil, "")
	out := withStdoutCapture(t, func() {
		assert.Equal(t, 0, Dispatch(context.Background(), app, []string{"theme", "toggle"}))
	})
	assert.Contains(t, out, "Тема: тёмная")
	raw, err := st.GetItem(store.DarkModeKey)
	require.NoError(t, err)
	assert.Equal(t, "true", string(raw))
}
