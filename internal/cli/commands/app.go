package commands

import (
	"go.uber.org/zap"

	"FinSoft/internal/cli/api"
	"FinSoft/internal/cli/auth"
	"FinSoft/internal/cli/guard"
	"FinSoft/internal/cli/repo"
	"FinSoft/internal/cli/store"
	"FinSoft/internal/config"
)

// App связывает клиент API, сессию и хранилища для команд.
type App struct {
	Config *config.Config
	Log    *zap.SugaredLogger
	Client *api.Client
	Auth   *auth.Manager
	UI     *store.UIStore

	Debts     *store.DebtStore
	Warehouse *store.WarehouseStore
	Expenses  *store.ExpensesStore
	Cashier   *store.CashierStore
	Workshops *store.WorkshopsStore
	Products  *store.ProductsStore
}

// NewApp собирает приложение вокруг готового клиента и локального хранилища.
func NewApp(cfg *config.Config, log *zap.SugaredLogger, client *api.Client, storage repo.Storage) *App {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	app := &App{
		Config:    cfg,
		Log:       log,
		Client:    client,
		Auth:      auth.NewManager(client, storage, log.Named("auth")),
		UI:        store.NewUIStore(storage, log.Named("ui")),
		Debts:     store.NewDebtStore(client, log),
		Warehouse: store.NewWarehouseStore(client, log),
		Expenses:  store.NewExpensesStore(client, log),
		Cashier:   store.NewCashierStore(client, log),
		Workshops: store.NewWorkshopsStore(client, log),
		Products:  store.NewProductsStore(client, log),
	}
	client.SetOnAuthExpired(func() {
		app.UI.Warning(api.MsgAuthExpired)
	})
	app.UI.LoadDarkMode()
	return app
}

// RedirectError навигация запрещена, сессия должна перейти на Target.
type RedirectError struct {
	Target string
}

func (e *RedirectError) Error() string {
	return "перенаправление: " + e.Target
}

// Authorize проверяет доступ текущей сессии к разделу.
func (a *App) Authorize(section string) error {
	role, ok := a.Auth.CurrentRole()
	path := "/" + section
	if ok {
		path = guard.SectionPath(role, section)
	}
	if d := guard.Check(path, role, ok); !d.Allow {
		return &RedirectError{Target: d.Target}
	}
	return nil
}
