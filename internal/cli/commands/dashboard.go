package commands

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"FinSoft/internal/cli/store"
)

type dashboardCmd struct{}

func (dashboardCmd) Name() string        { return "dashboard" }
func (dashboardCmd) Description() string { return "Сводка по всем разделам" }
func (dashboardCmd) Usage() string       { return "dashboard" }
func (dashboardCmd) Route() string       { return "reports" }

func (dashboardCmd) Run(ctx context.Context, app *App, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.Debts.FetchAll(gctx, nil) })
	g.Go(func() error { return app.Warehouse.FetchAll(gctx, nil) })
	g.Go(func() error { return app.Expenses.Transactions.FetchAll(gctx, nil) })
	g.Go(func() error { return app.Expenses.Varzob.FetchAll(gctx, nil) })
	g.Go(func() error { return app.Workshops.Cargo.FetchAll(gctx, nil) })
	g.Go(func() error { return app.Workshops.Items.FetchAll(gctx, nil) })
	if err := g.Wait(); err != nil {
		return err
	}

	stats := store.Dashboard(app.Debts.Summary(), app.Warehouse.Summary(), app.Expenses.Summary(), app.Workshops.Summary())
	fmt.Fprintf(Out, "Доход:            %s\n", stats.TotalIncome)
	fmt.Fprintf(Out, "Расход:           %s\n", stats.TotalExpense)
	fmt.Fprintf(Out, "Долги:            %s\n", stats.TotalDebts)
	fmt.Fprintf(Out, "Позиций на складе: %d\n", stats.WarehouseItems)
	fmt.Fprintf(Out, "Вес груза:        %s\n", stats.CargoWeight)
	fmt.Fprintf(Out, "Выпуск капсулы:   %s\n", stats.CapsuleProduction)
	fmt.Fprintf(Out, "Выпуск стакана:   %s\n", stats.CupProduction)
	return nil
}

type themeCmd struct{}

func (themeCmd) Name() string        { return "theme" }
func (themeCmd) Description() string { return "Показать или переключить тёмную тему" }
func (themeCmd) Usage() string       { return "theme [toggle]" }
func (themeCmd) Route() string       { return "" }

func (themeCmd) Run(_ context.Context, app *App, args []string) error {
	dark := app.UI.DarkMode()
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "toggle":
		var err error
		if dark, err = app.UI.ToggleDarkMode(); err != nil {
			return err
		}
	default:
		return ErrUsage
	}
	name := "светлая"
	if dark {
		name = "тёмная"
	}
	fmt.Fprintf(Out, "Тема: %s\n", name)
	return nil
}

func init() {
	RegisterCmd(dashboardCmd{})
	RegisterCmd(themeCmd{})
}
