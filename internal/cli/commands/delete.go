package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// deleter удаление записи и раздел консоли, которому принадлежит ресурс.
type deleter struct {
	section string
	del     func(ctx context.Context, app *App, id string) error
}

var deleters = map[string]deleter{
	"debts": {"debts", func(ctx context.Context, a *App, id string) error { return a.Debts.Delete(ctx, id) }},
	"cashier": {"cashier", func(ctx context.Context, a *App, id string) error { return a.Cashier.Delete(ctx, id) }},
	"transactions": {"income-expense", func(ctx context.Context, a *App, id string) error {
		return a.Expenses.Transactions.Delete(ctx, id)
	}},
	"varzob-expenses": {"varzob-expense", func(ctx context.Context, a *App, id string) error {
		return a.Expenses.Varzob.Delete(ctx, id)
	}},
	"warehouse": {"warehouse", func(ctx context.Context, a *App, id string) error { return a.Warehouse.Delete(ctx, id) }},
	"chinese-cargo": {"chinese-cargo", func(ctx context.Context, a *App, id string) error {
		return a.Workshops.Cargo.Delete(ctx, id)
	}},
	"workshops": {"capsule-workshop", func(ctx context.Context, a *App, id string) error {
		return a.Workshops.Items.Delete(ctx, id)
	}},
	"products": {"products", func(ctx context.Context, a *App, id string) error { return a.Products.Delete(ctx, id) }},
}

func resourceNames() string {
	names := make([]string, 0, len(deleters))
	for n := range deleters {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Удалить запись ресурса" }
func (deleteCmd) Usage() string       { return "delete <" + resourceNames() + "> <id>" }

// Route пустой: раздел зависит от ресурса и проверяется в Run.
func (deleteCmd) Route() string { return "" }

func (deleteCmd) Run(ctx context.Context, app *App, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	d, ok := deleters[args[0]]
	if !ok {
		return ErrUsage
	}
	if err := app.Authorize(d.section); err != nil {
		return err
	}
	if err := d.del(ctx, app, args[1]); err != nil {
		return err
	}
	app.UI.Success(fmt.Sprintf("Запись %s удалена", args[1]))
	return nil
}

func init() { RegisterCmd(deleteCmd{}) }
