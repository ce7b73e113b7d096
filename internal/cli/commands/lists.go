package commands

import (
	"context"
	"fmt"

	"FinSoft/internal/model"
)

// listCmd команда просмотра одной коллекции.
type listCmd struct {
	name, desc, usage, route string
	run                      func(ctx context.Context, app *App, args []string) error
}

func (c listCmd) Name() string        { return c.name }
func (c listCmd) Description() string { return c.desc }
func (c listCmd) Usage() string       { return c.usage }
func (c listCmd) Route() string       { return c.route }
func (c listCmd) Run(ctx context.Context, app *App, args []string) error {
	return c.run(ctx, app, args)
}

func runCashier(ctx context.Context, app *App, args []string) error {
	f, err := pageArg(args)
	if err != nil {
		return err
	}
	if err := app.Cashier.FetchAll(ctx, f); err != nil {
		return err
	}
	tw := newTable(Out, "ID", "ДАТА", "ТИП", "СУММА", "КОНТРАГЕНТ", "ОПИСАНИЕ")
	for _, op := range app.Cashier.Items() {
		row(tw, op.ID, date(op.Date), op.Type, amount(op.Amount, op.Currency), op.Counterparty, op.Description)
	}
	_ = tw.Flush()
	printPagination(app.Cashier.Pagination())
	sum := app.Cashier.Summary()
	fmt.Fprintf(Out, "Приход: %s\nРасход: %s\nБаланс: %s\nОпераций сегодня: %d\n",
		sum.TotalIncome, sum.TotalExpense, sum.Balance, sum.TodayCount)
	return nil
}

func runTransactions(ctx context.Context, app *App, args []string) error {
	f, err := pageArg(args)
	if err != nil {
		return err
	}
	if err := app.Expenses.Transactions.FetchAll(ctx, f); err != nil {
		return err
	}
	tw := newTable(Out, "ID", "ДАТА", "ТИП", "КАТЕГОРИЯ", "СУММА", "ОПИСАНИЕ")
	for _, t := range app.Expenses.Transactions.Items() {
		row(tw, t.ID, date(t.Date), t.Type, t.Category, amount(t.Amount, t.Currency), t.Description)
	}
	_ = tw.Flush()
	printPagination(app.Expenses.Transactions.Pagination())
	sum := app.Expenses.Summary()
	fmt.Fprintf(Out, "Доход: %s\nРасход: %s\nЧистая прибыль: %s\n", sum.TotalIncome, sum.TotalExpense, sum.NetProfit)
	return nil
}

func runVarzob(ctx context.Context, app *App, args []string) error {
	f, err := pageArg(args)
	if err != nil {
		return err
	}
	if err := app.Expenses.Varzob.FetchAll(ctx, f); err != nil {
		return err
	}
	tw := newTable(Out, "ID", "ДАТА", "КАТЕГОРИЯ", "СУММА", "ПОЛУЧАТЕЛЬ", "ОПИСАНИЕ")
	for _, v := range app.Expenses.Varzob.Items() {
		row(tw, v.ID, date(v.Date), v.Category, amount(v.Amount, v.Currency), v.Recipient, v.Description)
	}
	_ = tw.Flush()
	printPagination(app.Expenses.Varzob.Pagination())
	fmt.Fprintf(Out, "Итого Варзоб: %s\n", app.Expenses.Summary().VarzobTotal)
	return nil
}

func printWarehouse(items []model.WarehouseItem) {
	tw := newTable(Out, "ID", "ДАТА", "НАИМЕНОВАНИЕ", "КОЛ-ВО", "СКЛАД", "ПОСТАВЩИК")
	for _, it := range items {
		row(tw, it.ID, date(it.Date), it.Name, fmt.Sprintf("%g %s", it.Quantity, it.Unit), it.Location, it.Supplier)
	}
	_ = tw.Flush()
}

func runWarehouse(ctx context.Context, app *App, args []string) error {
	if len(args) == 1 && args[0] == "factory" {
		if err := app.Warehouse.FetchFactory(ctx, nil); err != nil {
			return err
		}
		printWarehouse(app.Warehouse.Factory().Items())
		printPagination(app.Warehouse.Factory().Pagination())
		return nil
	}
	f, err := pageArg(args)
	if err != nil {
		return err
	}
	if err := app.Warehouse.FetchAll(ctx, f); err != nil {
		return err
	}
	printWarehouse(app.Warehouse.Items())
	printPagination(app.Warehouse.Pagination())
	sum := app.Warehouse.Summary()
	fmt.Fprintf(Out, "Позиций: %d (капсула %d, стакан %d)\nЗаканчиваются: %d\nСтоимость запасов: %s\n",
		sum.ItemCount, len(sum.Capsule), len(sum.Cup), len(sum.LowStock), sum.StockValue)
	return nil
}

func runCargo(ctx context.Context, app *App, args []string) error {
	f, err := pageArg(args)
	if err != nil {
		return err
	}
	if err := app.Workshops.Cargo.FetchAll(ctx, f); err != nil {
		return err
	}
	tw := newTable(Out, "ID", "ДАТА", "НАИМЕНОВАНИЕ", "ВЕС", "СТАТУС", "ТРЕК")
	for _, c := range app.Workshops.Cargo.Items() {
		row(tw, c.ID, date(c.Date), c.Name, fmt.Sprintf("%g %s", c.Weight, c.Unit), c.Status, c.TrackingNumber)
	}
	_ = tw.Flush()
	printPagination(app.Workshops.Cargo.Pagination())
	sum := app.Workshops.Summary()
	fmt.Fprintf(Out, "Заказано: %d, принято: %d, общий вес: %s\n", len(sum.OrderedCargo), len(sum.ReceivedCargo), sum.CargoWeight)
	return nil
}

func runWorkshops(ctx context.Context, app *App, args []string) error {
	var err error
	switch {
	case len(args) == 0:
		err = app.Workshops.Items.FetchAll(ctx, nil)
	case len(args) == 1 && args[0] == string(model.WorkshopCapsule):
		err = app.Workshops.FetchCapsule(ctx, nil)
	case len(args) == 1 && args[0] == string(model.WorkshopCup):
		err = app.Workshops.FetchCup(ctx, nil)
	default:
		return ErrUsage
	}
	if err != nil {
		return err
	}
	tw := newTable(Out, "ID", "ДАТА", "ЦЕХ", "ПРОДУКЦИЯ", "КОЛ-ВО", "СМЕНА")
	for _, it := range app.Workshops.Items.Items() {
		row(tw, it.ID, date(it.Date), it.WorkshopType, it.ProductName, fmt.Sprintf("%g %s", it.Quantity, it.Unit), it.Shift)
	}
	_ = tw.Flush()
	sum := app.Workshops.Summary()
	fmt.Fprintf(Out, "Выпуск капсулы: %s, стакана: %s\n", sum.CapsuleProduction, sum.CupProduction)
	return nil
}

func runProducts(ctx context.Context, app *App, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := app.Products.FetchAll(ctx, nil); err != nil {
		return err
	}
	tw := newTable(Out, "ID", "НАИМЕНОВАНИЕ", "ЕД.", "ЦЕНА")
	for _, p := range app.Products.Items() {
		row(tw, p.ID, p.Name, p.Unit, p.Price.StringFixed(2))
	}
	_ = tw.Flush()
	fmt.Fprintf(Out, "Всего товаров: %d\n", app.Products.Count())
	return nil
}

func init() {
	RegisterCmd(listCmd{name: "cashier", desc: "Кассовые операции", usage: "cashier [page]", route: "cashier", run: runCashier})
	RegisterCmd(listCmd{name: "transactions", desc: "Доходы и расходы", usage: "transactions [page]", route: "income-expense", run: runTransactions})
	RegisterCmd(listCmd{name: "varzob", desc: "Расходы Варзоб", usage: "varzob [page]", route: "varzob-expense", run: runVarzob})
	RegisterCmd(listCmd{name: "warehouse", desc: "Склад (или склад фабрики)", usage: "warehouse [page|factory]", route: "warehouse", run: runWarehouse})
	RegisterCmd(listCmd{name: "cargo", desc: "Груз из Китая", usage: "cargo [page]", route: "chinese-cargo", run: runCargo})
	RegisterCmd(listCmd{name: "workshops", desc: "Выпуск цехов", usage: "workshops [capsule|cup]", route: "capsule-workshop", run: runWorkshops})
	RegisterCmd(listCmd{name: "products", desc: "Справочник товаров", usage: "products", route: "products", run: runProducts})
}
