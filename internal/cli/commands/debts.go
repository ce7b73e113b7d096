package commands

import (
	"context"
	"fmt"

	"FinSoft/internal/model"
)

type debtsCmd struct{}

func (debtsCmd) Name() string        { return "debts" }
func (debtsCmd) Description() string { return "Список долгов и сводка" }
func (debtsCmd) Usage() string       { return "debts [page]" }
func (debtsCmd) Route() string       { return "debts" }

func (debtsCmd) Run(ctx context.Context, app *App, args []string) error {
	f, err := pageArg(args)
	if err != nil {
		return err
	}
	if err := app.Debts.FetchAll(ctx, f); err != nil {
		return err
	}
	items := app.Debts.Items()
	if len(items) == 0 {
		fmt.Fprintln(Out, "Нет долгов")
		return nil
	}
	tw := newTable(Out, "ID", "ДАТА", "КЛИЕНТ", "ТОВАР", "СУММА", "ОСТАТОК", "СТАТУС")
	for _, d := range items {
		row(tw, d.ID, date(d.Date), d.Client, d.Product, amount(d.TotalAmount, d.Currency), amount(d.RemainingAmount, d.Currency), d.Status)
	}
	_ = tw.Flush()
	printPagination(app.Debts.Pagination())

	sum := app.Debts.Summary()
	fmt.Fprintf(Out, "Неоплачено: %d, частично: %d, оплачено: %d\n", len(sum.Unpaid), len(sum.PartiallyPaid), len(sum.Paid))
	fmt.Fprintf(Out, "Общий остаток: %s\n", sum.TotalRemaining)
	return nil
}

type debtAddCmd struct{}

func (debtAddCmd) Name() string        { return "debt-add" }
func (debtAddCmd) Description() string { return "Добавить долг" }
func (debtAddCmd) Usage() string {
	return "debt-add <client> <product> <amount> <currency> [date]"
}
func (debtAddCmd) Route() string { return "debts" }

func (debtAddCmd) Run(ctx context.Context, app *App, args []string) error {
	if len(args) < 4 || len(args) > 5 {
		return ErrUsage
	}
	total, err := parseAmount(args[2])
	if err != nil {
		return err
	}
	cur, ok := model.ParseCurrency(args[3])
	if !ok {
		return ErrUsage
	}
	var day string
	if len(args) == 5 {
		day = args[4]
	}
	if day, err = dateArg(day); err != nil {
		return err
	}
	in := model.DebtInput{Date: day, Client: args[0], Product: args[1], TotalAmount: total, Currency: cur}
	d, err := app.Debts.Create(ctx, in)
	if err != nil {
		return err
	}
	app.UI.Success(fmt.Sprintf("Долг %s добавлен: %s", d.ID, amount(d.RemainingAmount, d.Currency)))
	return nil
}

type debtPayCmd struct{}

func (debtPayCmd) Name() string        { return "debt-pay" }
func (debtPayCmd) Description() string { return "Внести платёж по долгу" }
func (debtPayCmd) Usage() string       { return "debt-pay <id> <amount> [method]" }
func (debtPayCmd) Route() string       { return "debts" }

func (debtPayCmd) Run(ctx context.Context, app *App, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return ErrUsage
	}
	sum, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	method := model.PaymentCash
	if len(args) == 3 {
		method = model.PaymentMethod(args[2])
	}
	debt, err := app.Debts.FetchByID(ctx, args[0])
	if err != nil {
		return err
	}
	today, _ := dateArg("")
	in := model.PaymentInput{Date: today, Amount: sum, Currency: debt.Currency, Method: method}
	updated, err := app.Debts.MakePartialPayment(ctx, debt.ID, in)
	if err != nil {
		return err
	}
	app.UI.Success(fmt.Sprintf("Платёж принят. Остаток: %s (%s)", amount(updated.RemainingAmount, updated.Currency), updated.Status))
	return nil
}

type debtPaymentsCmd struct{}

func (debtPaymentsCmd) Name() string        { return "debt-payments" }
func (debtPaymentsCmd) Description() string { return "История платежей по долгу" }
func (debtPaymentsCmd) Usage() string       { return "debt-payments <id>" }
func (debtPaymentsCmd) Route() string       { return "debts" }

func (debtPaymentsCmd) Run(ctx context.Context, app *App, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	entries, err := app.Debts.PaymentHistory(ctx, args[0])
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(Out, "Платежей нет")
		return nil
	}
	tw := newTable(Out, "ДАТА", "СУММА", "СПОСОБ", "ПРИМЕЧАНИЕ")
	for _, p := range entries {
		row(tw, date(p.Date), amount(p.Amount, p.Currency), p.Method, p.Note)
	}
	return tw.Flush()
}

func init() {
	RegisterCmd(debtsCmd{})
	RegisterCmd(debtAddCmd{})
	RegisterCmd(debtPayCmd{})
	RegisterCmd(debtPaymentsCmd{})
}
