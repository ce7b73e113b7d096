package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"FinSoft/internal/cli/store"
	"FinSoft/internal/model"
)

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw io.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func amount(d decimal.Decimal, c model.Currency) string {
	return model.Money{Amount: d, Currency: c}.String()
}

func date(s string) string {
	return model.ISOToDisplay(s)
}

func printPagination(p store.Pagination) {
	fmt.Fprintf(Out, "Страница %d из %d, всего %d\n", p.CurrentPage, p.LastPage, p.Total)
}

// pageArg читает необязательный номер страницы.
func pageArg(args []string) (*model.FilterParams, error) {
	switch len(args) {
	case 0:
		return nil, nil
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return nil, ErrUsage
		}
		return &model.FilterParams{Page: n}, nil
	}
	return nil, ErrUsage
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, ErrUsage
	}
	return d, nil
}

// dateArg принимает ГГГГ-ММ-ДД или ДД.ММ.ГГГГ; пустое значение даёт сегодня.
func dateArg(s string) (string, error) {
	if s == "" {
		return model.Today(time.Now()), nil
	}
	iso, ok := model.NormalizeToISO(s)
	if !ok {
		return "", ErrUsage
	}
	return iso, nil
}
