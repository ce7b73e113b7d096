package commands

import (
	"context"
	"fmt"
	"time"

	"FinSoft/internal/cli/guard"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Показать текущую сессию" }
func (statusCmd) Usage() string       { return "status" }
func (statusCmd) Route() string       { return "" }

func (statusCmd) Run(_ context.Context, app *App, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	fmt.Fprintf(Out, "API: %s\n", app.Client.BaseURL())
	s, ok := app.Auth.Session()
	if !ok {
		fmt.Fprintln(Out, "Статус: не авторизован")
		return nil
	}
	fmt.Fprintf(Out, "Пользователь: %s <%s>\n", s.DisplayName(), s.Email)
	fmt.Fprintf(Out, "Роль: %s (%s)\n", s.Role, guard.Home(s.Role))
	if exp, ok := app.Auth.TokenExpiry(); ok {
		left := time.Until(exp).Truncate(time.Second)
		if left > 0 {
			fmt.Fprintf(Out, "Токен действует до %s (ещё %s)\n", exp.Local().Format("02.01.2006 15:04"), left)
		} else {
			fmt.Fprintln(Out, "Токен истёк, будет обновлён при следующем запросе")
		}
	}
	return nil
}

type routeCmd struct{}

func (routeCmd) Name() string        { return "route" }
func (routeCmd) Description() string { return "Проверить доступ к странице консоли" }
func (routeCmd) Usage() string       { return "route <path>" }
func (routeCmd) Route() string       { return "" }

func (routeCmd) Run(_ context.Context, app *App, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	role, ok := app.Auth.CurrentRole()
	d := guard.Check(args[0], role, ok)
	if d.Allow {
		fmt.Fprintf(Out, "%s: доступ разрешён\n", args[0])
		return nil
	}
	fmt.Fprintf(Out, "%s: перенаправление на %s\n", args[0], d.Target)
	return nil
}

func init() {
	RegisterCmd(statusCmd{})
	RegisterCmd(routeCmd{})
}
