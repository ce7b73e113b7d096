package commands

import (
	"context"
	"errors"
	"fmt"

	"FinSoft/internal/cli/guard"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Войти и сохранить сессию" }
func (loginCmd) Usage() string       { return "login <email> <password>" }
func (loginCmd) Route() string       { return "" }

func (loginCmd) Run(ctx context.Context, app *App, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	res := app.Auth.Login(ctx, args[0], args[1])
	if !res.Success {
		return errors.New(res.Message)
	}
	s, _ := app.Auth.Session()
	app.UI.Success(fmt.Sprintf("Добро пожаловать, %s", s.DisplayName()))
	fmt.Fprintf(Out, "Роль: %s, стартовая страница %s\n", s.Role, guard.Home(s.Role))
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Выйти и удалить сессию" }
func (logoutCmd) Usage() string       { return "logout" }
func (logoutCmd) Route() string       { return "" }

func (logoutCmd) Run(ctx context.Context, app *App, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	app.Auth.Logout(ctx)
	app.UI.Info("Сессия завершена")
	return nil
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
}
