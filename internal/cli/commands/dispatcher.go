package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"FinSoft/internal/cli/api"
	"FinSoft/internal/cli/store"
)

// Dispatch выполняет команду из args и возвращает код выхода процесса:
// 0 успех, 1 ошибка команды или отказ в доступе, 2 неверный вызов.
func Dispatch(ctx context.Context, app *App, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	name := strings.ToLower(args[0])
	if name == "help" {
		return help(args[1:])
	}
	c, ok := Get(name)
	if !ok {
		return unknown(name)
	}

	err := run(ctx, app, c, args[1:])
	flushToasts(app)

	var redirect *RedirectError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return 2
	case errors.As(err, &redirect):
		fmt.Fprintf(Out, "Нет доступа, перейдите на %s\n", redirect.Target)
		return 1
	default:
		app.Log.Debugw("command failed", "command", name, "error", err)
		fmt.Fprintf(Out, "%s error: %s\n", name, api.UserMessage(err))
		return 1
	}
}

// help: "help" печатает общий список, "help <command>" одну строку Usage.
func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return 0
	}
	c, ok := Get(strings.ToLower(args[0]))
	if !ok {
		return unknown(args[0])
	}
	fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
	return 0
}

func unknown(name string) int {
	fmt.Fprintf(Out, "Unknown command: %s\n\n%s", name, FormatGlobalUsage())
	return 2
}

func run(ctx context.Context, app *App, c Command, args []string) error {
	if section := c.Route(); section != "" {
		if err := app.Authorize(section); err != nil {
			return err
		}
	}
	return c.Run(ctx, app, args)
}

// flushToasts печатает накопленные уведомления и очищает их.
func flushToasts(app *App) {
	if app == nil || app.UI == nil {
		return
	}
	for _, t := range app.UI.Toasts() {
		fmt.Fprintf(Out, "%s %s\n", toastMark(t.Type), t.Message)
	}
	app.UI.ClearToasts()
}

func toastMark(t store.ToastType) string {
	switch t {
	case store.ToastSuccess:
		return "[ok]"
	case store.ToastError:
		return "[ошибка]"
	case store.ToastWarning:
		return "[!]"
	}
	return "[i]"
}
