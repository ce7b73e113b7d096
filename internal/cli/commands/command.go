package commands

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// ErrUsage: аргументы не подошли, диспетчер печатает Usage команды.
var ErrUsage = errors.New("usage")

// Command подкоманда консоли.
type Command interface {
	Name() string
	Description() string
	// Usage полная строка вызова, например "debt-pay <id> <amount> [method]".
	Usage() string
	// Route раздел консоли, который открывает команда; "" — команда доступна без сессии.
	Route() string
	// Run получает аргументы без имени команды.
	Run(ctx context.Context, app *App, args []string) error
}

var registry = map[string]Command{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd вызывается из init() файла команды.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List команды по имени.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	slices.SortFunc(list, func(a, b Command) int { return cmp.Compare(a.Name(), b.Name()) })
	return list
}

// FormatGlobalUsage печатает общие команды отдельно от команд разделов.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("FinSoft console\n\n")
	b.WriteString("Usage:\n  finsoft [-api URL] [-storage fs|sqlite|bolt|memory] <command> [args]\n")

	var session, sections []Command
	for _, c := range List() {
		if c.Route() == "" {
			session = append(session, c)
		} else {
			sections = append(sections, c)
		}
	}
	section := func(title string, cmds []Command, withRoute bool) {
		if len(cmds) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s:\n", title)
		for _, c := range cmds {
			desc := c.Description()
			if withRoute {
				desc += " [" + c.Route() + "]"
			}
			fmt.Fprintf(&b, "  %-52s %s\n", c.Usage(), desc)
		}
	}
	section("Commands", session, false)
	section("Sections (login required)", sections, true)
	return b.String()
}
