// Package guard решает, может ли текущая роль открыть раздел консоли,
// и куда перенаправить, если нет.
package guard

import (
	"slices"
	"strings"

	"FinSoft/internal/model"
)

const (
	LoginPath   = "/login"
	RootPath    = "/"
	AdminHome   = "/admin"
	ManagerHome = "/manager"
)

// Access требование маршрута к сессии. Реализации: Public и RequiresRole.
type Access interface {
	access()
}

// Public маршрут доступен без входа.
type Public struct{}

// RequiresRole маршрут доступен только перечисленным ролям.
type RequiresRole struct {
	Roles []model.Role
}

func (Public) access()       {}
func (RequiresRole) access() {}

// Sections разделы, общие для панелей администратора и менеджера.
var Sections = []string{
	"capsule-workshop",
	"chinese-cargo",
	"cup-workshop",
	"income-expense",
	"varzob-expense",
	"cashier",
	"debts",
	"products",
	"profile",
	"reports",
	"settings",
	"warehouse",
	"factory-warehouse",
}

// Route запись таблицы маршрутов.
type Route struct {
	Path   string
	Access Access
}

// Routes таблица маршрутов консоли.
var Routes = buildRoutes()

func buildRoutes() map[string]Route {
	routes := map[string]Route{
		RootPath:  {Path: RootPath, Access: Public{}},
		LoginPath: {Path: LoginPath, Access: Public{}},
	}
	for home, role := range map[string]model.Role{AdminHome: model.RoleAdmin, ManagerHome: model.RoleManager} {
		acc := RequiresRole{Roles: []model.Role{role}}
		routes[home] = Route{Path: home, Access: acc}
		for _, s := range Sections {
			p := home + "/" + s
			routes[p] = Route{Path: p, Access: acc}
		}
	}
	return routes
}

// Home стартовая страница роли.
func Home(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return AdminHome
	case model.RoleManager:
		return ManagerHome
	}
	return LoginPath
}

// SectionPath путь раздела в панели роли.
func SectionPath(role model.Role, section string) string {
	home := Home(role)
	if home == LoginPath || section == "" {
		return home
	}
	return home + "/" + section
}

// Decision результат проверки навигации.
type Decision struct {
	Allow  bool
	Target string
}

func allow() Decision                 { return Decision{Allow: true} }
func redirect(target string) Decision { return Decision{Target: target} }

// Check решает навигацию на path для роли role; ok=false значит, что сессии нет.
// Запрещённое состояние не возникает: отказ всегда даёт перенаправление.
func Check(path string, role model.Role, ok bool) Decision {
	path = clean(path)
	if ok && !role.Valid() {
		ok = false
	}

	route, known := Routes[path]
	if !known {
		if !ok {
			return redirect(LoginPath)
		}
		return redirect(Home(role))
	}

	switch acc := route.Access.(type) {
	case Public:
		if ok {
			return redirect(Home(role))
		}
		if path == RootPath {
			return redirect(LoginPath)
		}
		return allow()
	case RequiresRole:
		if !ok {
			return redirect(LoginPath)
		}
		if !slices.Contains(acc.Roles, role) {
			return redirect(Home(role))
		}
		return allow()
	default:
		panic("guard: unknown access kind")
	}
}

func clean(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = RootPath
		}
	}
	return path
}
