package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"FinSoft/internal/cli/repo"
)

// DarkModeKey ключ флага тёмной темы в локальном хранилище.
const DarkModeKey = "finsoft_dark_mode"

// DefaultToastDuration время показа уведомления по умолчанию.
const DefaultToastDuration = 3 * time.Second

type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastWarning ToastType = "warning"
	ToastInfo    ToastType = "info"
)

// Toast всплывающее уведомление. Duration 0 означает "пока не закроют".
type Toast struct {
	ID       string
	Type     ToastType
	Message  string
	Duration time.Duration
}

// UIStore состояние интерфейса: уведомления, глобальная загрузка,
// боковая панель и тёмная тема.
type UIStore struct {
	storage repo.Storage
	log     *zap.SugaredLogger

	mu          sync.Mutex
	toasts      []Toast
	timers      map[string]*time.Timer
	loading     bool
	sidebarOpen bool
	darkMode    bool
}

func NewUIStore(storage repo.Storage, log *zap.SugaredLogger) *UIStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &UIStore{storage: storage, log: log, timers: map[string]*time.Timer{}}
}

// ShowToast adds a toast and returns its id. A positive duration schedules removal.
func (u *UIStore) ShowToast(t ToastType, message string, duration time.Duration) string {
	id := uuid.NewString()
	u.mu.Lock()
	u.toasts = append(u.toasts, Toast{ID: id, Type: t, Message: message, Duration: duration})
	if duration > 0 {
		u.timers[id] = time.AfterFunc(duration, func() { u.RemoveToast(id) })
	}
	u.mu.Unlock()
	return id
}

func (u *UIStore) Success(message string) string {
	return u.ShowToast(ToastSuccess, message, DefaultToastDuration)
}

func (u *UIStore) Error(message string) string {
	return u.ShowToast(ToastError, message, DefaultToastDuration)
}

func (u *UIStore) Warning(message string) string {
	return u.ShowToast(ToastWarning, message, DefaultToastDuration)
}

func (u *UIStore) Info(message string) string {
	return u.ShowToast(ToastInfo, message, DefaultToastDuration)
}

func (u *UIStore) RemoveToast(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if t, ok := u.timers[id]; ok {
		t.Stop()
		delete(u.timers, id)
	}
	kept := u.toasts[:0:0]
	for _, t := range u.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	u.toasts = kept
}

func (u *UIStore) ClearToasts() {
	u.mu.Lock()
	defer u.mu.Unlock()
	for id, t := range u.timers {
		t.Stop()
		delete(u.timers, id)
	}
	u.toasts = nil
}

func (u *UIStore) Toasts() []Toast {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Toast(nil), u.toasts...)
}

func (u *UIStore) SetLoading(v bool) {
	u.mu.Lock()
	u.loading = v
	u.mu.Unlock()
}

func (u *UIStore) Loading() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.loading
}

func (u *UIStore) ToggleSidebar() {
	u.mu.Lock()
	u.sidebarOpen = !u.sidebarOpen
	u.mu.Unlock()
}

func (u *UIStore) OpenSidebar() {
	u.mu.Lock()
	u.sidebarOpen = true
	u.mu.Unlock()
}

func (u *UIStore) CloseSidebar() {
	u.mu.Lock()
	u.sidebarOpen = false
	u.mu.Unlock()
}

func (u *UIStore) SidebarOpen() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.sidebarOpen
}

func (u *UIStore) DarkMode() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.darkMode
}

// ToggleDarkMode переключает тему и сохраняет флаг.
func (u *UIStore) ToggleDarkMode() (bool, error) {
	u.mu.Lock()
	u.darkMode = !u.darkMode
	v := u.darkMode
	u.mu.Unlock()
	if u.storage == nil {
		return v, nil
	}
	val := "false"
	if v {
		val = "true"
	}
	if err := u.storage.SetItem(DarkModeKey, []byte(val)); err != nil {
		u.log.Warnw("persist dark mode failed", "error", err)
		return v, err
	}
	return v, nil
}

// LoadDarkMode читает сохранённый флаг; отсутствие ключа оставляет светлую тему.
func (u *UIStore) LoadDarkMode() bool {
	if u.storage == nil {
		return u.DarkMode()
	}
	raw, err := u.storage.GetItem(DarkModeKey)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			u.log.Warnw("load dark mode failed", "error", err)
		}
		return u.DarkMode()
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.darkMode = string(raw) == "true"
	return u.darkMode
}
