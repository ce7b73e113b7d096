// Package store держит в памяти текущие страницы удалённых коллекций
// и пересчитывает производные сводки после каждого изменения.
package store

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"FinSoft/internal/cli/api"
	"FinSoft/internal/cli/validation"
	"FinSoft/internal/model"
)

// Remote is the part of the API client the stores need.
type Remote interface {
	Get(ctx context.Context, path string, query url.Values) (*api.Envelope, error)
	Post(ctx context.Context, path string, body any) (*api.Envelope, error)
	Put(ctx context.Context, path string, body any) (*api.Envelope, error)
	Delete(ctx context.Context, path string) (*api.Envelope, error)
}

var _ Remote = (*api.Client)(nil)

// Pagination состояние пагинации текущей страницы.
type Pagination struct {
	CurrentPage int
	LastPage    int
	PerPage     int
	Total       int
}

const defaultPerPage = 10

func initialPagination() Pagination {
	return Pagination{CurrentPage: 1, LastPage: 1, PerPage: defaultPerPage, Total: 0}
}

// Option настраивает коллекцию.
type Option[T model.Record] func(*Collection[T])

// WithNormalizer applies fn to every record received from the server.
func WithNormalizer[T model.Record](fn func(T) T) Option[T] {
	return func(c *Collection[T]) { c.normalize = fn }
}

// Collection is the generic remote collection store: one resource path,
// its current page in memory, and confirm-then-apply mutations.
//
// Every fetch takes a sequence token; a response is applied only if no newer
// fetch was issued on the same collection in the meantime.
type Collection[T model.Record] struct {
	path      string
	remote    Remote
	log       *zap.SugaredLogger
	normalize func(T) T

	mu        sync.RWMutex
	items     []T
	current   *T
	inflight  int
	err       error
	page      Pagination
	seq       uint64
	listeners []func([]T)
}

func NewCollection[T model.Record](remote Remote, path string, log *zap.SugaredLogger, opts ...Option[T]) *Collection[T] {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Collection[T]{
		path:   path,
		remote: remote,
		log:    log.With("resource", path),
		page:   initialPagination(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Path returns the resource path, e.g. "/debts".
func (c *Collection[T]) Path() string { return c.path }

func (c *Collection[T]) itemPath(id string) string {
	return c.path + "/" + url.PathEscape(id)
}

// Items returns a copy of the current page.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

// Current returns the record loaded by FetchByID.
func (c *Collection[T]) Current() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		var zero T
		return zero, false
	}
	return *c.current, true
}

// Find looks a record up on the current page.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Loading reports whether any request of this collection is in flight.
func (c *Collection[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inflight > 0
}

// Err returns the last recorded failure.
func (c *Collection[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Collection[T]) Pagination() Pagination {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

// Watch registers fn to receive a snapshot of items after every change.
// fn is called immediately with the current snapshot.
func (c *Collection[T]) Watch(fn func([]T)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	snap := append([]T(nil), c.items...)
	c.mu.Unlock()
	fn(snap)
}

// ClearError drops the recorded failure.
func (c *Collection[T]) ClearError() {
	c.mu.Lock()
	c.err = nil
	c.mu.Unlock()
}

// Reset returns the collection to its initial state. In-flight fetches are
// invalidated and their responses will be discarded.
func (c *Collection[T]) Reset() {
	c.mu.Lock()
	c.items = nil
	c.current = nil
	c.err = nil
	c.page = initialPagination()
	c.seq++
	c.mu.Unlock()
	c.notify()
}

func (c *Collection[T]) begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight++
	c.err = nil
}

func (c *Collection[T]) beginFetch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight++
	c.err = nil
	c.seq++
	return c.seq
}

// endLocked must be called with c.mu held.
func (c *Collection[T]) endLocked() {
	if c.inflight > 0 {
		c.inflight--
	}
}

func (c *Collection[T]) fail(err error) {
	c.mu.Lock()
	c.endLocked()
	c.err = err
	c.mu.Unlock()
}

func (c *Collection[T]) notify() {
	c.mu.RLock()
	snap := append([]T(nil), c.items...)
	ls := append([]func([]T){}, c.listeners...)
	c.mu.RUnlock()
	for _, fn := range ls {
		fn(snap)
	}
}

func (c *Collection[T]) norm(r T) T {
	if c.normalize != nil {
		return c.normalize(r)
	}
	return r
}

func (c *Collection[T]) indexLocked(id string) int {
	for i := range c.items {
		if c.items[i].RecordID() == id {
			return i
		}
	}
	return -1
}

// FetchAll loads one page of the collection. On success items and pagination are
// replaced wholesale; on failure the error is recorded and stale items are kept.
func (c *Collection[T]) FetchAll(ctx context.Context, f *model.FilterParams) error {
	return c.fetchInto(ctx, c.path, f, func(items []T, p Pagination) {
		c.items = items
		c.page = p
	})
}

// fetchInto runs a sequenced list fetch from path and hands the decoded page to
// apply under the write lock. apply is skipped for superseded responses.
func (c *Collection[T]) fetchInto(ctx context.Context, path string, f *model.FilterParams, apply func([]T, Pagination)) error {
	token := c.beginFetch()
	env, err := c.remote.Get(ctx, path, f.Values())
	var (
		items []T
		p     Pagination
	)
	if err == nil {
		items, p, err = decodeList[T](env, f)
	}

	c.mu.Lock()
	c.endLocked()
	if token != c.seq {
		c.mu.Unlock()
		c.log.Debugw("discarding superseded response", "path", path)
		return nil
	}
	if err != nil {
		c.err = err
		c.mu.Unlock()
		c.log.Warnw("fetch failed", "path", path, "error", err)
		return err
	}
	for i := range items {
		items[i] = c.norm(items[i])
	}
	apply(items, p)
	c.mu.Unlock()
	c.notify()
	return nil
}

// FetchByID loads a single record into Current; items are untouched.
func (c *Collection[T]) FetchByID(ctx context.Context, id string) (T, error) {
	c.begin()
	rec, err := c.fetchOne(ctx, c.itemPath(id))
	if err != nil {
		c.fail(err)
		c.log.Warnw("fetch by id failed", "id", id, "error", err)
		var zero T
		return zero, err
	}
	c.mu.Lock()
	c.endLocked()
	c.current = &rec
	c.mu.Unlock()
	return rec, nil
}

func (c *Collection[T]) fetchOne(ctx context.Context, path string) (T, error) {
	env, err := c.remote.Get(ctx, path, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	rec, err := api.Decode[T](env)
	if err != nil {
		return rec, err
	}
	return c.norm(rec), nil
}

// Create validates input, posts it and prepends the server-echoed record.
func (c *Collection[T]) Create(ctx context.Context, input any) (T, error) {
	var zero T
	if err := validation.Struct(input); err != nil {
		c.record(err)
		return zero, err
	}
	c.begin()
	env, err := c.remote.Post(ctx, c.path, input)
	var rec T
	if err == nil {
		rec, err = decodeRecord[T](env)
	}
	if err != nil {
		c.fail(err)
		c.log.Errorw("create failed", "error", err)
		return zero, err
	}
	rec = c.norm(rec)
	c.mu.Lock()
	c.endLocked()
	c.mu.Unlock()
	c.prepend(rec)
	return rec, nil
}

// prepend inserts a confirmed record at the head of the current page.
func (c *Collection[T]) prepend(rec T) {
	c.mu.Lock()
	c.items = append([]T{rec}, c.items...)
	c.page.Total++
	c.mu.Unlock()
	c.notify()
}

// record stores a local (pre-request) failure.
func (c *Collection[T]) record(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

// Update puts the patch and replaces the loaded record with the server's version.
// A record that is not on the current page is not inserted.
func (c *Collection[T]) Update(ctx context.Context, id string, patch any) (T, error) {
	var zero T
	if err := validation.Struct(patch); err != nil {
		c.record(err)
		return zero, err
	}
	c.begin()
	env, err := c.remote.Put(ctx, c.itemPath(id), patch)
	var rec T
	if err == nil {
		rec, err = decodeRecord[T](env)
	}
	if err != nil {
		c.fail(err)
		c.log.Errorw("update failed", "id", id, "error", err)
		return zero, err
	}
	rec = c.norm(rec)
	c.mu.Lock()
	c.endLocked()
	c.mu.Unlock()
	c.splice(rec)
	return rec, nil
}

// splice replaces rec on the page and in Current.
func (c *Collection[T]) splice(rec T) {
	c.Replace(rec)
	c.mu.Lock()
	if c.current != nil && (*c.current).RecordID() == rec.RecordID() {
		c.current = &rec
	}
	c.mu.Unlock()
}

// Delete removes the record locally once the server confirmed the deletion.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.begin()
	if _, err := c.remote.Delete(ctx, c.itemPath(id)); err != nil {
		c.fail(err)
		c.log.Errorw("delete failed", "id", id, "error", err)
		return err
	}
	c.mu.Lock()
	c.endLocked()
	c.mu.Unlock()
	c.remove(id)
	return nil
}

// remove drops the record with id from the page and from Current.
func (c *Collection[T]) remove(id string) bool {
	c.mu.Lock()
	removed := false
	kept := c.items[:0:0]
	for _, it := range c.items {
		if it.RecordID() == id {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	c.items = kept
	if removed && c.page.Total > 0 {
		c.page.Total--
	}
	if c.current != nil && (*c.current).RecordID() == id {
		c.current = nil
	}
	c.mu.Unlock()
	c.notify()
	return removed
}

// Replace swaps the loaded record with the same identity; absent records are ignored.
// Reports whether a record was replaced.
func (c *Collection[T]) Replace(rec T) bool {
	c.mu.Lock()
	i := c.indexLocked(rec.RecordID())
	if i >= 0 {
		c.items[i] = rec
	}
	c.mu.Unlock()
	if i >= 0 {
		c.notify()
	}
	return i >= 0
}

// do runs a request that is not a plain CRUD call (sub-resources, variants)
// with the collection's loading and error bookkeeping.
func (c *Collection[T]) do(fn func() error) error {
	c.begin()
	err := fn()
	c.mu.Lock()
	c.endLocked()
	if err != nil {
		c.err = err
	}
	c.mu.Unlock()
	return err
}

func decodeRecord[T any](env *api.Envelope) (T, error) {
	rec, err := api.Decode[T](env)
	if errors.Is(err, api.ErrNoData) {
		return rec, &api.ServerError{Message: "сервер не вернул запись"}
	}
	return rec, err
}

// decodeList accepts {data:[...], meta:{...}} as well as a bare array.
func decodeList[T any](env *api.Envelope, f *model.FilterParams) ([]T, Pagination, error) {
	raw := env.Raw()
	if raw.IsObject() && raw.Get("data").Exists() {
		page, err := api.Decode[model.Page[T]](env)
		if err != nil {
			return nil, Pagination{}, err
		}
		p := Pagination{
			CurrentPage: page.Meta.CurrentPage,
			LastPage:    page.Meta.LastPage,
			PerPage:     page.Meta.PerPage,
			Total:       page.Meta.Total,
		}
		if !raw.Get("meta").Exists() {
			p = barePagination(len(page.Data), f)
		}
		if page.Data == nil {
			page.Data = []T{}
		}
		return page.Data, p, nil
	}

	items, err := api.Decode[[]T](env)
	if errors.Is(err, api.ErrNoData) {
		items, err = []T{}, nil
	}
	if err != nil {
		return nil, Pagination{}, err
	}
	return items, barePagination(len(items), f), nil
}

// barePagination describes a non-paginated list as a single page.
func barePagination(n int, f *model.FilterParams) Pagination {
	p := Pagination{CurrentPage: 1, LastPage: 1, PerPage: defaultPerPage, Total: n}
	if f != nil && f.Page > 0 {
		p.CurrentPage = f.Page
		p.LastPage = f.Page
	}
	if f != nil && f.PerPage > 0 {
		p.PerPage = f.PerPage
	}
	if n > p.PerPage {
		p.PerPage = n
	}
	return p
}
