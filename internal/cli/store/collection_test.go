package store

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"FinSoft/internal/cli/api"
	"FinSoft/internal/cli/validation"
	"FinSoft/internal/model"
)

// mockRemote — мок клиента API.
type mockRemote struct{ mock.Mock }

func (m *mockRemote) Get(ctx context.Context, path string, query url.Values) (*api.Envelope, error) {
	args := m.Called(ctx, path, query)
	env, _ := args.Get(0).(*api.Envelope)
	return env, args.Error(1)
}

func (m *mockRemote) Post(ctx context.Context, path string, body any) (*api.Envelope, error) {
	args := m.Called(ctx, path, body)
	env, _ := args.Get(0).(*api.Envelope)
	return env, args.Error(1)
}

func (m *mockRemote) Put(ctx context.Context, path string, body any) (*api.Envelope, error) {
	args := m.Called(ctx, path, body)
	env, _ := args.Get(0).(*api.Envelope)
	return env, args.Error(1)
}

func (m *mockRemote) Delete(ctx context.Context, path string) (*api.Envelope, error) {
	args := m.Called(ctx, path)
	env, _ := args.Get(0).(*api.Envelope)
	return env, args.Error(1)
}

func body(s string) *api.Envelope { return api.Normalize([]byte(s)) }

func ids[T model.Record](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.RecordID())
	}
	return out
}

var ctx = context.Background()

func TestCollection_InitialState(t *testing.T) {
	c := NewCollection[model.Product](&mockRemote{}, "/products", nil)
	assert.Empty(t, c.Items())
	assert.False(t, c.Loading())
	assert.NoError(t, c.Err())
	assert.Equal(t, Pagination{CurrentPage: 1, LastPage: 1, PerPage: 10, Total: 0}, c.Pagination())
	_, ok := c.Current()
	assert.False(t, ok)
}

func TestCollection_FetchAllPaginated(t *testing.T) {
	r := &mockRemote{}
	r.On("Get", mock.Anything, "/products", url.Values{"page": {"2"}}).
		Return(body(`{"success":true,"data":{"data":[{"id":"a","name":"Капсула"},{"id":"b"}],"meta":{"currentPage":2,"lastPage":3,"perPage":2,"total":6}}}`), nil).Once()

	c := NewCollection[model.Product](r, "/products", nil)
	require.NoError(t, c.FetchAll(ctx, &model.FilterParams{Page: 2}))

	assert.Equal(t, []string{"a", "b"}, ids(c.Items()))
	assert.Equal(t, Pagination{CurrentPage: 2, LastPage: 3, PerPage: 2, Total: 6}, c.Pagination())
	assert.False(t, c.Loading())
	r.AssertExpectations(t)
}

func TestCollection_FetchAllBareArray(t *testing.T) {
	r := &mockRemote{}
	r.On("Get", mock.Anything, "/products", mock.Anything).
		Return(body(`[{"id":"1"},{"id":"2"},{"id":"3"}]`), nil).Once()

	c := NewCollection[model.Product](r, "/products", nil)
	require.NoError(t, c.FetchAll(ctx, nil))
	assert.Len(t, c.Items(), 3)
	assert.Equal(t, Pagination{CurrentPage: 1, LastPage: 1, PerPage: 10, Total: 3}, c.Pagination())
}

func TestCollection_FetchAllFailureKeepsStaleItems(t *testing.T) {
	r := &mockRemote{}
	r.On("Get", mock.Anything, "/products", mock.Anything).
		Return(body(`[{"id":"1"}]`), nil).Once()
	boom := &api.ServerError{StatusCode: 500, Message: api.MsgServerError}
	r.On("Get", mock.Anything, "/products", mock.Anything).Return(nil, boom).Once()

	c := NewCollection[model.Product](r, "/products", nil)
	require.NoError(t, c.FetchAll(ctx, nil))
	err := c.FetchAll(ctx, nil)
	require.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"1"}, ids(c.Items()))
	assert.ErrorIs(t, c.Err(), boom)
	assert.False(t, c.Loading())

	c.ClearError()
	assert.NoError(t, c.Err())
}

func TestCollection_SupersededFetchIsDiscarded(t *testing.T) {
	r := &mockRemote{}
	started := make(chan struct{})
	release := make(chan struct{})
	r.On("Get", mock.Anything, "/products", url.Values{"page": {"1"}}).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(body(`[{"id":"old"}]`), nil).Once()
	r.On("Get", mock.Anything, "/products", url.Values{"page": {"2"}}).
		Return(body(`[{"id":"new"}]`), nil).Once()

	c := NewCollection[model.Product](r, "/products", nil)
	done := make(chan error, 1)
	go func() { done <- c.FetchAll(ctx, &model.FilterParams{Page: 1}) }()

	<-started
	assert.True(t, c.Loading())
	require.NoError(t, c.FetchAll(ctx, &model.FilterParams{Page: 2}))
	assert.True(t, c.Loading(), "first request still in flight")

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"new"}, ids(c.Items()))
	assert.Equal(t, 2, c.Pagination().CurrentPage)
	assert.False(t, c.Loading())
}

func TestCollection_ResetInvalidatesInFlightFetch(t *testing.T) {
	r := &mockRemote{}
	started := make(chan struct{})
	release := make(chan struct{})
	r.On("Get", mock.Anything, "/products", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(body(`[{"id":"late"}]`), nil).Once()

	c := NewCollection[model.Product](r, "/products", nil)
	done := make(chan error, 1)
	go func() { done <- c.FetchAll(ctx, nil) }()
	<-started
	c.Reset()
	close(release)
	require.NoError(t, <-done)
	assert.Empty(t, c.Items())
}

func TestCollection_FetchByID(t *testing.T) {
	r := &mockRemote{}
	r.On("Get", mock.Anything, "/products/a%2Fb", url.Values(nil)).
		Return(body(`{"success":true,"data":{"id":"a/b","name":"Стакан"}}`), nil).Once()

	c := NewCollection[model.Product](r, "/products", nil)
	p, err := c.FetchByID(ctx, "a/b")
	require.NoError(t, err)
	assert.Equal(t, "Стакан", p.Name)
	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "a/b", cur.ID)
	assert.Empty(t, c.Items())
}

func TestCollection_CreatePrependsConfirmedRecord(t *testing.T) {
	r := &mockRemote{}
	r.On("Get", mock.Anything, "/products", mock.Anything).
		Return(body(`{"success":true,"data":{"data":[{"id":"1"}],"meta":{"currentPage":1,"lastPage":1,"perPage":10,"total":1}}}`), nil).Once()
	in := model.ProductInput{Name: "Капсула", Unit: "шт"}
	r.On("Post", mock.Anything, "/products", in).
		Return(body(`{"success":true,"data":{"id":"2","name":"Капсула","unit":"шт","price":0}}`), nil).Once()

	c := NewCollection[model.Product](r, "/products", nil)
	require.NoError(t, c.FetchAll(ctx, nil))
	rec, err := c.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "2", rec.ID)
	assert.Equal(t, []string{"2", "1"}, ids(c.Items()))
	assert.Equal(t, 2, c.Pagination().Total)
}

func TestCollection_CreateInvalidInputNeverReachesServer(t *testing.T) {
	r := &mockRemote{}
	c := NewCollection[model.Product](r, "/products", nil)

	_, err := c.Create(ctx, model.ProductInput{Unit: "шт"})
	var ve *validation.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Field("name"))
	assert.ErrorIs(t, c.Err(), err)
	assert.Empty(t, c.Items())
	r.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
}

func TestCollection_CreateFailureLeavesItems(t *testing.T) {
	r := &mockRemote{}
	r.On("Post", mock.Anything, "/products", mock.Anything).
		Return(nil, &api.NetworkError{Err: errors.New("refused")}).Once()

	c := NewCollection[model.Product](r, "/products", nil)
	_, err := c.Create(ctx, model.ProductInput{Name: "x", Unit: "шт"})
	require.Error(t, err)
	assert.Equal(t, api.MsgNoResponse, api.UserMessage(c.Err()))
	assert.Empty(t, c.Items())
	assert.False(t, c.Loading())
}

func TestCollection_UpdateReplacesOnlyLoadedRecord(t *testing.T) {
	r := &mockRemote{}
	r.On("Get", mock.Anything, "/products", mock.Anything).
		Return(body(`[{"id":"1","name":"a"},{"id":"2","name":"b"}]`), nil).Once()
	r.On("Put", mock.Anything, "/products/2", mock.Anything).
		Return(body(`{"success":true,"data":{"id":"2","name":"B"}}`), nil).Once()
	r.On("Put", mock.Anything, "/products/9", mock.Anything).
		Return(body(`{"success":true,"data":{"id":"9","name":"ghost"}}`), nil).Once()

	c := NewCollection[model.Product](r, "/products", nil)
	require.NoError(t, c.FetchAll(ctx, nil))

	_, err := c.Update(ctx, "2", map[string]any{"name": "B"})
	require.NoError(t, err)
	_, err = c.Update(ctx, "9", map[string]any{"name": "ghost"})
	require.NoError(t, err)

	items := c.Items()
	assert.Equal(t, []string{"1", "2"}, ids(items))
	assert.Equal(t, "B", items[1].Name)
}

func TestCollection_DeleteRemovesOnSuccessOnly(t *testing.T) {
	r := &mockRemote{}
	r.On("Get", mock.Anything, "/products", mock.Anything).
		Return(body(`[{"id":"1"},{"id":"2"}]`), nil).Once()
	r.On("Delete", mock.Anything, "/products/1").Return(body(``), nil).Once()
	r.On("Delete", mock.Anything, "/products/2").Return(nil, &api.ServerError{StatusCode: 403, Message: "нет доступа"}).Once()

	c := NewCollection[model.Product](r, "/products", nil)
	require.NoError(t, c.FetchAll(ctx, nil))

	require.NoError(t, c.Delete(ctx, "1"))
	require.Error(t, c.Delete(ctx, "2"))
	assert.Equal(t, []string{"2"}, ids(c.Items()))
	assert.Equal(t, 1, c.Pagination().Total)
	assert.Equal(t, 403, api.StatusCode(c.Err()))
}

func TestCollection_WatchReceivesSnapshots(t *testing.T) {
	r := &mockRemote{}
	r.On("Get", mock.Anything, "/products", mock.Anything).
		Return(body(`[{"id":"1"},{"id":"2"}]`), nil).Once()
	r.On("Delete", mock.Anything, "/products/1").Return(body(`{"success":true}`), nil).Once()

	c := NewCollection[model.Product](r, "/products", nil)
	var seen [][]string
	c.Watch(func(items []model.Product) { seen = append(seen, ids(items)) })

	require.NoError(t, c.FetchAll(ctx, nil))
	require.NoError(t, c.Delete(ctx, "1"))

	assert.Equal(t, [][]string{{}, {"1", "2"}, {"2"}}, seen)
}
