package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlastrek/tours-api/pkg/query"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type note struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// fakeNotes is an in-memory Collection for factory tests.
type fakeNotes struct {
	notes map[string]*note
	seq   int

	lastDef *query.Definition
}

func newFakeNotes() *fakeNotes {
	return &fakeNotes{notes: map[string]*note{}}
}

func (f *fakeNotes) Query() *query.Definition {
	return query.New("notes", []string{"id", "title", "created_at"})
}

func (f *fakeNotes) FindMany(_ context.Context, def *query.Definition) ([]note, error) {
	f.lastDef = def
	out := make([]note, 0, len(f.notes))
	for _, n := range f.notes {
		out = append(out, *n)
	}
	return out, nil
}

func (f *fakeNotes) FindByID(_ context.Context, id string) (*note, error) {
	n, ok := f.notes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotes) Create(_ context.Context, n *note) error {
	f.seq++
	n.ID = "n" + strconv.Itoa(f.seq)
	cp := *n
	f.notes[n.ID] = &cp
	return nil
}

func (f *fakeNotes) UpdateByID(_ context.Context, id string, patch map[string]any) (*note, error) {
	n, ok := f.notes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if v, ok := patch["title"]; ok {
		n.Title = v.(string)
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotes) DeleteByID(_ context.Context, id string) error {
	if _, ok := f.notes[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.notes, id)
	return nil
}

func testBase() *Base {
	return &Base{Env: "production"}
}

func noteRouter(col *fakeNotes) *gin.Engine {
	b := testBase()
	r := gin.New()
	r.GET("/notes", List[note](b, col, nil))
	r.GET("/scoped/:owner/notes", List[note](b, col, func(c *gin.Context) map[string]any {
		return map[string]any{"owner_id": c.Param("owner")}
	}))
	r.GET("/notes/:id", GetOne[note](b, col))
	r.POST("/notes", CreateOne[note](b, col, func(c *gin.Context) (*note, error) {
		var n note
		if err := c.ShouldBindJSON(&n); err != nil {
			return nil, err
		}
		return &n, nil
	}))
	r.PATCH("/notes/:id", UpdateOne[note](b, col, "title"))
	r.DELETE("/notes/:id", DeleteOne[note](b, col))
	return r
}

func TestListEmptyIsSuccessWithZeroResults(t *testing.T) {
	r := noteRouter(newFakeNotes())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status  string `json:"status"`
		Results *int   `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	require.NotNil(t, body.Results)
	assert.Equal(t, 0, *body.Results)
}

func TestListReportsResultCount(t *testing.T) {
	col := newFakeNotes()
	require.NoError(t, col.Create(context.Background(), &note{Title: "a"}))
	require.NoError(t, col.Create(context.Background(), &note{Title: "b"}))
	r := noteRouter(col)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"results":2`)
}

func TestListAppliesQuerySpec(t *testing.T) {
	col := newFakeNotes()
	r := noteRouter(col)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes?title=x&sort=-created_at&page=2&limit=5", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, col.lastDef)
	where, args := col.lastDef.Where()
	require.Len(t, where, 1)
	assert.Equal(t, `"title" = $1`, where[0])
	assert.Equal(t, []any{"x"}, args)
	assert.Equal(t, []string{`"created_at" DESC`}, col.lastDef.OrderBy())
	limit, offset := col.lastDef.Limits()
	assert.Equal(t, 5, limit)
	assert.Equal(t, 5, offset)
}

func TestListScopeAddsParentFilter(t *testing.T) {
	col := newFakeNotes()
	r := noteRouter(col)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scoped/u1/notes", nil))

	require.Equal(t, http.StatusOK, w.Code)
	where, args := col.lastDef.Where()
	require.Len(t, where, 1)
	assert.Equal(t, `"owner_id" = $1`, where[0])
	assert.Equal(t, []any{"u1"}, args)
}

func TestGetOneUnknownIDIs404(t *testing.T) {
	r := noteRouter(newFakeNotes())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
	assert.Contains(t, w.Body.String(), "no document found with that ID")
}

func TestCreateOneReturns201(t *testing.T) {
	col := newFakeNotes()
	r := noteRouter(col)

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"title":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"hello"`)
	assert.Len(t, col.notes, 1)
}

func TestUpdateOnePrunesDisallowedFields(t *testing.T) {
	col := newFakeNotes()
	n := &note{Title: "before"}
	require.NoError(t, col.Create(context.Background(), n))
	r := noteRouter(col)

	req := httptest.NewRequest(http.MethodPatch, "/notes/"+n.ID,
		strings.NewReader(`{"title":"after","id":"evil"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "after", col.notes[n.ID].Title)
	assert.Equal(t, n.ID, col.notes[n.ID].ID)
}

func TestDeleteOneReturns204(t *testing.T) {
	col := newFakeNotes()
	n := &note{Title: "x"}
	require.NoError(t, col.Create(context.Background(), n))
	r := noteRouter(col)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/notes/"+n.ID, nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Empty(t, col.notes)
}

func TestDeleteOneUnknownIDIs404(t *testing.T) {
	r := noteRouter(newFakeNotes())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/notes/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
