package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanmalyshevv/weblarek/internal/app"
	"github.com/ivanmalyshevv/weblarek/internal/dom"
	"github.com/ivanmalyshevv/weblarek/internal/model"
	"github.com/ivanmalyshevv/weblarek/internal/view"
)

type stubBackend struct{}

func (stubBackend) Products(context.Context) ([]model.Product, error) {
	return []model.Product{
		{ID: "p1", Title: "Фреймворк куки судьбы", Category: "дополнительное", Price: model.Price(2500)},
		{ID: "p2", Title: "Бэкенд-антистресс", Category: "другое", Price: model.Price(1000)},
	}, nil
}

func (stubBackend) SubmitOrder(_ context.Context, order model.OrderPayload) (model.OrderResult, error) {
	return model.OrderResult{ID: "o1", Total: order.Total}, nil
}

type fixture struct {
	session *app.Session
	server  *httptest.Server
	ctx     context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	session, err := app.New(app.Options{Backend: stubBackend{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = session.Run(ctx)
	}()

	settle, cancelSettle := context.WithTimeout(ctx, 5*time.Second)
	defer cancelSettle()
	require.NoError(t, session.Settle(settle))

	server := httptest.NewServer(New(session, Options{
		MetricsPath:  "/metrics",
		PingInterval: time.Second,
	}))
	t.Cleanup(func() {
		server.Close()
		cancel()
		<-stopped
	})
	return &fixture{session: session, server: server, ctx: ctx}
}

// ref returns the data-ref of the first node matching sel.
func (f *fixture) ref(t *testing.T, sel string) string {
	t.Helper()
	var ref string
	err := f.session.Do(f.ctx, "test", func(context.Context) error {
		if n := dom.Find(f.session.Document().Root(), sel); n != nil {
			ref = f.session.Document().Ref(n)
		}
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, ref, "no element matches %q", sel)
	return ref
}

func (f *fixture) post(t *testing.T, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	res, err := http.Post(f.server.URL+"/ui/events", "application/json", &buf)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, data
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(data)
}

func TestDocument(t *testing.T) {
	f := newFixture(t)

	res, body := get(t, f.server.URL+"/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	assert.NotEmpty(t, res.Header.Get(RevisionHeader))
	assert.Contains(t, body, "Фреймворк куки судьбы")
	assert.Contains(t, body, `/assets/app.js`)
}

func TestEvent_Click(t *testing.T) {
	f := newFixture(t)
	before := f.session.Snapshot().Revision

	res, data := f.post(t, EventRequest{Ref: f.ref(t, `.gallery [data-id="p1"]`), Type: dom.Click})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var frame Frame
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Greater(t, frame.Revision, before)
	assert.Contains(t, frame.HTML, view.ActiveClass)
	assert.Contains(t, frame.HTML, "card_full")
}

func TestEvent_Input(t *testing.T) {
	f := newFixture(t)

	// Open the order form: buy, open the basket, go to checkout.
	for _, sel := range []string{
		`.gallery [data-id="p2"]`,
		`#modal-container .card__button`,
		`.header__basket`,
		`#modal-container .basket__button`,
	} {
		res, _ := f.post(t, EventRequest{Ref: f.ref(t, sel), Type: dom.Click})
		require.Equal(t, http.StatusOK, res.StatusCode, sel)
	}

	res, data := f.post(t, EventRequest{
		Ref:   f.ref(t, `#modal-container input[name="address"]`),
		Type:  dom.Input,
		Name:  "address",
		Value: "Тверская 1",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var frame Frame
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Contains(t, frame.HTML, `value="Тверская 1"`)
	assert.Contains(t, frame.HTML, "Необходимо выбрать способ оплаты")
}

func TestEvent_Rejected(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		body   string
		status int
		errMsg string
	}{
		{"malformed", `{"ref":`, http.StatusBadRequest, "malformed event"},
		{"missing ref", `{"type":"click"}`, http.StatusBadRequest, "Ref is required"},
		{"unknown type", `{"ref":"r1","type":"hover"}`, http.StatusBadRequest, "Type must be one of"},
		{"unknown ref", `{"ref":"nope","type":"click"}`, http.StatusNotFound, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := http.Post(f.server.URL+"/ui/events", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, tt.status, res.StatusCode)
			var body errorBody
			require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
			assert.Contains(t, body.Error, tt.errMsg)
		})
	}
}

func TestEvent_MethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	res, _ := get(t, f.server.URL+"/ui/events")
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestAssets(t *testing.T) {
	f := newFixture(t)

	res, body := get(t, f.server.URL+"/assets/app.js")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "javascript")
	assert.Contains(t, body, "/ui/events")

	res, body = get(t, f.server.URL+"/assets/styles.css")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, ".modal_active")

	res, _ = get(t, f.server.URL+"/assets/missing.js")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)

	res, body := get(t, f.server.URL+"/healthz")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", body)

	res, body = get(t, f.server.URL+"/metrics")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `weblarek_events_published_total{topic="catalog.changed"} 1`)
	assert.Contains(t, body, "weblarek_document_revision")
}

func TestMetricsDisabled(t *testing.T) {
	session, err := app.New(app.Options{Backend: stubBackend{}, SkipInitialLoad: true})
	require.NoError(t, err)
	srv := httptest.NewServer(New(session, Options{}))
	defer srv.Close()

	res, _ := get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestSocket_PushesRenders(t *testing.T) {
	f := newFixture(t)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first Frame
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, f.session.Snapshot().Revision, first.Revision)
	assert.Contains(t, first.HTML, "Бэкенд-антистресс")

	// A render caused elsewhere reaches the socket.
	require.NoError(t, f.session.Refresh(f.ctx))

	var next Frame
	require.NoError(t, conn.ReadJSON(&next))
	assert.Greater(t, next.Revision, first.Revision)
}

func TestSocket_ClosedWhenSessionStops(t *testing.T) {
	session, err := app.New(app.Options{Backend: stubBackend{}, SkipInitialLoad: true})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = session.Run(ctx)
	}()
	srv := httptest.NewServer(New(session, Options{}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first Frame
	require.NoError(t, conn.ReadJSON(&first))

	cancel()
	<-stopped

	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
