package Controllers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/paradise-cafe/ai"
	"github.com/yeremiapane/paradise-cafe/ingest"
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/realtime"
	"github.com/yeremiapane/paradise-cafe/router"
	"github.com/yeremiapane/paradise-cafe/services"
	"github.com/yeremiapane/paradise-cafe/store"
)

// 1x1 transparent PNG
var pngPixel, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type stubEngine struct {
	suggestions []ai.Suggestion
}

func (s stubEngine) Suggest(context.Context, string, []models.MenuProjection) ([]ai.Suggestion, error) {
	return s.suggestions, nil
}

func (stubEngine) ItemDetails(context.Context, string, models.Category) (*ai.ItemDetails, error) {
	return &ai.ItemDetails{Description: "Slow-cooked lamb in Kashmiri chillies", SuggestedPrice: 1250, IsSpicy: true}, nil
}

func (stubEngine) ItemImage(context.Context, string, string) (string, error) {
	return "data:image/png;base64,AAAA", nil
}

func setupRouter(t *testing.T, backend store.Backend, engine ai.Engine) (*gin.Engine, *services.Site) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	gw := store.NewGateway(backend)
	site := services.NewSite(gw)
	require.NoError(t, site.Start(ctx))

	readyCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, site.WaitReady(readyCtx))

	hub := realtime.NewHub(site, time.Hour)
	require.NoError(t, hub.Start(ctx))

	t.Cleanup(func() {
		hub.Stop()
		site.Close()
		gw.Close()
	})

	r := router.SetupRouter(router.Deps{
		Site:        site,
		Hub:         hub,
		Recommender: services.NewRecommender(engine),
		Generator:   services.NewGenerator(engine),
		Encoder:     ingest.NewEncoder(0),
		RateLimit:   10000,
	})
	return r, site
}

func doJSON(t *testing.T, r http.Handler, method, url string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	return serve(t, r, req)
}

type formFile struct {
	field, name string
	data        []byte
}

func doMultipart(t *testing.T, r http.Handler, method, url string, fields map[string]string, files []formFile) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return serve(t, r, req)
}

func serve(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}
