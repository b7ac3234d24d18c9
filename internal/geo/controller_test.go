package geo

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"academy-api/internal/logs"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type mockGeoService struct {
	GeoService
	ListFn   func(l Level, f ListFilter) ([]Place, int64, error)
	CreateFn func(l Level, in PlaceInput) (*PlaceDetail, error)
	ImportFn func(l Level, filename string, r io.Reader) (*ImportResult, error)
}

func (m *mockGeoService) List(l Level, f ListFilter) ([]Place, int64, error) { return m.ListFn(l, f) }
func (m *mockGeoService) Create(l Level, in PlaceInput) (*PlaceDetail, error) {
	return m.CreateFn(l, in)
}
func (m *mockGeoService) Import(l Level, filename string, r io.Reader) (*ImportResult, error) {
	return m.ImportFn(l, filename, r)
}

type mockLogService struct {
	count int
}

func (m *mockLogService) Log(entry logs.SystemLog, payload any) error {
	m.count++
	return nil
}

func setupGeoRouter(gc *GeoController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/geo/:level")
	g.GET("", gc.List)
	g.POST("", gc.Create)
	g.POST("/import", gc.Import)
	return r
}

func TestList_UnknownLevel(t *testing.T) {
	r := setupGeoRouter(&GeoController{Service: &mockGeoService{}, LS: &mockLogService{}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/geo/planets", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestList_PassesFilterAndPages(t *testing.T) {
	var got ListFilter
	svc := &mockGeoService{ListFn: func(l Level, f ListFilter) ([]Place, int64, error) {
		got = f
		return []Place{{ID: 1, Name: "Amman"}}, 41, nil
	}}
	r := setupGeoRouter(&GeoController{Service: svc, LS: &mockLogService{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/geo/states?locale=ar&search=am&parent_id=3&page=2&page_size=20", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got.Locale != "ar" || got.Search != "am" || got.ParentID != 3 || got.Page != 2 {
		t.Fatalf("unexpected filter: %+v", got)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["total_pages"].(float64) != 3 {
		t.Fatalf("expected 3 pages, got %v", body["total_pages"])
	}
}

func TestCreate_AuditsOnSuccess(t *testing.T) {
	svc := &mockGeoService{CreateFn: func(l Level, in PlaceInput) (*PlaceDetail, error) {
		if l != LevelCountry {
			t.Fatalf("unexpected level %s", l)
		}
		return &PlaceDetail{Place: Place{ID: 9, Name: in.Name}}, nil
	}}
	ls := &mockLogService{}
	r := setupGeoRouter(&GeoController{Service: svc, LS: ls})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/geo/countries", bytes.NewBufferString(`{"name":"Jordan"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated || ls.count != 1 {
		t.Fatalf("expected 201 and one audit entry, got %d / %d", w.Code, ls.count)
	}
}

func TestImport_ReturnsRowErrors(t *testing.T) {
	svc := &mockGeoService{ImportFn: func(l Level, filename string, r io.Reader) (*ImportResult, error) {
		if filename != "cities.csv" {
			t.Fatalf("unexpected filename %q", filename)
		}
		return &ImportResult{Errors: []RowError{{Row: 2, Cell: "A2", Error: "invalid parent id"}}},
			util.NewFieldError("file", "1 invalid rows")
	}}
	r := setupGeoRouter(&GeoController{Service: svc, LS: &mockLogService{}})

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, _ := mw.CreateFormFile("file", "cities.csv")
	_, _ = fw.Write([]byte("parent_id,name_en\nx,Y\n"))
	_ = mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/geo/cities/import", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	rows, ok := resp["rows"].([]any)
	if !ok || len(rows) != 1 || resp["field"] != "file" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestImport_MissingFile(t *testing.T) {
	r := setupGeoRouter(&GeoController{Service: &mockGeoService{}, LS: &mockLogService{}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/geo/cities/import", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
