package report

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"academy-api/internal/logs"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type mockReportService struct {
	ReportService
	ExportBlocksFn func(academicID uint, req BlockExportRequest) (*File, error)
}

func (m *mockReportService) ExportBlocks(academicID uint, req BlockExportRequest) (*File, error) {
	return m.ExportBlocksFn(academicID, req)
}

type mockLogService struct {
	entries []logs.SystemLog
}

func (m *mockLogService) Log(entry logs.SystemLog, payload any) error {
	m.entries = append(m.entries, entry)
	return nil
}

func setupReportRouter(rc *ReportController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if v := c.GetHeader("X-Role"); v != "" {
			c.Set("role", v)
		}
		if v, err := strconv.ParseUint(c.GetHeader("X-AcademicID"), 10, 64); err == nil {
			c.Set("academicID", uint(v))
		}
		c.Next()
	})
	r.GET("/reports/blocks", rc.ExportBlocks)
	return r
}

func get(r http.Handler, path string, headers ...string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	r.ServeHTTP(w, req)
	return w
}

func TestExportBlocksHandler(t *testing.T) {
	var gotAcademy uint
	var gotReq BlockExportRequest
	svc := &mockReportService{ExportBlocksFn: func(academicID uint, req BlockExportRequest) (*File, error) {
		gotAcademy, gotReq = academicID, req
		if req.From == "bad" {
			return nil, util.NewFieldError("from", "invalid date")
		}
		return &File{Name: "blocks-x.csv", ContentType: "text/csv", Data: []byte("block_id\n")}, nil
	}}
	ls := &mockLogService{}
	r := setupReportRouter(&ReportController{Service: svc, LS: ls})

	w := get(r, "/reports/blocks?from=2025-03-01&to=2025-03-31&format=csv", "X-Role", "academic", "X-AcademicID", "4")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotAcademy != 4 || gotReq.Format != "csv" || gotReq.To != "2025-03-31" {
		t.Fatalf("unexpected call: %d %+v", gotAcademy, gotReq)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), `filename="blocks-x.csv"`) || w.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("unexpected headers: %v", w.Header())
	}
	if len(ls.entries) != 1 || ls.entries[0].Action != "EXPORT_BLOCKS" || *ls.entries[0].AcademicID != 4 {
		t.Fatalf("unexpected audit: %+v", ls.entries)
	}

	if w := get(r, "/reports/blocks?to=2025-03-31", "X-Role", "academic", "X-AcademicID", "4"); w.Code != http.StatusBadRequest {
		t.Fatalf("missing from: expected 400, got %d", w.Code)
	}
	if w := get(r, "/reports/blocks?from=bad&to=2025-03-31", "X-Role", "academic", "X-AcademicID", "4"); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid from: expected 400, got %d", w.Code)
	}
	if w := get(r, "/reports/blocks?from=2025-03-01&to=2025-03-31", "X-Role", "user"); w.Code != http.StatusForbidden {
		t.Fatalf("plain user: expected 403, got %d", w.Code)
	}
}
