package logs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type mockLogService struct {
	GetLogsFn func(input LogFilterInput) ([]LogRow, LogAggregates, int64, int, error)
}

func (m *mockLogService) GetLogs(input LogFilterInput) ([]LogRow, LogAggregates, int64, int, error) {
	return m.GetLogsFn(input)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

func postLogs(lc *LogController, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/logs", lc.GetLogs)

	req := httptest.NewRequest(http.MethodPost, "/logs", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogController_GetLogs_BindError_400(t *testing.T) {
	lc := &LogController{LogService: &mockLogService{}}
	w := postLogs(lc, `{bad json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestLogController_GetLogs_ServiceError_500(t *testing.T) {
	lc := &LogController{LogService: &mockLogService{
		GetLogsFn: func(LogFilterInput) ([]LogRow, LogAggregates, int64, int, error) {
			return nil, LogAggregates{}, 0, 0, assertErr("boom")
		},
	}}
	w := postLogs(lc, `{"page":1}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestLogController_GetLogs_OK_200(t *testing.T) {
	var got LogFilterInput
	lc := &LogController{LogService: &mockLogService{
		GetLogsFn: func(in LogFilterInput) ([]LogRow, LogAggregates, int64, int, error) {
			got = in
			return []LogRow{{SystemLog: SystemLog{ID: 1, Service: "booking"}}}, LogAggregates{}, 11, 2, nil
		},
	}}

	w := postLogs(lc, `{"page":2,"page_size":10,"service":"booking"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if got.Service == nil || *got.Service != "booking" {
		t.Fatalf("filter not passed through: %#v", got)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal resp: %v", err)
	}
	if resp["page"].(float64) != 2 || resp["page_size"].(float64) != 10 {
		t.Fatalf("unexpected paging: %#v", resp)
	}
	if resp["total_pages"].(float64) != 2 {
		t.Fatalf("unexpected total_pages: %#v", resp["total_pages"])
	}
	if _, ok := resp["aggregates"]; !ok {
		t.Fatalf("expected aggregates in response")
	}
}
