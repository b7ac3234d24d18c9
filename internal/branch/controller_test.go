package branch

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"academy-api/internal/logs"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type mockBranchService struct {
	BranchService
	GetFn        func(academicID, id uint) (*Branch, error)
	CreateFn     func(academicID uint, in BranchInput) (*Branch, error)
	DeleteFn     func(academicID, id uint) error
	BulkDeleteFn func(academicID uint, ids []uint) (int64, error)
}

func (m *mockBranchService) Get(academicID, id uint) (*Branch, error) {
	return m.GetFn(academicID, id)
}
func (m *mockBranchService) Create(academicID uint, in BranchInput) (*Branch, error) {
	return m.CreateFn(academicID, in)
}
func (m *mockBranchService) Delete(academicID, id uint) error {
	return m.DeleteFn(academicID, id)
}
func (m *mockBranchService) BulkDelete(academicID uint, ids []uint) (int64, error) {
	return m.BulkDeleteFn(academicID, ids)
}

type mockLogService struct {
	entries []logs.SystemLog
}

func (m *mockLogService) Log(entry logs.SystemLog, payload any) error {
	m.entries = append(m.entries, entry)
	return nil
}

func setupBranchRouter(bc *BranchController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if v, err := strconv.ParseFloat(c.GetHeader("X-UserID"), 64); err == nil {
			c.Set("userID", v)
		}
		if v := c.GetHeader("X-Role"); v != "" {
			c.Set("role", v)
		}
		if v, err := strconv.ParseUint(c.GetHeader("X-AcademicID"), 10, 64); err == nil {
			c.Set("academicID", uint(v))
		}
		if v, err := strconv.ParseUint(c.GetHeader("X-Impersonate"), 10, 64); err == nil {
			c.Set("impersonatedAcademicID", uint(v))
		}
		c.Next()
	})
	r.GET("/branches/:id", bc.Get)
	r.POST("/branches", bc.Create)
	r.DELETE("/branches/:id", bc.Delete)
	r.DELETE("/branches", bc.BulkDelete)
	return r
}

func send(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBranch_AuditsWithTenant(t *testing.T) {
	var gotAcademy uint
	svc := &mockBranchService{CreateFn: func(academicID uint, in BranchInput) (*Branch, error) {
		gotAcademy = academicID
		return &Branch{ID: 9, AcademicID: academicID, IsDefault: in.IsDefault}, nil
	}}
	ls := &mockLogService{}
	r := setupBranchRouter(&BranchController{Service: svc, LS: ls})

	body := `{"translations":[{"locale":"en","name":"Main","address":"1 Road"}],"is_default":true}`
	w := send(r, http.MethodPost, "/branches", body, "X-Role", "academic", "X-AcademicID", "4", "X-UserID", "7")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if gotAcademy != 4 {
		t.Fatalf("academy=%d want 4", gotAcademy)
	}
	if len(ls.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(ls.entries))
	}
	e := ls.entries[0]
	if e.Action != "CREATE_BRANCH" || e.AcademicID == nil || *e.AcademicID != 4 || e.UserID == nil || *e.UserID != 7 {
		t.Fatalf("unexpected audit entry: %+v", e)
	}
}

func TestCreateBranch_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		headers []string
		err     error
		want    int
	}{
		{"plain user", `{"translations":[{"locale":"en","name":"x"}]}`, []string{"X-Role", "user"}, nil, http.StatusForbidden},
		{"admin without impersonation", `{"translations":[{"locale":"en","name":"x"}]}`, []string{"X-Role", "admin"}, nil, http.StatusBadRequest},
		{"missing translations", `{}`, []string{"X-Role", "academic", "X-AcademicID", "4"}, nil, http.StatusBadRequest},
		{"service field error", `{"translations":[{"locale":"en","name":"x"}]}`, []string{"X-Role", "academic", "X-AcademicID", "4"}, util.NewFieldError("sport_ids", "unknown sport"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBranchService{CreateFn: func(uint, BranchInput) (*Branch, error) {
				if tt.err == nil {
					t.Fatalf("service should not be called")
				}
				return nil, tt.err
			}}
			ls := &mockLogService{}
			r := setupBranchRouter(&BranchController{Service: svc, LS: ls})
			w := send(r, http.MethodPost, "/branches", tt.body, tt.headers...)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			if len(ls.entries) != 0 {
				t.Fatalf("failed request must not be audited")
			}
		})
	}
}

func TestGetBranch_BadIDAndNotFound(t *testing.T) {
	svc := &mockBranchService{GetFn: func(academicID, id uint) (*Branch, error) {
		return nil, gorm.ErrRecordNotFound
	}}
	r := setupBranchRouter(&BranchController{Service: svc, LS: &mockLogService{}})

	if w := send(r, http.MethodGet, "/branches/abc", "", "X-Role", "academic", "X-AcademicID", "4"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
	if w := send(r, http.MethodGet, "/branches/3", "", "X-Role", "academic", "X-AcademicID", "4"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteBranch_ImpersonatingAdmin(t *testing.T) {
	var gotAcademy, gotID uint
	svc := &mockBranchService{DeleteFn: func(academicID, id uint) error {
		gotAcademy, gotID = academicID, id
		return nil
	}}
	ls := &mockLogService{}
	r := setupBranchRouter(&BranchController{Service: svc, LS: ls})

	w := send(r, http.MethodDelete, "/branches/5", "", "X-Role", "admin", "X-Impersonate", "12")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotAcademy != 12 || gotID != 5 {
		t.Fatalf("unexpected call: academy=%d id=%d", gotAcademy, gotID)
	}
	if len(ls.entries) != 1 || ls.entries[0].Action != "DELETE_BRANCH" {
		t.Fatalf("unexpected audit entries: %+v", ls.entries)
	}
}

func TestBulkDeleteBranches(t *testing.T) {
	var got []uint
	svc := &mockBranchService{BulkDeleteFn: func(academicID uint, ids []uint) (int64, error) {
		got = ids
		return int64(len(ids)), nil
	}}
	r := setupBranchRouter(&BranchController{Service: svc, LS: &mockLogService{}})

	w := send(r, http.MethodDelete, "/branches?ids=1,2", "", "X-Role", "academic", "X-AcademicID", "4")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("ids=%v want [1 2]", got)
	}
	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Deleted != 2 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	if w := send(r, http.MethodDelete, "/branches?ids=1,x", "", "X-Role", "academic", "X-AcademicID", "4"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad ids, got %d", w.Code)
	}
}
