package academy

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"academy-api/internal/logs"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type mockAcademyService struct {
	AcademyService
	GetFn           func(id uint) (*Academic, error)
	ListFn          func(f ListFilter) ([]AcademySummary, int64, error)
	SetStatusFn     func(id uint, status string) (*Academic, error)
	UpdateDetailsFn func(id uint, in DetailsInput) (*Academic, error)
	BulkDeleteFn    func(ids []uint) (int64, error)
}

func (m *mockAcademyService) Get(id uint) (*Academic, error) { return m.GetFn(id) }
func (m *mockAcademyService) List(f ListFilter) ([]AcademySummary, int64, error) {
	return m.ListFn(f)
}
func (m *mockAcademyService) SetStatus(id uint, status string) (*Academic, error) {
	return m.SetStatusFn(id, status)
}
func (m *mockAcademyService) UpdateDetails(id uint, in DetailsInput) (*Academic, error) {
	return m.UpdateDetailsFn(id, in)
}
func (m *mockAcademyService) BulkDelete(ctx context.Context, ids []uint) (int64, error) {
	return m.BulkDeleteFn(ids)
}

type mockLogService struct {
	entries []logs.SystemLog
}

func (m *mockLogService) Log(entry logs.SystemLog, payload any) error {
	m.entries = append(m.entries, entry)
	return nil
}

// setupAcademyRouter fakes AuthMiddleware with X-UserID / X-Role /
// X-AcademicID / X-Impersonate headers.
func setupAcademyRouter(ac *AcademyController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if v := c.GetHeader("X-UserID"); v != "" {
			f, _ := strconv.ParseFloat(v, 64)
			c.Set("userID", f)
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
	r.GET("/academics", ac.PublicList)
	r.GET("/academics/:id", ac.PublicGet)
	r.PATCH("/admin/academics/:id/status", ac.SetStatus)
	r.DELETE("/admin/academics", ac.BulkDelete)
	r.GET("/academy", ac.Mine)
	r.PUT("/academy", ac.UpdateDetails)
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

func TestPublicList_ForcesAccepted(t *testing.T) {
	var got ListFilter
	svc := &mockAcademyService{ListFn: func(f ListFilter) ([]AcademySummary, int64, error) {
		got = f
		return nil, 0, nil
	}}
	r := setupAcademyRouter(&AcademyController{Service: svc, LS: &mockLogService{}})

	if w := send(r, http.MethodGet, "/academics?status=pending&search=x", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got.Status != StatusAccepted || got.Search != "x" {
		t.Fatalf("unexpected filter %+v", got)
	}
}

func TestPublicGet_HidesUnreviewedAcademies(t *testing.T) {
	svc := &mockAcademyService{GetFn: func(id uint) (*Academic, error) {
		return &Academic{ID: id, Status: StatusPending}, nil
	}}
	r := setupAcademyRouter(&AcademyController{Service: svc, LS: &mockLogService{}})
	if w := send(r, http.MethodGet, "/academics/4", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSetStatus_ConflictIs409(t *testing.T) {
	svc := &mockAcademyService{SetStatusFn: func(id uint, status string) (*Academic, error) {
		return nil, fmt.Errorf("%w: academy is already accepted", util.ErrConflict)
	}}
	ls := &mockLogService{}
	r := setupAcademyRouter(&AcademyController{Service: svc, LS: ls})

	w := send(r, http.MethodPatch, "/admin/academics/3/status", `{"status":"rejected"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if len(ls.entries) != 0 {
		t.Fatalf("failed transitions must not be audited")
	}
}

func TestMine_TenantResolution(t *testing.T) {
	svc := &mockAcademyService{GetFn: func(id uint) (*Academic, error) {
		return &Academic{ID: id}, nil
	}}
	r := setupAcademyRouter(&AcademyController{Service: svc, LS: &mockLogService{}})

	cases := []struct {
		name    string
		headers []string
		want    int
	}{
		{"academic with academy", []string{"X-Role", "academic", "X-AcademicID", "5"}, http.StatusOK},
		{"academic without academy", []string{"X-Role", "academic"}, http.StatusForbidden},
		{"admin impersonating", []string{"X-Role", "admin", "X-Impersonate", "9"}, http.StatusOK},
		{"admin not impersonating", []string{"X-Role", "admin"}, http.StatusBadRequest},
		{"plain user", []string{"X-Role", "user"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := send(r, http.MethodGet, "/academy", "", tc.headers...); w.Code != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdateDetails_AuditsWithAcademy(t *testing.T) {
	var gotID uint
	svc := &mockAcademyService{UpdateDetailsFn: func(id uint, in DetailsInput) (*Academic, error) {
		gotID = id
		return &Academic{ID: id}, nil
	}}
	ls := &mockLogService{}
	r := setupAcademyRouter(&AcademyController{Service: svc, LS: ls})

	w := send(r, http.MethodPut, "/academy", `{"translations":[{"locale":"en","name":"X"}]}`,
		"X-Role", "admin", "X-Impersonate", "12", "X-UserID", "1")
	if w.Code != http.StatusOK || gotID != 12 {
		t.Fatalf("expected update of academy 12, got %d / %d", w.Code, gotID)
	}
	if len(ls.entries) != 1 || ls.entries[0].AcademicID == nil || *ls.entries[0].AcademicID != 12 {
		t.Fatalf("unexpected audit: %+v", ls.entries)
	}
}

func TestBulkDelete_RejectsBadIDs(t *testing.T) {
	r := setupAcademyRouter(&AcademyController{Service: &mockAcademyService{}, LS: &mockLogService{}})
	if w := send(r, http.MethodDelete, "/admin/academics?ids=1,-2", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
