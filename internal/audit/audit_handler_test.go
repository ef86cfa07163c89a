package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/audit"
	auditerrors "go-leave/internal/audit/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeAuditService struct {
	getAllFn  func(ctx context.Context, filter audit.ListFilterRequest) ([]audit.EntryResponse, error)
	getByIDFn func(ctx context.Context, id string) (audit.EntryResponse, error)
}

func (f *fakeAuditService) GetAll(ctx context.Context, filter audit.ListFilterRequest) ([]audit.EntryResponse, error) {
	return f.getAllFn(ctx, filter)
}

func (f *fakeAuditService) GetByID(ctx context.Context, id string) (audit.EntryResponse, error) {
	return f.getByIDFn(ctx, id)
}

func TestAuditHandler_GetAll(t *testing.T) {
	t.Run("success filtered by leave request", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeAuditService{
			getAllFn: func(ctx context.Context, filter audit.ListFilterRequest) ([]audit.EntryResponse, error) {
				assert.Equal(t, leaveID, filter.LeaveRequestID)
				return []audit.EntryResponse{
					{ID: uuid.New().String(), LeaveRequestID: leaveID, FromStatus: "draft", ToStatus: "submitted"},
				}, nil
			},
		}

		h := audit.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/audit-log?leave_request_id="+leaveID, nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []audit.EntryResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "submitted", got[0].ToStatus)
	})

	t.Run("negative non-uuid filter", func(t *testing.T) {
		h := audit.NewHandler(&fakeAuditService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/audit-log?leave_request_id=notauuid", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeAuditService{
			getAllFn: func(ctx context.Context, filter audit.ListFilterRequest) ([]audit.EntryResponse, error) {
				return nil, errors.New("db error")
			},
		}
		h := audit.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/audit-log", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestAuditHandler_GetById(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		entryID := uuid.New().String()
		svc := &fakeAuditService{
			getByIDFn: func(ctx context.Context, id string) (audit.EntryResponse, error) {
				assert.Equal(t, entryID, id)
				return audit.EntryResponse{ID: id, ToStatus: "approved_hr"}, nil
			},
		}
		h := audit.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/audit-log/"+entryID, nil)
		c.Params = []gin.Param{{Key: "id", Value: entryID}}

		h.GetById(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeAuditService{
			getByIDFn: func(ctx context.Context, id string) (audit.EntryResponse, error) {
				return audit.EntryResponse{}, auditerrors.ErrEntryNotFound
			},
		}
		h := audit.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/audit-log/"+uuid.New().String(), nil)
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

		h.GetById(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}
