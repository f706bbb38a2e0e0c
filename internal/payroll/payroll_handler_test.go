package payroll_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-rota/internal/domain"
	"go-rota/internal/payroll"
	payrollerrors "go-rota/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakePayrollService struct {
	createRunFn      func(ctx context.Context, actor domain.Actor, req payroll.CreateRunRequest) (payroll.RunResponse, error)
	getRunFn         func(ctx context.Context, id string) (payroll.RunResponse, error)
	getAllRunsFn     func(ctx context.Context, req payroll.GetRunsFilterRequest) ([]payroll.RunResponse, error)
	processRunFn     func(ctx context.Context, actor domain.Actor, id string) (payroll.RunResponse, error)
	finalizeRunFn    func(ctx context.Context, actor domain.Actor, id string) (payroll.RunResponse, error)
	getPayslipFn     func(ctx context.Context, actor domain.Actor, id string) (payroll.PayslipResponse, error)
	getAllPayslipsFn func(ctx context.Context, actor domain.Actor, req payroll.GetPayslipsFilterRequest) ([]payroll.PayslipResponse, error)
	addDeductionFn   func(ctx context.Context, actor domain.Actor, payslipID string, req payroll.DeductionRequest) (payroll.DeductionResponse, error)
}

func (f *fakePayrollService) CreateRun(ctx context.Context, actor domain.Actor, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
	return f.createRunFn(ctx, actor, req)
}

func (f *fakePayrollService) GetRun(ctx context.Context, id string) (payroll.RunResponse, error) {
	return f.getRunFn(ctx, id)
}

func (f *fakePayrollService) GetAllRuns(ctx context.Context, req payroll.GetRunsFilterRequest) ([]payroll.RunResponse, error) {
	return f.getAllRunsFn(ctx, req)
}

func (f *fakePayrollService) ProcessRun(ctx context.Context, actor domain.Actor, id string) (payroll.RunResponse, error) {
	return f.processRunFn(ctx, actor, id)
}

func (f *fakePayrollService) FinalizeRun(ctx context.Context, actor domain.Actor, id string) (payroll.RunResponse, error) {
	return f.finalizeRunFn(ctx, actor, id)
}

func (f *fakePayrollService) GetPayslip(ctx context.Context, actor domain.Actor, id string) (payroll.PayslipResponse, error) {
	return f.getPayslipFn(ctx, actor, id)
}

func (f *fakePayrollService) GetAllPayslips(ctx context.Context, actor domain.Actor, req payroll.GetPayslipsFilterRequest) ([]payroll.PayslipResponse, error) {
	return f.getAllPayslipsFn(ctx, actor, req)
}

func (f *fakePayrollService) AddDeduction(ctx context.Context, actor domain.Actor, payslipID string, req payroll.DeductionRequest) (payroll.DeductionResponse, error) {
	return f.addDeductionFn(ctx, actor, payslipID, req)
}

type apiError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func newPayrollTestContext(method, path, id string, body any, role string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	if id != "" {
		c.Params = gin.Params{{Key: "id", Value: id}}
	}
	c.Set("user_id", adminActor.ID)
	c.Set("role", role)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestPayrollHandler_CreateRun(t *testing.T) {
	svc := &fakePayrollService{
		createRunFn: func(ctx context.Context, actor domain.Actor, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
			assert.Equal(t, domain.RoleAdmin, actor.Role)
			assert.Equal(t, "2025-06-01", req.StartDate)
			return payroll.RunResponse{ID: "run-1", Period: "Week 23, 2025", Status: payroll.RunStatusDraft}, nil
		},
	}
	h := payroll.NewHandler(svc)

	c, w := newPayrollTestContext(http.MethodPost, "/payroll-runs", "",
		payroll.CreateRunRequest{StartDate: "2025-06-01", EndDate: "2025-06-07"}, "admin")

	h.CreateRun(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp payroll.RunResponse
	assert.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &resp))
	assert.Equal(t, "Week 23, 2025", resp.Period)
}

func TestPayrollHandler_ProcessRun_InvalidState(t *testing.T) {
	runID := uuid.NewString()
	svc := &fakePayrollService{
		processRunFn: func(ctx context.Context, actor domain.Actor, id string) (payroll.RunResponse, error) {
			assert.Equal(t, runID, id)
			return payroll.RunResponse{}, payrollerrors.ErrRunNotDraft
		},
	}
	h := payroll.NewHandler(svc)

	c, w := newPayrollTestContext(http.MethodPost, "/payroll-runs/"+runID+"/process", runID, nil, "admin")

	h.ProcessRun(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATE", decodeEnvelope(t, w).Error.Code)
}

func TestPayrollHandler_FinalizeRun(t *testing.T) {
	runID := uuid.NewString()
	svc := &fakePayrollService{
		finalizeRunFn: func(ctx context.Context, actor domain.Actor, id string) (payroll.RunResponse, error) {
			return payroll.RunResponse{ID: id, Status: payroll.RunStatusFinalized}, nil
		},
	}
	h := payroll.NewHandler(svc)

	c, w := newPayrollTestContext(http.MethodPost, "/payroll-runs/"+runID+"/finalize", runID, nil, "admin")

	h.FinalizeRun(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp payroll.RunResponse
	assert.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &resp))
	assert.Equal(t, payroll.RunStatusFinalized, resp.Status)
}

func TestPayrollHandler_AddDeduction(t *testing.T) {
	payslipID := uuid.NewString()
	svc := &fakePayrollService{
		addDeductionFn: func(ctx context.Context, actor domain.Actor, id string, req payroll.DeductionRequest) (payroll.DeductionResponse, error) {
			assert.Equal(t, payslipID, id)
			assert.True(t, req.Amount.Equal(decimal.NewFromInt(50)))
			return payroll.DeductionResponse{
				Payslip: payroll.PayslipResponse{ID: id, NetPay: decimal.NewFromInt(425)},
				Item:    payroll.LineItem{ID: "deduction-1", Amount: decimal.NewFromInt(-50)},
			}, nil
		},
	}
	h := payroll.NewHandler(svc)

	body := map[string]any{"amount": 50, "reason": "Uniform"}
	c, w := newPayrollTestContext(http.MethodPost, "/payslips/"+payslipID+"/deductions", payslipID, body, "site_manager")

	h.AddDeduction(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp payroll.DeductionResponse
	assert.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &resp))
	assert.Equal(t, "deduction-1", resp.Item.ID)
	assert.True(t, resp.Payslip.NetPay.Equal(decimal.NewFromInt(425)))
}

func TestPayrollHandler_AddDeduction_FinalizedRun(t *testing.T) {
	svc := &fakePayrollService{
		addDeductionFn: func(ctx context.Context, actor domain.Actor, id string, req payroll.DeductionRequest) (payroll.DeductionResponse, error) {
			return payroll.DeductionResponse{}, payrollerrors.ErrRunFinalized
		},
	}
	h := payroll.NewHandler(svc)

	id := uuid.NewString()
	c, w := newPayrollTestContext(http.MethodPost, "/payslips/"+id+"/deductions", id,
		map[string]any{"amount": 50, "reason": "Uniform"}, "admin")

	h.AddDeduction(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATE", decodeEnvelope(t, w).Error.Code)
}

func TestPayrollHandler_AddDeduction_BindingError(t *testing.T) {
	h := payroll.NewHandler(&fakePayrollService{})

	id := uuid.NewString()
	c, w := newPayrollTestContext(http.MethodPost, "/payslips/"+id+"/deductions", id,
		map[string]any{"amount": 50}, "admin")

	h.AddDeduction(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decodeEnvelope(t, w).Error.Code)
}

func TestPayrollHandler_MissingActor(t *testing.T) {
	h := payroll.NewHandler(&fakePayrollService{})

	c, w := newPayrollTestContext(http.MethodPost, "/payroll-runs", "",
		payroll.CreateRunRequest{StartDate: "2025-06-01", EndDate: "2025-06-07"}, "")

	h.CreateRun(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPayrollHandler_GetAllPayslips_Paginates(t *testing.T) {
	svc := &fakePayrollService{
		getAllPayslipsFn: func(ctx context.Context, actor domain.Actor, req payroll.GetPayslipsFilterRequest) ([]payroll.PayslipResponse, error) {
			return []payroll.PayslipResponse{{ID: "1"}, {ID: "2"}, {ID: "3"}}, nil
		},
	}
	h := payroll.NewHandler(svc)

	c, w := newPayrollTestContext(http.MethodGet, "/payslips?page=1&page_size=2", "", nil, "worker")

	h.GetAllPayslips(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var items []payroll.PayslipResponse
	assert.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &items))
	assert.Len(t, items, 2)
}
