package http

import (
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ProcessPayment(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// Calculate implements PayrollHandler.
func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	var req payroll.CalculatePayrollRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	result, err := h.payrollService.Calculate(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll calculated", result)
}

// List implements PayrollHandler.
func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	month, okMonth := getOptionalIntQueryParam(r, "month")
	year, okYear := getOptionalIntQueryParam(r, "year")
	if !okMonth || !okYear {
		response.BadRequest(w, "month and year must be numbers", nil)
		return
	}

	filter := payroll.PayrollFilter{
		EmployeeID: getStringQueryParam(r, "employee_id"),
		BranchID:   getStringQueryParam(r, "branch_id"),
		Month:      month,
		Year:       year,
		Status:     getStringQueryParam(r, "status"),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 10),
	}

	result, err := h.payrollService.List(r.Context(), caller, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Payrolls, metaFrom(result.Pagination))
}

// GetByID implements PayrollHandler.
func (h *payrollHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.GetByID(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateStatus implements PayrollHandler.
func (h *payrollHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	var req payroll.UpdatePayrollStatusRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	result, err := h.payrollService.UpdateStatus(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll status updated", result)
}

// Recalculate implements PayrollHandler.
func (h *payrollHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.Recalculate(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll recalculated", result)
}

// Delete implements PayrollHandler.
func (h *payrollHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	if err := h.payrollService.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll deleted", nil)
}

// ProcessPayment implements PayrollHandler.
func (h *payrollHandlerImpl) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.ProcessPayment(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll paid", result)
}
