package http

import (
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salarygoal"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// SalaryGoalHandler serves the caller's own monthly shift goals.
type SalaryGoalHandler interface {
	CreateOrUpdate(w http.ResponseWriter, r *http.Request)
	Current(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type salaryGoalHandlerImpl struct {
	goalService salarygoal.SalaryGoalService
}

func NewSalaryGoalHandler(goalService salarygoal.SalaryGoalService) SalaryGoalHandler {
	return &salaryGoalHandlerImpl{goalService: goalService}
}

func (h *salaryGoalHandlerImpl) CreateOrUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	var req salarygoal.CreateGoalRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	result, created, err := h.goalService.CreateOrUpdate(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if created {
		response.Created(w, "Salary goal created", result)
		return
	}
	response.SuccessWithMessage(w, "Salary goal updated", result)
}

func (h *salaryGoalHandlerImpl) Current(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	result, err := h.goalService.Current(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryGoalHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	query := salarygoal.HistoryQuery{Limit: getIntQueryParam(r, "limit", salarygoal.DefaultHistoryLimit)}
	result, err := h.goalService.History(r.Context(), caller, query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryGoalHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	var req salarygoal.UpdateGoalRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	result, err := h.goalService.Update(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary goal updated", result)
}

func (h *salaryGoalHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	if err := h.goalService.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary goal deleted", nil)
}
