package http

import (
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/registration"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RegistrationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type registrationHandlerImpl struct {
	registrationService registration.RegistrationService
}

func NewRegistrationHandler(registrationService registration.RegistrationService) RegistrationHandler {
	return &registrationHandlerImpl{registrationService: registrationService}
}

// List implements RegistrationHandler.
func (h *registrationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	filter := registration.RegistrationFilter{
		EmployeeID: getStringQueryParam(r, "employee_id"),
		ShiftID:    getStringQueryParam(r, "shift_id"),
		Status:     getStringQueryParam(r, "status"),
		Date:       getStringQueryParam(r, "date"),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 10),
		SortBy:     r.URL.Query().Get("sort_by"),
		SortOrder:  r.URL.Query().Get("sort_order"),
	}

	result, err := h.registrationService.List(r.Context(), caller, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Registrations, metaFrom(result.Pagination))
}

// Create implements RegistrationHandler.
func (h *registrationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	var req registration.CreateRegistrationRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	result, err := h.registrationService.Create(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift registration submitted", result)
}

func (h *registrationHandlerImpl) review(w http.ResponseWriter, r *http.Request, approve bool) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	var req registration.ReviewRegistrationRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	id := chi.URLParam(r, "id")
	var (
		result registration.RegistrationResponse
		err    error
		msg    string
	)
	if approve {
		result, err = h.registrationService.Approve(r.Context(), caller, id, req)
		msg = "Shift registration approved"
	} else {
		result, err = h.registrationService.Reject(r.Context(), caller, id, req)
		msg = "Shift registration rejected"
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, msg, result)
}

// Approve implements RegistrationHandler.
func (h *registrationHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, true)
}

// Reject implements RegistrationHandler.
func (h *registrationHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, false)
}

// Delete implements RegistrationHandler.
func (h *registrationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	if err := h.registrationService.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift registration deleted", nil)
}
