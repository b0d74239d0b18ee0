package split

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/splitledger/internal/split/allocation"
	"github.com/fkhayef/splitledger/pkg/middleware"
	"github.com/fkhayef/splitledger/pkg/response"
)

// Handler handles HTTP requests for split records
type Handler struct {
	service *Service
}

// NewHandler creates a new split handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for split endpoints.
// It is mounted under /groups/{groupId}/splits.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{splitId}", h.Get)

	// Participant transitions, always on the caller's own share
	r.Post("/{splitId}/confirm", h.Confirm)
	r.Post("/{splitId}/decline", h.Decline)
	r.Post("/{splitId}/settle", h.Settle)

	return r
}

// Create handles POST /groups/{groupId}/splits
// @Summary      Split an expense
// @Description  Allocate an expense among participants using EQUAL, PERCENTAGE, AMOUNT or CUSTOM
// @Tags         splits
// @Accept       json
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        request body CreateSplitRequest true "Split creation request"
// @Success      201 {object} response.APIResponse{data=SplitResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /groups/{groupId}/splits [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	groupID, userID, ok := groupAndActor(w, r)
	if !ok {
		return
	}

	var req CreateSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.CreateSplit(r.Context(), CreateSplitInput{
		GroupID:           groupID,
		OriginalExpenseID: req.OriginalExpenseID,
		TotalAmount:       req.TotalAmount,
		Strategy:          allocation.Strategy(req.Strategy),
		Participants:      req.ToInputs(),
		Description:       req.Description,
		CreatedBy:         userID,
	})
	if err != nil {
		writeError(w, err, "Failed to create split")
		return
	}

	response.JSON(w, http.StatusCreated, result.ToResponse())
}

// List handles GET /groups/{groupId}/splits
// @Summary      List splits of a group
// @Description  Newest first, optionally filtered by aggregate status
// @Tags         splits
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        status query string false "PENDING, CONFIRMED, DECLINED or SETTLED"
// @Success      200 {object} response.APIResponse{data=[]SplitResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /groups/{groupId}/splits [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	groupID, _, ok := groupAndActor(w, r)
	if !ok {
		return
	}

	var filter *RecordStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := RecordStatus(raw)
		filter = &status
	}

	splits, err := h.service.ListSplits(r.Context(), groupID, filter)
	if err != nil {
		writeError(w, err, "Failed to list splits")
		return
	}

	resp := make([]*SplitResponse, len(splits))
	for i, s := range splits {
		resp[i] = s.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, resp, &response.Meta{Total: len(resp)})
}

// Get handles GET /groups/{groupId}/splits/{splitId}
// @Summary      Get a split
// @Tags         splits
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        splitId path string true "Split ID"
// @Success      200 {object} response.APIResponse{data=SplitResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{groupId}/splits/{splitId} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	groupID, _, ok := groupAndActor(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetSplit(r.Context(), groupID, chi.URLParam(r, "splitId"))
	if err != nil {
		writeError(w, err, "Failed to get split")
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// Confirm handles POST /groups/{groupId}/splits/{splitId}/confirm
// @Summary      Confirm your share
// @Description  PENDING to CONFIRMED. Confirming twice is a no-op.
// @Tags         splits
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        splitId path string true "Split ID"
// @Success      200 {object} response.APIResponse{data=SplitResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /groups/{groupId}/splits/{splitId}/confirm [post]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	groupID, userID, ok := groupAndActor(w, r)
	if !ok {
		return
	}

	result, err := h.service.Confirm(r.Context(), groupID, chi.URLParam(r, "splitId"), userID)
	if err != nil {
		writeError(w, err, "Failed to confirm split")
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// Decline handles POST /groups/{groupId}/splits/{splitId}/decline
// @Summary      Decline your share
// @Description  PENDING to DECLINED. One decline marks the whole split DECLINED.
// @Tags         splits
// @Accept       json
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        splitId path string true "Split ID"
// @Param        request body DeclineRequest false "Optional reason"
// @Success      200 {object} response.APIResponse{data=SplitResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /groups/{groupId}/splits/{splitId}/decline [post]
func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	groupID, userID, ok := groupAndActor(w, r)
	if !ok {
		return
	}

	var req DeclineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.Decline(r.Context(), groupID, chi.URLParam(r, "splitId"), userID, req.Reason)
	if err != nil {
		writeError(w, err, "Failed to decline split")
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// Settle handles POST /groups/{groupId}/splits/{splitId}/settle
// @Summary      Settle your share
// @Description  CONFIRMED to SETTLED. PENDING shares may settle directly unless strict settlement is enabled.
// @Tags         splits
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        splitId path string true "Split ID"
// @Success      200 {object} response.APIResponse{data=SplitResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /groups/{groupId}/splits/{splitId}/settle [post]
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	groupID, userID, ok := groupAndActor(w, r)
	if !ok {
		return
	}

	result, err := h.service.Settle(r.Context(), groupID, chi.URLParam(r, "splitId"), userID)
	if err != nil {
		writeError(w, err, "Failed to settle split")
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

func groupAndActor(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil || groupID <= 0 {
		response.BadRequest(w, "Invalid group ID")
		return 0, 0, false
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return 0, 0, false
	}

	return groupID, userID, true
}

// writeError maps service errors to status codes. fallback is shown for unexpected failures.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var memberErr *TemplateMemberError
	switch {
	case errors.As(err, &memberErr):
		response.UnprocessableEntity(w, "TEMPLATE_MEMBER_NOT_FOUND", memberErr.Error(), map[string]any{
			"template_id": memberErr.TemplateID,
			"user_id":     memberErr.UserID,
		})
	case errors.Is(err, ErrConfirmationRequired):
		response.Error(w, http.StatusConflict, "CONFIRMATION_REQUIRED", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		response.Error(w, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, err.Error())
	case IsValidationError(err):
		response.Error(w, http.StatusBadRequest, validationCode(err), err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

func validationCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidStrategy):
		return "INVALID_STRATEGY"
	case errors.Is(err, ErrEmptyParticipants):
		return "EMPTY_PARTICIPANTS"
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(err, ErrPercentageSumMismatch):
		return "PERCENTAGE_SUM_MISMATCH"
	case errors.Is(err, ErrAmountSumMismatch):
		return "AMOUNT_SUM_MISMATCH"
	case errors.Is(err, ErrDuplicateParticipant):
		return "DUPLICATE_PARTICIPANT"
	case errors.Is(err, ErrInvalidTemplate):
		return "INVALID_TEMPLATE"
	default:
		return "BAD_REQUEST"
	}
}
