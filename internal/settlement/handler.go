package settlement

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/splitledger/pkg/middleware"
	"github.com/fkhayef/splitledger/pkg/response"
)

// Handler handles HTTP requests for group balances
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints.
// It expects to be mounted below a {groupId} path parameter.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetGroupBalances)
	r.Get("/me", h.GetNetBalances)
	r.Get("/{userId}", h.GetNetBalanceWithUser)

	return r
}

// GetGroupBalances handles GET /groups/{groupId}/balances
// @Summary      Group balance sheet
// @Description  Net balances, pairwise debts and simplified transfers from open split shares
// @Tags         balances
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupBalancesResponse}
// @Router       /groups/{groupId}/balances [get]
func (h *Handler) GetGroupBalances(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	balances, err := h.service.GroupBalances(r.Context(), groupID)
	if err != nil {
		response.InternalError(w, "Failed to compute balances")
		return
	}

	response.JSON(w, http.StatusOK, balances.ToResponse())
}

// GetNetBalances handles GET /groups/{groupId}/balances/me
// @Summary      My net balances
// @Tags         balances
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]NetBalanceResponse}
// @Router       /groups/{groupId}/balances/me [get]
func (h *Handler) GetNetBalances(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	balances, err := h.service.NetBalances(r.Context(), groupID, userID)
	if err != nil {
		response.InternalError(w, "Failed to compute balances")
		return
	}

	responses := make([]*NetBalanceResponse, len(balances))
	for i, b := range balances {
		responses[i] = b.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, responses, &response.Meta{Total: len(responses)})
}

// GetNetBalanceWithUser handles GET /groups/{groupId}/balances/{userId}
// @Summary      Net balance with a member
// @Tags         balances
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        userId path int true "Other user ID"
// @Success      200 {object} response.APIResponse{data=NetBalanceResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /groups/{groupId}/balances/{userId} [get]
func (h *Handler) GetNetBalanceWithUser(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	otherUserID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	balance, err := h.service.NetBalanceWithUser(r.Context(), groupID, userID, otherUserID)
	if err != nil {
		if errors.Is(err, ErrCannotBalanceSelf) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute balance")
		return
	}

	response.JSON(w, http.StatusOK, balance.ToResponse())
}
