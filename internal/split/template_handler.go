package split

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/split/allocation"
	"github.com/fkhayef/splitledger/pkg/response"
)

// TemplateHandler handles HTTP requests for split templates
type TemplateHandler struct {
	templates *TemplateService
	service   *Service
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templates *TemplateService, service *Service) *TemplateHandler {
	return &TemplateHandler{templates: templates, service: service}
}

// Routes returns the router for template endpoints.
// It is mounted under /groups/{groupId}/split-templates.
func (h *TemplateHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{templateId}", h.Get)
	r.Post("/{templateId}/apply", h.Apply)

	return r
}

// Create handles POST /groups/{groupId}/split-templates
// @Summary      Create a split template
// @Tags         split-templates
// @Accept       json
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        request body CreateTemplateRequest true "Template creation request"
// @Success      201 {object} response.APIResponse{data=TemplateResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /groups/{groupId}/split-templates [post]
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	groupID, userID, ok := groupAndActor(w, r)
	if !ok {
		return
	}

	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	t, err := h.templates.Create(r.Context(), CreateTemplateInput{
		GroupID:      groupID,
		Name:         req.Name,
		Strategy:     allocation.Strategy(req.Strategy),
		Participants: req.ToParticipants(),
		CreatedBy:    userID,
	})
	if err != nil {
		writeError(w, err, "Failed to create template")
		return
	}

	response.JSON(w, http.StatusCreated, t.ToResponse())
}

// List handles GET /groups/{groupId}/split-templates
// @Summary      List split templates of a group
// @Tags         split-templates
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]TemplateResponse}
// @Router       /groups/{groupId}/split-templates [get]
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	groupID, _, ok := groupAndActor(w, r)
	if !ok {
		return
	}

	templates, err := h.templates.ListByGroup(r.Context(), groupID)
	if err != nil {
		writeError(w, err, "Failed to list templates")
		return
	}

	resp := make([]*TemplateResponse, len(templates))
	for i, t := range templates {
		resp[i] = t.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, resp, &response.Meta{Total: len(resp)})
}

// Get handles GET /groups/{groupId}/split-templates/{templateId}
// @Summary      Get a split template
// @Tags         split-templates
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        templateId path string true "Template ID"
// @Success      200 {object} response.APIResponse{data=TemplateResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{groupId}/split-templates/{templateId} [get]
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	groupID, _, ok := groupAndActor(w, r)
	if !ok {
		return
	}

	t, err := h.templates.Get(r.Context(), groupID, chi.URLParam(r, "templateId"))
	if err != nil {
		writeError(w, err, "Failed to get template")
		return
	}

	response.JSON(w, http.StatusOK, t.ToResponse())
}

// Apply handles POST /groups/{groupId}/split-templates/{templateId}/apply
// @Summary      Split an expense with a template
// @Description  Every template participant must still belong to the group
// @Tags         split-templates
// @Accept       json
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        templateId path string true "Template ID"
// @Param        request body ApplyTemplateRequest true "Expense to split"
// @Success      201 {object} response.APIResponse{data=SplitResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /groups/{groupId}/split-templates/{templateId}/apply [post]
func (h *TemplateHandler) Apply(w http.ResponseWriter, r *http.Request) {
	groupID, userID, ok := groupAndActor(w, r)
	if !ok {
		return
	}

	var req ApplyTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	total := decimal.Zero
	if req.TotalAmount != nil {
		total = *req.TotalAmount
	}

	result, err := h.service.ApplyTemplate(r.Context(), ApplyTemplateInput{
		GroupID:           groupID,
		TemplateID:        chi.URLParam(r, "templateId"),
		OriginalExpenseID: req.OriginalExpenseID,
		TotalAmount:       total,
		Description:       req.Description,
		CreatedBy:         userID,
	})
	if err != nil {
		writeError(w, err, "Failed to apply template")
		return
	}

	response.JSON(w, http.StatusCreated, result.ToResponse())
}
