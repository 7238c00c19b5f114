package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bank-suite/cards-service/internal/adapter/http/middleware"
	"github.com/bank-suite/cards-service/internal/adapter/http/models"
	"github.com/bank-suite/cards-service/internal/adapter/repository/repo_interfaces"
	"github.com/bank-suite/cards-service/internal/commons"
	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/gorilla/mux"
)

type CardService interface {
	Create(ctx context.Context, req models.CreateCardRequest) (commons.Response[models.CardResponse], error)
	GetOne(ctx context.Context, id string) (commons.Response[models.CardResponse], error)
	List(ctx context.Context, filter repo_interfaces.CardFilter) (commons.Response[models.CardPage], error)
	ListMine(ctx context.Context, principalID string, filter repo_interfaces.CardFilter) (commons.Response[models.CardPage], error)
	PatchStatus(ctx context.Context, id string, patch models.CardStatusPatch) (commons.Response[models.CardResponse], error)
	PatchStatusMany(ctx context.Context, ids []string, patch models.CardStatusPatch) (commons.Response[[]string], error)
	Delete(ctx context.Context, id string) (commons.Response[models.CardResponse], error)
	CreateBlockRequest(ctx context.Context, cardID, principalID string) (commons.Response[models.BlockRequestResponse], error)
	ApproveBlockRequest(ctx context.Context, requestID string) (commons.Response[models.BlockRequestResponse], error)
	GetBalance(ctx context.Context, cardID, principalID string) (commons.Response[models.BalanceResponse], error)
}

type CardController struct {
	service CardService
}

func NewCardController(service CardService) *CardController {
	return &CardController{service: service}
}

// RegisterRoutes mounts the card surface. Literal paths go first so
// mux does not capture them as an {id} segment.
func (c *CardController) RegisterRoutes(r *mux.Router, auth, admin func(http.Handler) http.Handler) {
	s := r.PathPrefix("/card/v1").Subrouter()

	s.Handle("/all", admin(http.HandlerFunc(c.getAll))).Methods(http.MethodGet)
	s.Handle("/myCards", auth(http.HandlerFunc(c.myCards))).Methods(http.MethodGet)
	s.Handle("/block-request", auth(http.HandlerFunc(c.createBlockRequest))).Methods(http.MethodPost)
	s.Handle("/block-request/{id}/approve", admin(http.HandlerFunc(c.approveBlockRequest))).Methods(http.MethodPost)
	s.Handle("/changeCardStatus/{id}", admin(http.HandlerFunc(c.patchStatus))).Methods(http.MethodPatch)
	s.Handle("/changeManyCardStatus", admin(http.HandlerFunc(c.patchStatusMany))).Methods(http.MethodPatch)
	s.Handle("/{cardId}/balance", auth(http.HandlerFunc(c.getBalance))).Methods(http.MethodGet)
	s.Handle("/{id}", admin(http.HandlerFunc(c.getOne))).Methods(http.MethodGet)
	s.Handle("/{id}", admin(http.HandlerFunc(c.deleteCard))).Methods(http.MethodDelete)
	s.Handle("", admin(http.HandlerFunc(c.create))).Methods(http.MethodPost)
}

func (c *CardController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CardResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Create(r.Context(), req)
	c.respondCard(w, r, response, err, http.StatusCreated, start)
}

func (c *CardController) getOne(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := mux.Vars(r)["id"]
	logRequest(r, nil)

	response, err := c.service.GetOne(r.Context(), id)
	c.respondCard(w, r, response, err, http.StatusOK, start)
}

func (c *CardController) getAll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	filter, err := cardFilterFromQuery(r)
	if err != nil {
		response := commons.ErrorResponse[models.CardPage]("invalid filter", err.Error())
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.List(r.Context(), filter)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *CardController) myCards(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	principal, ok := middleware.FromContext(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.CardPage]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	filter, err := cardFilterFromQuery(r)
	if err != nil {
		response := commons.ErrorResponse[models.CardPage]("invalid filter", err.Error())
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.ListMine(r.Context(), principal.UserID, filter)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *CardController) patchStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := mux.Vars(r)["id"]

	var patch models.CardStatusPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CardResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, patch)

	response, err := c.service.PatchStatus(r.Context(), id, patch)
	c.respondCard(w, r, response, err, http.StatusOK, start)
}

func (c *CardController) patchStatusMany(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var patch models.CardStatusPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[[]string]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, patch)

	ids := splitIDs(r.URL.Query().Get("ids"))
	response, err := c.service.PatchStatusMany(r.Context(), ids, patch)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *CardController) deleteCard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := mux.Vars(r)["id"]
	logRequest(r, nil)

	response, err := c.service.Delete(r.Context(), id)
	c.respondCard(w, r, response, err, http.StatusOK, start)
}

func (c *CardController) createBlockRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	principal, ok := middleware.FromContext(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.BlockRequestResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	var req models.CreateBlockRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.BlockRequestResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		response := commons.ErrorResponse[models.BlockRequestResponse]("validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.CreateBlockRequest(r.Context(), req.CardID, principal.UserID)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}
	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *CardController) approveBlockRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := mux.Vars(r)["id"]
	logRequest(r, nil)

	response, err := c.service.ApproveBlockRequest(r.Context(), id)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *CardController) getBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cardID := mux.Vars(r)["cardId"]

	principal, ok := middleware.FromContext(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.BalanceResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}
	logRequest(r, nil)

	response, err := c.service.GetBalance(r.Context(), cardID, principal.UserID)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *CardController) respondCard(w http.ResponseWriter, r *http.Request, response commons.Response[models.CardResponse], err error, okStatus int, start time.Time) {
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}
	writeJSON(w, okStatus, response)
	logResponse(r, okStatus, response, start)
}

func cardFilterFromQuery(r *http.Request) (repo_interfaces.CardFilter, error) {
	q := r.URL.Query()
	filter := repo_interfaces.CardFilter{
		OwnerID: q.Get("ownerId"),
		Last4:   q.Get("last4"),
	}

	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseCardStatus(raw)
		if err != nil {
			return repo_interfaces.CardFilter{}, err
		}
		filter.Status = &status
	}

	var err error
	if filter.Page, err = intQuery(q.Get("page"), 0); err != nil {
		return repo_interfaces.CardFilter{}, err
	}
	if filter.Size, err = intQuery(q.Get("size"), 10); err != nil {
		return repo_interfaces.CardFilter{}, err
	}
	return filter, nil
}

func intQuery(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
