package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bank-suite/cards-service/internal/adapter/http/models"
	"github.com/bank-suite/cards-service/internal/adapter/repository/repo_interfaces"
	"github.com/bank-suite/cards-service/internal/commons"
	"github.com/gorilla/mux"
)

type UserService interface {
	Create(ctx context.Context, req models.CreateUserRequest) (commons.Response[models.UserResponse], error)
	GetOne(ctx context.Context, id string) (commons.Response[models.UserResponse], error)
	List(ctx context.Context, filter repo_interfaces.UserFilter) (commons.Response[models.UserPage], error)
	Patch(ctx context.Context, id string, patch models.UserPatch) (commons.Response[models.UserResponse], error)
	Delete(ctx context.Context, id string) (commons.Response[models.UserResponse], error)
}

type UserController struct {
	service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{service: service}
}

func (c *UserController) RegisterRoutes(r *mux.Router, admin func(http.Handler) http.Handler) {
	s := r.PathPrefix("/user/v1").Subrouter()

	s.Handle("", admin(http.HandlerFunc(c.create))).Methods(http.MethodPost)
	s.Handle("", admin(http.HandlerFunc(c.list))).Methods(http.MethodGet)
	s.Handle("/{id}", admin(http.HandlerFunc(c.getOne))).Methods(http.MethodGet)
	s.Handle("/{id}", admin(http.HandlerFunc(c.patch))).Methods(http.MethodPatch)
	s.Handle("/{id}", admin(http.HandlerFunc(c.deleteUser))).Methods(http.MethodDelete)
}

func (c *UserController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.UserResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Create(r.Context(), req)
	c.respond(w, r, response, err, http.StatusCreated, start)
}

func (c *UserController) getOne(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := mux.Vars(r)["id"]
	logRequest(r, nil)

	response, err := c.service.GetOne(r.Context(), id)
	c.respond(w, r, response, err, http.StatusOK, start)
}

func (c *UserController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	q := r.URL.Query()
	filter := repo_interfaces.UserFilter{
		PhoneNumber: q.Get("phoneNumber"),
		Name:        q.Get("name"),
	}

	var err error
	if filter.Page, err = intQuery(q.Get("page"), 0); err != nil {
		response := commons.ErrorResponse[models.UserPage]("invalid filter", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	if filter.Size, err = intQuery(q.Get("size"), 10); err != nil {
		response := commons.ErrorResponse[models.UserPage]("invalid filter", err.Error())
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

func (c *UserController) patch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := mux.Vars(r)["id"]

	var patch models.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.UserResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, patch)

	response, err := c.service.Patch(r.Context(), id, patch)
	c.respond(w, r, response, err, http.StatusOK, start)
}

func (c *UserController) deleteUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := mux.Vars(r)["id"]
	logRequest(r, nil)

	response, err := c.service.Delete(r.Context(), id)
	c.respond(w, r, response, err, http.StatusOK, start)
}

func (c *UserController) respond(w http.ResponseWriter, r *http.Request, response commons.Response[models.UserResponse], err error, okStatus int, start time.Time) {
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
