package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type addTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

type updateContentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

// ownedTask loads a task and enforces the ownership guard before any
// mutation. ErrTaskNotFound and ErrNotOwner come back untranslated so
// callers pick the status code.
func (app *App) ownedTask(ctx context.Context, r *http.Request, session Session) (*Task, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		return nil, ErrTaskNotFound
	}
	task, err := app.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != session.UserID {
		return nil, ErrNotOwner
	}
	return task, nil
}

func (app *App) listTasks(w http.ResponseWriter, r *http.Request, completed *bool) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tasks, err := app.tasks.FindByOwner(ctx, session.UserID, completed)
	if err != nil {
		app.log.Error().Err(err).Msg("list tasks")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to retrieve task from database"})
		return
	}
	if tasks == nil {
		tasks = []Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// GET /tasks
func (app *App) GetTasks(w http.ResponseWriter, r *http.Request) {
	app.listTasks(w, r, nil)
}

// GET /tasks/completed
func (app *App) GetCompletedTasks(w http.ResponseWriter, r *http.Request) {
	completed := true
	app.listTasks(w, r, &completed)
}

// GET /tasks/incompleted
func (app *App) GetIncompletedTasks(w http.ResponseWriter, r *http.Request) {
	completed := false
	app.listTasks(w, r, &completed)
}

// GET /task/{id}
// Foreign or unknown task ids both read as 404; a task is only visible to
// its owner.
func (app *App) GetTask(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	task, err := app.ownedTask(ctx, r, session)
	switch {
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, ErrNotOwner):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
		return
	case err != nil:
		app.log.Error().Err(err).Msg("get task")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to retrieve task from database"})
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// POST /task
func (app *App) AddTask(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		return
	}

	var req addTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Please add a task!"})
		return
	}
	if strings.TrimSpace(req.DueDate) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Please add a due date!"})
		return
	}
	if req.Description == "" {
		req.Description = defaultTaskDescription
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	task := &Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   false,
		UserID:      session.UserID,
	}
	if err := app.tasks.Insert(ctx, task); err != nil {
		app.log.Error().Err(err).Msg("add task")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to add task to database"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

// PUT /updatecontent/{id}
func (app *App) UpdateTaskContent(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	task, err := app.ownedTask(ctx, r, session)
	if !app.writeGuardError(w, err, "update task content") {
		return
	}

	var req updateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}
	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.DueDate != "" {
		task.DueDate = req.DueDate
	}
	// editing content marks the task as pending again
	task.Completed = false

	if err := app.tasks.Update(ctx, task); err != nil {
		app.log.Error().Err(err).Msg("update task content")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to update task"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Task content changed successfully!",
		"title":       task.Title,
		"description": task.Description,
		"task":        task,
	})
}

// PUT /updatestatus/{id}
func (app *App) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	task, err := app.ownedTask(ctx, r, session)
	if !app.writeGuardError(w, err, "update task status") {
		return
	}

	task.Completed = !task.Completed
	if err := app.tasks.Update(ctx, task); err != nil {
		app.log.Error().Err(err).Msg("update task status")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to update task status"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Task Status changed successfully!",
		"completed": task.Completed,
		"task":      task,
	})
}

// DELETE /task/{id}
func (app *App) DeleteTask(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	task, err := app.ownedTask(ctx, r, session)
	if !app.writeGuardError(w, err, "delete task") {
		return
	}

	if err := app.tasks.Delete(ctx, task.ID); err != nil {
		app.log.Error().Err(err).Msg("delete task")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to delete task"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": task.ID.Hex()})
}

// writeGuardError translates ownership-guard failures for the mutation
// handlers. Reports true when the caller may continue.
func (app *App) writeGuardError(w http.ResponseWriter, err error, op string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrTaskNotFound):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Task not found!"})
	case errors.Is(err, ErrNotOwner):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "User not authorized!"})
	default:
		app.log.Error().Err(err).Msg(op)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to update task"})
	}
	return false
}
