package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// App wires the stores, the token codec and the configuration into the
// HTTP handlers.
type App struct {
	cfg   *Config
	codec *TokenCodec
	users UserStore
	tasks TaskStore
	log   zerolog.Logger
}

func (app *App) routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", app.Welcome).Methods("GET")

	// public auth endpoints
	r.HandleFunc("/signup", app.Signup).Methods("POST")
	r.HandleFunc("/login", app.Login).Methods("POST")

	// protected routes
	private := r.NewRoute().Subrouter()
	private.Use(app.RequireAuth)
	private.HandleFunc("/logout", app.Logout).Methods("GET")
	private.HandleFunc("/user", app.UpdateUser).Methods("PATCH")
	private.HandleFunc("/users", app.GetAllUsers).Methods("GET")
	private.HandleFunc("/tasks", app.GetTasks).Methods("GET")
	private.HandleFunc("/tasks/completed", app.GetCompletedTasks).Methods("GET")
	private.HandleFunc("/tasks/incompleted", app.GetIncompletedTasks).Methods("GET")
	private.HandleFunc("/task", app.AddTask).Methods("POST")
	private.HandleFunc("/task/{id}", app.GetTask).Methods("GET")
	private.HandleFunc("/task/{id}", app.DeleteTask).Methods("DELETE")
	private.HandleFunc("/updatecontent/{id}", app.UpdateTaskContent).Methods("PUT")
	private.HandleFunc("/updatestatus/{id}", app.UpdateTaskStatus).Methods("PUT")

	c := cors.New(cors.Options{
		AllowedOrigins:   app.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}

func (app *App) Welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "welcome to the todo - app - api!"})
}
