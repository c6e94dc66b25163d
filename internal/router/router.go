// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains of the
// Taalim API. Everything except the health check lives under /api.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"taalim/internal/handlers"
	"taalim/internal/middleware"
)

// Handlers bundles the handler groups mounted by New.
type Handlers struct {
	Categories *handlers.Categories
	Catalog    *handlers.Catalog
	Tasks      *handlers.Tasks
	Formations *handlers.Formations
	Users      *handlers.Users
}

// New creates the chi router with all middleware and route groups wired
// up. Mutating /api requests go through limiter.
func New(h Handlers, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.NotFound(jsonStatus(http.StatusNotFound, "not found"))
	r.MethodNotAllowed(jsonStatus(http.StatusMethodNotAllowed, "method not allowed"))

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Writes)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List)
			r.Post("/", h.Categories.Create)
			r.Get("/roots", h.Categories.Roots)
			r.Get("/tree", h.Categories.Tree)
			r.Get("/cache-log", h.Categories.CacheLog)
			r.Get("/{id}", h.Categories.Get)
			r.Put("/{id}", h.Categories.Update)
			r.Delete("/{id}", h.Categories.Delete)
			r.Get("/{id}/children", h.Categories.Children)
			r.Get("/{id}/path", h.Categories.Path)
			r.Post("/{id}/reorder", h.Categories.Reorder)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.Catalog.ListTags)
			r.Post("/", h.Catalog.CreateTag)
			r.Get("/{id}", h.Catalog.GetTag)
			r.Put("/{id}", h.Catalog.UpdateTag)
			r.Delete("/{id}", h.Catalog.DeleteTag)
		})

		r.Route("/resources", func(r chi.Router) {
			r.Get("/", h.Catalog.ListResources)
			r.Post("/", h.Catalog.CreateResource)
			r.Get("/{id}", h.Catalog.GetResource)
			r.Put("/{id}", h.Catalog.UpdateResource)
			r.Delete("/{id}", h.Catalog.DeleteResource)
			r.Post("/{id}/download", h.Catalog.Download)
		})

		r.Route("/domains", func(r chi.Router) {
			r.Get("/", h.Tasks.ListDomains)
			r.Post("/", h.Tasks.CreateDomain)
			r.Get("/{id}", h.Tasks.GetDomain)
			r.Put("/{id}", h.Tasks.UpdateDomain)
			r.Delete("/{id}", h.Tasks.DeleteDomain)
		})

		r.Route("/subdomains", func(r chi.Router) {
			r.Post("/", h.Tasks.CreateSubdomain)
			r.Get("/{id}", h.Tasks.GetSubdomain)
			r.Put("/{id}", h.Tasks.UpdateSubdomain)
			r.Delete("/{id}", h.Tasks.DeleteSubdomain)
			r.Get("/{id}/tasks", h.Tasks.SubdomainTasks)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", h.Tasks.CreateTask)
			r.Get("/{id}", h.Tasks.GetTask)
			r.Put("/{id}", h.Tasks.UpdateTask)
			r.Delete("/{id}", h.Tasks.DeleteTask)
		})

		r.Route("/formations", func(r chi.Router) {
			r.Get("/", h.Formations.List)
			r.Post("/", h.Formations.Create)
			r.Get("/slug/{slug}", h.Formations.GetBySlug)
			r.Get("/{id}", h.Formations.Get)
			r.Put("/{id}", h.Formations.Update)
			r.Delete("/{id}", h.Formations.Delete)
			r.Post("/{id}/sections", h.Formations.AddSection)
			r.Post("/{id}/enroll", h.Formations.Enroll)
		})

		r.Delete("/sections/{id}", h.Formations.DeleteSection)
		r.Post("/sections/{id}/lessons", h.Formations.AddLesson)
		r.Delete("/lessons/{id}", h.Formations.DeleteLesson)
		r.Post("/enrollments/{id}/confirm", h.Formations.ConfirmPayment)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.Users.List)
			r.Post("/", h.Users.Create)
			r.Get("/{id}", h.Users.Get)
			r.Put("/{id}", h.Users.Update)
			r.Delete("/{id}", h.Users.Delete)
			r.Put("/{id}/password", h.Users.SetPassword)
			r.Get("/{id}/enrollments", h.Formations.UserEnrollments)
		})
	})

	return r
}

// healthHandler returns a simple JSON liveness response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// jsonStatus answers every request with status and {"error": msg}.
func jsonStatus(status int, msg string) http.HandlerFunc {
	body := []byte(`{"error":"` + msg + `"}` + "\n")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		w.Write(body)
	}
}
