// Package http contains the HTTP handlers for the word trend API.
// Handlers expose chi sub-routers through Routes methods and render
// JSON with go-chi/render; export endpoints stream attachments
// instead.
package http
