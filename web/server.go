// Package web serves a read-only inspector for a running scene.
package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func NewRouter(store *Store) *mux.Router {
	h := &inspector{store: store}

	r := mux.NewRouter()
	r.HandleFunc("/json/scene", h.HandlerScene)
	r.HandleFunc("/json/scene/{node}", h.HandlerSceneNode)
	r.HandleFunc("/json/frame", h.HandlerFrame)
	r.HandleFunc("/json/setup", h.HandlerSetup)
	r.HandleFunc("/json/stats", h.HandlerStats)
	r.HandleFunc("/dump/trace", h.HandlerDumpTrace)
	r.HandleFunc("/dump/scene", h.HandlerDumpScene)
	r.HandleFunc("/ws/status", HandlerStatusSocket)
	return r
}

func StartServer(addr string, store *Store) error {
	var h http.Handler = NewRouter(store)
	h = handlers.RecoveryHandler()(h)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
