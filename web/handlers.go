package web

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mogaika/orrery/gfx/trace"
	"github.com/mogaika/orrery/r3d"
	"github.com/mogaika/orrery/status"
	"github.com/mogaika/orrery/webutils"
)

type inspector struct {
	store *Store
}

func (h *inspector) HandlerScene(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, h.store.Snapshot())
}

// HandlerSceneNode looks a node up by numeric id or by name.
func (h *inspector) HandlerSceneNode(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["node"]
	snapshot := h.store.Snapshot()

	id, idErr := strconv.Atoi(key)
	for _, node := range snapshot.Nodes {
		if (idErr == nil && node.ID == r3d.NodeID(id)) || node.Name == key {
			webutils.WriteJson(w, node)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
	webutils.WriteError(w, errors.Errorf("node %q not found", key))
}

func (h *inspector) HandlerFrame(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, h.store.Frame())
}

func (h *inspector) HandlerSetup(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, h.store.Setup())
}

func (h *inspector) HandlerStats(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, h.store.Stats())
}

func (h *inspector) HandlerDumpTrace(w http.ResponseWriter, r *http.Request) {
	setup, frame := h.store.Setup(), h.store.Frame()
	webutils.WriteGeneratedFile(w, "trace.yaml", func(out io.Writer) error {
		return trace.WriteYAML(out, setup, []trace.Frame{frame})
	})
}

func (h *inspector) HandlerDumpScene(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJsonFile(w, h.store.Snapshot(), "scene")
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func HandlerStatusSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	status.NewClient(conn)
}
