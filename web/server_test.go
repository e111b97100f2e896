package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/orrery/gfx/trace"
	"github.com/mogaika/orrery/r3d"
	"github.com/mogaika/orrery/status"
)

func testStore() *Store {
	store := NewStore()
	store.SetSetup([]trace.Call{{Op: "CreateBuffer", Handle: 1}})
	m := mgl32.Translate3D(1, 2, 3)
	store.Publish(Snapshot{
		Frame:          7,
		ViewProjection: mgl32.Ident4(),
		Nodes: []r3d.NodeInfo{
			{ID: 0, Name: "solar-system", Kind: "group", Children: []r3d.NodeID{1}, Local: mgl32.Ident4(), World: mgl32.Ident4()},
			{ID: 1, Name: "sun", Kind: "cuboid", Local: m, World: m},
		},
	}, trace.Frame{
		Index: 7,
		Draws: 1,
		Calls: []trace.Call{{Op: "DrawElements", Handle: 1, Count: 36}},
	}, status.FrameStats{Index: 7, Draws: 1, Calls: 1})
	return store
}

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", url, nil))
	return w
}

func TestSceneHandlers(t *testing.T) {
	h := NewRouter(testStore())

	w := get(t, h, "/json/scene")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, 7, snapshot.Frame)
	assert.Len(t, snapshot.Nodes, 2)

	for _, key := range []string{"1", "sun"} {
		w = get(t, h, "/json/scene/"+key)
		require.Equal(t, http.StatusOK, w.Code, key)
		var node r3d.NodeInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &node))
		assert.Equal(t, "sun", node.Name)
		assert.Equal(t, mgl32.Translate3D(1, 2, 3), node.World)
	}

	w = get(t, h, "/json/scene/pluto")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestFrameHandlers(t *testing.T) {
	h := NewRouter(testStore())

	var frame trace.Frame
	w := get(t, h, "/json/frame")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &frame))
	assert.Equal(t, 1, frame.Draws)
	assert.Equal(t, "DrawElements", frame.Calls[0].Op)

	var setup []trace.Call
	w = get(t, h, "/json/setup")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &setup))
	assert.Equal(t, []trace.Call{{Op: "CreateBuffer", Handle: 1}}, setup)

	var stats status.FrameStats
	w = get(t, h, "/json/stats")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 7, stats.Index)
}

func TestDumpTrace(t *testing.T) {
	w := get(t, NewRouter(testStore()), "/dump/trace")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "trace.yaml")

	setup, frames, err := trace.ReadYAML(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	assert.Len(t, setup, 1)
	require.Len(t, frames, 1)
	assert.Equal(t, 36, frames[0].Calls[0].Count)
}

func TestDumpScene(t *testing.T) {
	w := get(t, NewRouter(testStore()), "/dump/scene")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="scene.json"`, w.Header().Get("Content-Disposition"))

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, 7, snapshot.Frame)
	require.Len(t, snapshot.Nodes, 2)
	assert.Equal(t, "sun", snapshot.Nodes[1].Name)
}
