package main

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mogaika/orrery/gfx/trace"
	"github.com/mogaika/orrery/solar"
	"github.com/mogaika/orrery/status"
	"github.com/mogaika/orrery/web"
)

var printer = message.NewPrinter(language.English)

// frameCounter averages the frame rate over one second windows.
type frameCounter struct {
	elapsed float64
	frames  int
	fps     float64
}

func (c *frameCounter) Tick(dt float64) float64 {
	c.elapsed += dt
	c.frames++
	if c.elapsed >= 1 {
		c.fps = float64(c.frames) / c.elapsed
		c.elapsed, c.frames = 0, 0
	}
	return c.fps
}

func frameStats(sys *solar.System, f trace.Frame, fps float64) status.FrameStats {
	return status.FrameStats{
		Index:    f.Index,
		Draws:    f.Draws,
		Calls:    len(f.Calls),
		Rotation: sys.Rotation(),
		FPS:      fps,
	}
}

// publish copies the state of the finished frame for the inspector.
func publish(store *web.Store, sys *solar.System, f trace.Frame, fps float64) {
	stats := frameStats(sys, f, fps)
	store.Publish(web.Snapshot{
		Frame:          f.Index,
		ViewProjection: sys.Camera.ViewProjection(),
		Nodes:          sys.Scene.Describe(mgl32.Ident4()),
	}, f, stats)
	status.Frame(stats)
}
