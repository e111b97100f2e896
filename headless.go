package main

import (
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/orrery/config"
	"github.com/mogaika/orrery/gfx/fakegl"
	"github.com/mogaika/orrery/gfx/trace"
	"github.com/mogaika/orrery/solar"
	"github.com/mogaika/orrery/status"
	"github.com/mogaika/orrery/utils"
	"github.com/mogaika/orrery/web"
)

const headlessFrameTime = 1.0 / 60

func runHeadless(cfg *config.Config, frames int, tracePath string, store *web.Store, dump bool) (err error) {
	defer func() {
		if err != nil {
			status.Error("headless run failed: %v", err)
		}
	}()
	status.Info("headless run of %d frames", frames)

	gl := fakegl.New()
	rec := trace.Wrap(gl)
	if tracePath != "" {
		rec.KeepFrames(frames)
	}

	sys, err := solar.New(rec, cfg, cfg.Window.Aspect())
	if err != nil {
		return errors.Wrap(err, "Failed to build scene")
	}
	defer sys.Release()

	if store != nil {
		store.SetSetup(rec.Setup())
	}

	draws, calls := 0, 0
	for i := 0; i < frames; i++ {
		rec.BeginFrame()
		sys.Frame(headlessFrameTime)
		f := rec.EndFrame()
		draws += f.Draws
		calls += len(f.Calls)
		if store != nil {
			publish(store, sys, f, 1/headlessFrameTime)
		}
	}

	if errs := gl.Errors(); len(errs) != 0 {
		for _, glErr := range errs {
			log.Printf("[orrery] GL error: %v", glErr)
		}
		return errors.Errorf("%d GL errors while rendering", len(errs))
	}

	printer.Printf("[orrery] %d frames, %d draw calls, %d GL calls, rotation %.1f°\n",
		frames, draws, calls, sys.Rotation())

	if dump {
		utils.LogDump(sys.Scene.Describe(mgl32.Ident4()))
	}

	if tracePath != "" {
		if err := writeTrace(tracePath, rec.Setup(), rec.History()); err != nil {
			return err
		}
		log.Printf("[orrery] Trace written to %s", tracePath)
	}
	status.Info("headless run done, rotation %.1f", sys.Rotation())
	return nil
}

func writeTrace(path string, setup []trace.Call, frames []trace.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Cannot create %s", path)
	}
	if err := trace.WriteYAML(f, setup, frames); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "Cannot close %s", path)
}
