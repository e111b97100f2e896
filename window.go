package main

import (
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/orrery/config"
	"github.com/mogaika/orrery/gfx"
	"github.com/mogaika/orrery/gfx/glcontext"
	"github.com/mogaika/orrery/gfx/trace"
	"github.com/mogaika/orrery/solar"
	"github.com/mogaika/orrery/status"
	"github.com/mogaika/orrery/utils"
	"github.com/mogaika/orrery/web"
)

const statsInterval = 5.0

func runWindow(cfg *config.Config, store *web.Store, dump bool) (err error) {
	defer func() {
		if err != nil {
			status.Error("window run failed: %v", err)
		}
	}()

	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize glfw")
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create window")
	}
	defer window.Destroy()
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	glctx, err := glcontext.New()
	if err != nil {
		return err
	}
	defer glctx.Destroy()

	// the recorder is only needed to feed the inspector
	var ctx gfx.Context = glctx
	var rec *trace.Recorder
	if store != nil {
		rec = trace.Wrap(glctx)
		ctx = rec
	}

	fbWidth, fbHeight := window.GetFramebufferSize()
	status.Info("window %dx%d ready", fbWidth, fbHeight)
	sys, err := solar.New(ctx, cfg, float32(fbWidth)/float32(fbHeight))
	if err != nil {
		return errors.Wrap(err, "Failed to build scene")
	}
	defer sys.Release()
	if rec != nil {
		store.SetSetup(rec.Setup())
	}

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if width > 0 && height > 0 {
			sys.Resize(float32(width) / float32(height))
		}
	})

	clearColor := utils.ColorBytesToFloat(cfg.ClearColor)
	var counter frameCounter
	sinceStats := 0.0
	then := glfw.GetTime()

	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - then
		then = now
		fps := counter.Tick(dt)

		fbWidth, fbHeight = window.GetFramebufferSize()
		if fbWidth > 0 && fbHeight > 0 {
			glctx.BeginFrame(int32(fbWidth), int32(fbHeight), clearColor)
			if rec != nil {
				rec.BeginFrame()
			}
			sys.Frame(dt)
			if rec != nil {
				publish(store, sys, rec.EndFrame(), fps)
			}
		}

		window.SwapBuffers()
		glfw.PollEvents()

		if sinceStats += dt; sinceStats >= statsInterval {
			sinceStats = 0
			log.Print(printer.Sprintf("[orrery] %.1f fps, rotation %.1f°", fps, sys.Rotation()))
		}
	}

	if dump {
		utils.LogDump(sys.Scene.Describe(mgl32.Ident4()))
	}
	return nil
}
