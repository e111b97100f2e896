package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/mogaika/orrery/config"
	"github.com/mogaika/orrery/web"
)

func init() {
	// GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var configPath, tracePath, addr string
	var headless, dump bool
	var frames int
	flag.StringVar(&configPath, "config", "", "Path to yaml config, defaults are used when empty")
	flag.BoolVar(&headless, "headless", false, "Render without a window on the simulated GL context")
	flag.IntVar(&frames, "frames", 600, "Frames to render in headless mode")
	flag.StringVar(&tracePath, "trace", "", "Write recorded GL calls of headless frames to this yaml file")
	flag.StringVar(&addr, "i", "", "Address of inspector server, disabled when empty")
	flag.BoolVar(&dump, "dump", false, "Dump the scene tree after the last frame")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			log.Fatal(err)
		}
	}

	var store *web.Store
	if addr != "" {
		store = web.NewStore()
		go func() {
			if err := web.StartServer(addr, store); err != nil {
				log.Printf("[web] %v", err)
			}
		}()
	}

	var err error
	if headless {
		err = runHeadless(cfg, frames, tracePath, store, dump)
	} else {
		err = runWindow(cfg, store, dump)
	}
	if err != nil {
		log.Fatal(err)
	}
}
