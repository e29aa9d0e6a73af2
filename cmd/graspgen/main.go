// Command graspgen enumerates candidate grasp poses for an object in a
// scene fixture, optionally recording the run to sqlite and rendering
// debug visualizations.
//
// Usage:
//
//	graspgen -scene scene.json -eef gripper -object can -delta 0.1 \
//	    -db grasps.db -html grasps.html -png sweep.png
//
// With -listen, serves the candidate scatter at /debug/grasps instead of
// exiting after one run.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gantry-robotics/graspgen/internal/config"
	"github.com/gantry-robotics/graspgen/internal/grasp"
	"github.com/gantry-robotics/graspgen/internal/pipeline"
	"github.com/gantry-robotics/graspgen/internal/record"
	"github.com/gantry-robotics/graspgen/internal/scene"
	"github.com/gantry-robotics/graspgen/internal/version"
	"github.com/gantry-robotics/graspgen/internal/viz"
)

var (
	scenePath  = flag.String("scene", "", "Path to the scene fixture (required)")
	configPath = flag.String("config", "", "Optional JSON config file")
	eef        = flag.String("eef", "", "End-effector group name")
	posture    = flag.String("posture", "", "Named default posture for the end effector")
	object     = flag.String("object", "", "Target object frame name")
	delta      = flag.Float64("delta", grasp.DefaultAngleDelta, "Angular step (rad)")
	dbPath     = flag.String("db", "", "Record the run to this sqlite database")
	htmlPath   = flag.String("html", "", "Write an ECharts scatter of the run to this file")
	pngPath    = flag.String("png", "", "Write a sweep plot of the run to this file")
	listen     = flag.String("listen", "", "Serve the candidate scatter on this address instead of exiting")
	verbose    = flag.Bool("v", false, "Log every produced candidate")
)

func buildConfig() (grasp.Config, error) {
	cfg := grasp.DefaultConfig()
	if *configPath != "" {
		fc, err := config.Load(*configPath)
		if err != nil {
			return grasp.Config{}, err
		}
		fc.Apply(&cfg)
	}
	// flags win over the config file
	if *eef != "" {
		cfg.EndEffector = *eef
	}
	if *posture != "" {
		cfg.NamedPosture = *posture
	}
	if *object != "" {
		cfg.Object = *object
	}
	deltaSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "delta" {
			deltaSet = true
		}
	})
	if deltaSet {
		cfg.AngleDelta = *delta
	}
	if cfg.EndEffector == "" {
		return grasp.Config{}, fmt.Errorf("no end effector configured (use -eef or a config file)")
	}
	if cfg.Object == "" {
		return grasp.Config{}, fmt.Errorf("no object configured (use -object or a config file)")
	}
	return cfg, nil
}

func main() {
	flag.Parse()

	if *scenePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		log.Printf("graspgen %s", version.String())
	}

	scn, err := scene.Load(*scenePath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	cfg, err := buildConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *listen != "" {
		serve(cfg, scn)
		return
	}

	g, err := grasp.NewGenerator(cfg, scn)
	if err != nil {
		log.Fatalf("Failed to build generator: %v", err)
	}

	var store *record.Store
	var run *record.Run
	if *dbPath != "" {
		store, err = record.Open(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer store.Close()
		run = &record.Run{Object: cfg.Object, EndEffector: cfg.EndEffector, AngleDelta: cfg.AngleDelta}
		if err := store.InsertRun(run); err != nil {
			log.Fatalf("Failed to record run: %v", err)
		}
	}

	var cands []*grasp.Candidate
	n, err := pipeline.Run(g, func(c *grasp.Candidate) error {
		if *verbose {
			log.Printf("candidate %s: theta=%.4f target=%s", c.Trajectory.Name, c.Theta, c.Target.FrameID)
		}
		if store != nil {
			if err := store.InsertCandidate(run.RunID, len(cands), c); err != nil {
				return err
			}
		}
		cands = append(cands, c)
		return nil
	})
	if err != nil {
		log.Fatalf("Enumeration failed after %d candidates: %v", n, err)
	}
	log.Printf("Produced %d candidates for object %q", n, cfg.Object)
	if run != nil {
		log.Printf("Recorded run %s", run.RunID)
	}

	if *htmlPath != "" {
		f, err := os.Create(*htmlPath)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *htmlPath, err)
		}
		if err := viz.ScatterHTML(cands, f); err != nil {
			log.Fatalf("Failed to render scatter: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("Failed to write %s: %v", *htmlPath, err)
		}
		log.Printf("Wrote scatter to %s", *htmlPath)
	}
	if *pngPath != "" {
		if err := viz.SweepPNG(cands, *pngPath); err != nil {
			log.Fatalf("Failed to render sweep plot: %v", err)
		}
		log.Printf("Wrote sweep plot to %s", *pngPath)
	}
}

func serve(cfg grasp.Config, scn *scene.Scene) {
	mux := http.NewServeMux()
	mux.Handle("/debug/grasps", viz.Handler(func() ([]*grasp.Candidate, error) {
		g, err := grasp.NewGenerator(cfg, scn)
		if err != nil {
			return nil, err
		}
		return pipeline.Collect(g)
	}))
	log.Printf("Serving candidate scatter on %s/debug/grasps", *listen)
	log.Fatal(http.ListenAndServe(*listen, mux))
}
