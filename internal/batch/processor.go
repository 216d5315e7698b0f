package batch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"tri-raster/internal/output"
	"tri-raster/internal/raster"
	"tri-raster/internal/scene"
)

// Config holds the shared settings for a batch run.
type Config struct {
	Raster   raster.Config
	Sink     output.Sink
	Workers  int
	Progress time.Duration // progress log interval; 0 means 2s
}

// Result holds the outcome of rendering one scene.
type Result struct {
	Name     string
	Success  bool
	Error    string
	Warnings []string
}

// Run renders all scenes using a worker pool and presents each finished
// buffer to cfg.Sink. Results are returned in input order. When ctx is
// cancelled, scenes not yet started fail with the context error.
func Run(ctx context.Context, cfg Config, scenes []*scene.Scene, log logrus.FieldLogger) []Result {
	total := len(scenes)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	interval := cfg.Progress
	if interval <= 0 {
		interval = 2 * time.Second
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	reporterExited := make(chan struct{})
	go func() {
		defer close(reporterExited)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.WithFields(logrus.Fields{
						"done":  p,
						"total": total,
						"rate":  rate,
					}).Info("progress")
				}
			}
		}
	}()

	// Worker pool
	sceneChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range sceneChan {
				results[idx] = processScene(ctx, cfg, scenes[idx], log)
				processed.Add(1)
			}
		}()
	}

	// Send work
	next := 0
send:
	for ; next < total; next++ {
		select {
		case <-ctx.Done():
			break send
		case sceneChan <- next:
		}
	}
	close(sceneChan)

	wg.Wait()
	close(done)
	<-reporterExited

	for i := next; i < total; i++ {
		results[i] = Result{Name: scenes[i].Name, Error: ctx.Err().Error()}
	}

	return results
}

func processScene(ctx context.Context, cfg Config, s *scene.Scene, log logrus.FieldLogger) Result {
	res := Result{Name: s.Name, Warnings: s.Check()}
	for _, w := range res.Warnings {
		log.WithField("scene", s.Name).Warn(w)
	}

	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		return res
	}

	fb, err := scene.Render(s, cfg.Raster)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	if err := cfg.Sink.Present(s.Name, fb); err != nil {
		res.Error = err.Error()
		return res
	}

	log.WithFields(logrus.Fields{
		"scene":     s.Name,
		"triangles": len(s.Triangles),
		"size":      [2]int{fb.Width, fb.Height},
	}).Debug("rendered")

	res.Success = true
	return res
}
