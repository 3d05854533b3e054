// cmd/hireflow/main.go
//
// This is the entry point for the hireflow CLI.
//
// Flow:
// 1. Load .env and .hireflow/config.yaml from the working directory
// 2. Read the job description and resume files
// 3. Wire the stage registry, slot ledger, and engine
// 4. Run headless (default) or with the live board (--watch)

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kingrea/hireflow/internal/collab"
	"github.com/kingrea/hireflow/internal/config"
	"github.com/kingrea/hireflow/internal/engine"
	"github.com/kingrea/hireflow/internal/ledger"
	"github.com/kingrea/hireflow/internal/logging"
	"github.com/kingrea/hireflow/internal/stage"
	"github.com/kingrea/hireflow/internal/stages/feedback"
	"github.com/kingrea/hireflow/internal/stages/report"
	"github.com/kingrea/hireflow/internal/stages/scheduling"
	"github.com/kingrea/hireflow/internal/stages/screening"
	"github.com/kingrea/hireflow/internal/tui"
)

func main() {
	jdPath := flag.String("jd", "", "path to the job description file (required)")
	resumesDir := flag.String("resumes", "", "directory of resume files, processed in name order (required)")
	watch := flag.Bool("watch", false, "show the live pipeline board while the run progresses")
	flag.Parse()

	if *jdPath == "" || *resumesDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*jdPath, *resumesDir, *watch); err != nil {
		fmt.Fprintf(os.Stderr, "hireflow: %v\n", err)
		os.Exit(1)
	}
}

func run(jdPath, resumesDir string, watch bool) error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	if err := config.InitHireflowDir(cwd); err != nil {
		return fmt.Errorf("initialize %s: %w", config.HireflowDir, err)
	}
	cfg, err := config.NewConfig(cwd)
	if err != nil {
		return err
	}

	jd, err := os.ReadFile(jdPath)
	if err != nil {
		return fmt.Errorf("read job description: %w", err)
	}
	resumes, err := loadResumes(resumesDir)
	if err != nil {
		return err
	}
	if len(resumes) == 0 {
		return fmt.Errorf("no resume files found in %s", resumesDir)
	}

	logger, err := logging.New(cwd)
	if err != nil {
		return err
	}
	defer logger.Close()

	led, err := ledger.New(cfg.PanelSlots())
	if err != nil {
		return err
	}

	collabs := collab.SimSet(cfg.ShortlistThreshold())
	reg := stage.NewRegistry()
	screening.Register(reg, collabs.Parser, collabs.Scorer)
	scheduling.Register(reg)
	feedback.Register(reg, collabs.Feedback, collabs.Policy)
	report.Register(reg, collabs.Reporter)

	sc := stage.NewContext(cfg, led, logger)
	req := engine.RunRequest{
		JobDescription: string(jd),
		Resumes:        resumes,
	}

	var state engine.State
	if watch {
		state, err = tui.Run(context.Background(), func(ctx context.Context, observer engine.Observer) (engine.State, error) {
			eng, engErr := engine.New(reg, engine.NewRepository(cfg), engine.WithObserver(observer))
			if engErr != nil {
				return engine.State{}, engErr
			}
			return eng.Run(ctx, sc, req)
		})
	} else {
		var eng *engine.Engine
		eng, err = engine.New(reg, engine.NewRepository(cfg))
		if err != nil {
			return err
		}
		state, err = eng.Run(context.Background(), sc, req)
	}
	if err != nil {
		logger.Printf("run %s failed: %v", state.RunID, err)
		return err
	}

	logger.Printf("run %s completed after %d tick(s)", state.RunID, state.Tick)
	fmt.Println(state.Pipeline.Report)
	fmt.Printf("run %s: state saved under %s\n", state.RunID, cfg.RunsDir())
	return nil
}

// loadResumes reads every regular file in the directory, sorted by name so
// candidate IDs stay deterministic across runs.
func loadResumes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read resumes dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	resumes := make([]string, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read resume %s: %w", name, err)
		}
		resumes = append(resumes, string(data))
	}
	return resumes, nil
}
