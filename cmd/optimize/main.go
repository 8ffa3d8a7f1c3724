// Package main provides CMA-ES optimization for finding ecosystem rates
// that keep foxes, rabbits and carrots alive together.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/ecocycle/config"
	"github.com/pthm-cable/ecocycle/ecosystem"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// logRow is one line of optimize_log.csv.
type logRow struct {
	Eval    int     `csv:"eval"`
	Fitness float64 `csv:"fitness"`
	Balance float64 `csv:"balance"`

	RabbitsPerFox    float64 `csv:"rabbits_per_fox_per_day"`
	CarrotsPerRabbit float64 `csv:"carrots_per_rabbit_per_day"`
	CarrotGrowth     float64 `csv:"carrot_growth_rate"`
	FoxDeathRate     float64 `csv:"fox_death_rate"`
	RabbitDeathRate  float64 `csv:"rabbit_death_rate"`
	RabbitBirthRate  float64 `csv:"rabbit_birth_rate"`
	FoxConversion    float64 `csv:"fox_conversion"`
	MaxCarrots       float64 `csv:"max_carrots"`
}

func newLogRow(eval int, fitness, balance float64, p ecosystem.Params) logRow {
	return logRow{
		Eval:             eval,
		Fitness:          fitness,
		Balance:          balance,
		RabbitsPerFox:    p.RabbitsPerFoxPerDay,
		CarrotsPerRabbit: p.CarrotsPerRabbitPerDay,
		CarrotGrowth:     p.CarrotGrowthRate,
		FoxDeathRate:     p.FoxDeathRate,
		RabbitDeathRate:  p.RabbitDeathRate,
		RabbitBirthRate:  p.RabbitBirthRate,
		FoxConversion:    p.FoxConversion,
		MaxCarrots:       p.MaxCarrots,
	}
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	days := flag.Int("days", 365, "Simulated days per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	concurrent := flag.Int("concurrent", 0, "Parallel evaluations (0 = sequential)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	// Create output directory
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, baseCfg.Params, *days)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromParams(baseCfg.Params))

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      *concurrent,
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	// Track evaluations and timing
	var (
		mu            sync.Mutex
		evalCount     int
		headerWritten bool
		bestFitness   = 1e9
		bestParams    ecosystem.Params
		haveBest      bool
	)
	startTime := time.Now()

	problem := optimize.Problem{}
	problem.Func = func(x []float64) float64 {
		// Denormalize to get raw parameter values
		raw := params.Denormalize(x)
		fitness, balance := evaluator.Score(raw)
		// Log clamped values (these are the values actually used)
		p := params.ApplyToParams(baseCfg.Params, raw)

		mu.Lock()
		defer mu.Unlock()
		evalCount++
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = p
			haveBest = true
		}

		rows := []logRow{newLogRow(evalCount, fitness, balance, p)}
		var werr error
		if !headerWritten {
			werr = gocsv.Marshal(rows, logFile)
			headerWritten = werr == nil
		} else {
			werr = gocsv.MarshalWithoutHeaders(rows, logFile)
		}
		if werr != nil {
			log.Printf("failed to log evaluation %d: %v", evalCount, werr)
		}

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		// Fitness = -(survivalDays × (1 + 0.2×balance)), so extract survival estimate
		survival := -fitness / (1.0 + 0.2*balance)
		fmt.Printf("Eval %d/%d: survived=%.0fd balance=%.2f (best=%.1f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, survival, balance, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Members per evaluation: %d, days per run: %d\n", len(defaultScales), *days)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if !haveBest && result != nil {
		bestParams = params.ApplyToParams(baseCfg.Params, params.Denormalize(result.X))
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.1f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	best := params.ExtractFromParams(bestParams)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, best[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	bestCfg.Params = bestParams

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
