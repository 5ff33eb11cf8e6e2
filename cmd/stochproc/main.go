// Command stochproc runs one of the canned stochastic-process scenarios
// and prints its end-of-run summary, or serves the run live to a
// websocket viewer when -serve is given.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"

	"stochproc/config"
	"stochproc/emission"
	"stochproc/ensemble"
	"stochproc/eventsink"
	"stochproc/pipeline"
	"stochproc/scenarios"
)

var (
	serve *bool
	addr  *string
	seed  *int64
)

func init() {
	serve = flag.Bool("serve", false, "serve the run live over a websocket instead of printing the summary")
	addr = flag.String("addr", ":8080", "address to serve on, when -serve is set")
	seed = flag.Int64("seed", 1, "random source seed")
	flag.Parse()
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: stochproc <scenario>\nscenarios: %s\n", strings.Join(scenarios.Names, ", "))
}

func runApp() error {
	if flag.NArg() != 1 {
		usage()
		return fmt.Errorf("expected exactly one scenario selector")
	}
	name := flag.Arg(0)

	raw, err := scenarios.Load(name)
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(raw.ToInput())
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	uDist := distuv.Uniform{Min: 0, Max: 1, Src: rng}
	nDist := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	uniform := func() float64 { return uDist.Rand() }
	normal := func() float64 { return nDist.Rand() }
	engine := ensemble.New(cfg, uniform, normal)
	em := emission.GonumEM{}

	if *serve {
		return serveRun(engine, cfg, em, raw)
	}
	return printRun(engine, cfg, em, raw)
}

func printRun(e *ensemble.Engine, cfg *config.Resolved, em emission.EM, raw *scenarios.RawScenario) error {
	sink := pipeline.NewMemorySink()
	rec := pipeline.NewRecorder(sink, nil)
	driver := pipeline.NewDriver(e, cfg, em, rec)

	var events []ensemble.Event
	if len(raw.LearningEvents) > 0 {
		sup := driver.Supervisor()
		sup(raw.LearningEvents, false)
		sup(nil, true)
		events = sink.Events
	} else {
		events = driver.RunGenerative()
	}

	enc := json.NewEncoder(os.Stdout)
	for _, ev := range events {
		if ev.Kind == ensemble.EventEnd {
			return enc.Encode(ev)
		}
	}
	return nil
}

func serveRun(e *ensemble.Engine, cfg *config.Resolved, em emission.EM, raw *scenarios.RawScenario) error {
	sink := eventsink.NewChanSink(64)
	rec := pipeline.NewRecorder(sink, nil)
	driver := pipeline.NewDriver(e, cfg, em, rec)

	go func() {
		defer sink.Close()
		if len(raw.LearningEvents) > 0 {
			sup := driver.Supervisor()
			sup(raw.LearningEvents, false)
			sup(nil, true)
			return
		}
		driver.RunGenerative()
	}()

	srv := eventsink.NewServer(*addr, sink)
	fmt.Fprintf(os.Stderr, "serving on %s\n", *addr)
	return srv.Serve()
}

func main() {
	if err := runApp(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
