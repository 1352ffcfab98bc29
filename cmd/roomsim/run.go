package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	userlogic "github.com/skovsen/D2D_UserLogic"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation",
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().Int("students", 20, "Number of students entering the room")
	runCmd.Flags().Int("lecturers", 1, "Number of lecturers entering the room")
	runCmd.Flags().Int("ticks", 10000, "Maximum number of simulation steps")
	runCmd.Flags().Duration("tick", 100*time.Millisecond, "Simulated time per step")
	runCmd.Flags().Uint64("seed", 1, "Seed for the user parameters")
	runCmd.Flags().Bool("linear-budget", false, "Charge walked edges with their distance instead of the squared distance")
	runCmd.Flags().Float64("speedup", 0, "Simulated seconds per wall clock second, 0 runs unpaced")
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	room, cfg, err := loadInputs(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	students, _ := flags.GetInt("students")
	lecturers, _ := flags.GetInt("lecturers")
	ticks, _ := flags.GetInt("ticks")
	tick, _ := flags.GetDuration("tick")
	seed, _ := flags.GetUint64("seed")
	speedup, _ := flags.GetFloat64("speedup")
	metricsAddr, _ := flags.GetString("metrics-addr")
	if flags.Changed("linear-budget") {
		cfg.Users.LinearStepBudget, _ = flags.GetBool("linear-budget")
	}

	reg := prometheus.NewRegistry()
	field := userlogic.NewGridField(room.Bound(), cfg.Field)
	group, err := userlogic.NewGroup(room,
		userlogic.WithOptions(cfg.Users),
		userlogic.WithLogger(log),
		userlogic.WithSeed(seed),
		userlogic.WithField(field),
		userlogic.WithSchedule(cfg.Schedule),
		userlogic.WithRegisterer(reg),
	)
	if err != nil {
		return err
	}
	group.Subscribe(userlogic.ObserverFunc(func(a *userlogic.Agent) {
		log.Debug("observer: user gone", "user", a.UUID, "at", group.Clock())
	}))

	sim := &userlogic.Simulator{Group: group, Field: field, Tick: tick}
	if speedup > 0 {
		sim.Limiter = userlogic.Realtime(tick, speedup)
	}
	if err := sim.Populate(students, lecturers); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if metricsAddr != "" {
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           newMetricsHandler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info("serving metrics", "addr", metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return srv.Shutdown(context.Background())
		})
	}

	var steps int
	g.Go(func() error {
		// the simulation ending stops the metrics server
		defer cancel()
		var err error
		steps, err = sim.Run(gctx, ticks)
		if errors.Is(err, context.Canceled) {
			log.Warn("simulation interrupted", "steps", steps)
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "simulated %s in %d steps, %d users left, mean temperature %s\n",
		group.Clock(), steps, len(group.Users()), field.Mean())
	for _, a := range group.Users() {
		fmt.Fprintf(out, "%s %-8s %s\n", a.UUID, a.Role(), a.Caption())
	}
	return nil
}
