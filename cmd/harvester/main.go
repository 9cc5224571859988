// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/openfarm/harvester/api"
	"github.com/openfarm/harvester/co"
	"github.com/openfarm/harvester/emission"
	"github.com/openfarm/harvester/log"
	"github.com/openfarm/harvester/metrics"
	"github.com/openfarm/harvester/state"
)

var (
	version   string
	gitCommit string
)

func fullVersion() string {
	if version == "" {
		return "dev"
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func main() {
	app := cli.NewApp()
	app.Name = "harvester"
	app.Version = fullVersion()
	app.Usage = "block-scheduled multi-pool reward farming engine"
	app.Copyright = "2026 The Harvester developers"
	app.Flags = []cli.Flag{
		addrFlag,
		apiCorsFlag,
		verbosityFlag,
		enableMetricsFlag,
		blockIntervalFlag,
		settleIntervalFlag,
		startBlockFlag,
		baseRateFlag,
		periodsFlag,
		periodLengthFlag,
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	initLogger(ctx.Int(verbosityFlag.Name))

	schedCfg, err := scheduleConfig(ctx)
	if err != nil {
		return err
	}
	sched, err := emission.NewSchedule(schedCfg)
	if err != nil {
		return errors.Wrap(err, "emission schedule")
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	st := state.New()
	engine, err := bootstrap(st, sched)
	if err != nil {
		return errors.Wrap(err, "bootstrap")
	}

	h := newHost(
		engine,
		adminAddr,
		sched.StartBlock(),
		time.Duration(ctx.Int(blockIntervalFlag.Name))*time.Second,
		uint32(ctx.Int(settleIntervalFlag.Name)),
	)

	listener, err := net.Listen("tcp", ctx.String(addrFlag.Name))
	if err != nil {
		return errors.Wrap(err, "listen API addr")
	}

	handler := api.New(engine, &h.mu, h.currentBlock, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
	})
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	log.Info("starting harvester",
		"version", fullVersion(),
		"api", listener.Addr(),
		"window", fmt.Sprintf("[%d, %d)", sched.StartBlock(), sched.EndBlock()),
	)

	var goes co.Goes
	defer goes.Wait()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})

	goes.Go(func() {
		_ = srv.Serve(listener)
	})
	goes.Go(func() {
		h.loop(done)
	})

	<-quit
	log.Info("got interrupt, shutting down...")
	close(done)
	// unblock the Serve goroutine before the deferred Wait joins it
	_ = srv.Shutdown(context.Background())
	return nil
}

func initLogger(verbosity int) {
	level := new(slog.LevelVar)
	level.Set(log.VerbosityToLevel(verbosity))
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor)
	log.SetDefault(log.NewLogger(handler))
}

func scheduleConfig(ctx *cli.Context) (emission.Config, error) {
	cfg := emission.DefaultConfig(uint32(ctx.Uint(startBlockFlag.Name)))
	if raw := ctx.String(baseRateFlag.Name); raw != "" {
		rate, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return emission.Config{}, errors.New("bad argument: base-rate")
		}
		cfg.BaseRate = rate
	}
	if ctx.IsSet(periodsFlag.Name) {
		cfg.Periods = uint32(ctx.Uint(periodsFlag.Name))
	}
	if ctx.IsSet(periodLengthFlag.Name) {
		cfg.PeriodLength = uint32(ctx.Uint(periodLengthFlag.Name))
	}
	return cfg, nil
}
