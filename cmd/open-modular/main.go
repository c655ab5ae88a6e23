// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command open-modular runs the realtime modular synthesis engine: it loads
// a YAML configuration, wires a demonstration catalog, and drives the
// three-phase Compute/Control/IO loop either against a real audio device or,
// headless, against a fixed-rate timer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/open-modular/open-modular/audio"
	"github.com/open-modular/open-modular/config"
	"github.com/open-modular/open-modular/engine"
	"github.com/open-modular/open-modular/module"
	"github.com/open-modular/open-modular/modules"
	"github.com/open-modular/open-modular/runtime"
)

func main() {
	var (
		configPath = pflag.String("config", "", "path to the engine YAML config file")
		listOut    = pflag.Bool("list-outputs", false, "list available audio output devices and exit")
		logLevel   = pflag.String("log-level", "info", "log level: debug, info, warn, error")
		help       = pflag.Bool("help", false, "display help text")
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: open-modular [flags]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		return
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(lvl)
	}

	host, err := audio.NewPortAudioHost()
	if err != nil {
		logger.Fatal("audio host init failed", "err", err)
	}
	defer host.Close()

	if *listOut {
		listOutputs(logger, host)
		return
	}

	var cfg *config.Config
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatal("config load failed", "err", err)
		}
	} else {
		cfg = &config.Config{RingCapacity: 64}
	}

	catalog := modules.NewDemoCatalog(module.NewCatalogID(), host, cfg.Device)

	ringCapacity := cfg.RingCapacity
	if ringCapacity <= 0 {
		ringCapacity = 64
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("engine starting", "device", cfg.Device, "ring_capacity", ringCapacity)

	// With a device configured, IO is driven by the real hardware stream
	// callback (component C9); without one, Control has nothing to acquire
	// an audio-out buffer against, so the engine runs headless against the
	// fixed-rate timer IO stand-in instead.
	if cfg.Device != "" {
		live := runtime.NewLiveAudio(catalog, ringCapacity, host, cfg.Device)
		live.Control.Logger = logger
		if err := applyConfig(cfg, catalog, live.Control); err != nil {
			logger.Fatal("applying config failed", "err", err)
		}
		if err := live.Run(ctx); err != nil {
			logger.Fatal("engine exited with error", "err", err)
		}
		return
	}

	rt := runtime.New(catalog, ringCapacity)
	rt.Control.Logger = logger

	if err := applyConfig(cfg, catalog, rt.Control); err != nil {
		logger.Fatal("applying config failed", "err", err)
	}

	if err := rt.Run(ctx); err != nil {
		logger.Fatal("engine exited with error", "err", err)
	}
}

// applyConfig submits Add and Connect edits for every instance and
// connection cfg declares, resolving config-local instance names to fresh
// InstanceIDs and kind names to their catalog KindID. Edits are applied by
// Compute at one per block once rt.Run starts; submitting them beforehand
// just fills the ring so the graph is built over the run's first blocks.
func applyConfig(cfg *config.Config, catalog *module.Registry, control *runtime.Control) error {
	instances := make(map[string]module.InstanceID, len(cfg.Instances))
	for _, ic := range cfg.Instances {
		kindID, ok := catalog.Lookup(ic.Kind)
		if !ok {
			return fmt.Errorf("config: unknown kind %q for instance %q", ic.Kind, ic.Name)
		}
		id := module.NewInstanceID()
		instances[ic.Name] = id
		if _, err := control.Submit(runtime.Add{Instance: id, Kind: kindID}); err != nil {
			return fmt.Errorf("config: instance %q: %w", ic.Name, err)
		}
	}
	for _, cc := range cfg.Connections {
		fromID, ok := instances[cc.FromInstance]
		if !ok {
			return fmt.Errorf("config: connection references unknown instance %q", cc.FromInstance)
		}
		toID, ok := instances[cc.ToInstance]
		if !ok {
			return fmt.Errorf("config: connection references unknown instance %q", cc.ToInstance)
		}
		cmd := runtime.Connect{
			Output: engine.Ref{Instance: fromID, Port: cc.FromPort},
			Input:  engine.Ref{Instance: toID, Port: cc.ToPort},
		}
		if _, err := control.Submit(cmd); err != nil {
			return fmt.Errorf("config: connection %s->%s: %w", cc.FromInstance, cc.ToInstance, err)
		}
	}
	return nil
}

func listOutputs(logger *log.Logger, host *audio.PortAudioHost) {
	pending, err := host.ListOutputs()
	if err != nil {
		logger.Fatal("list outputs failed", "err", err)
	}
	// Serve must be called to resolve the request; in a headless CLI run
	// nothing else is driving the IO role's phase loop yet.
	host.Serve()
	devices, ok := pending.Value()
	if !ok {
		logger.Fatal("list outputs did not resolve")
	}
	for _, d := range devices {
		fmt.Printf("%s\t%d channels\n", d.Name, d.ChannelCount())
	}
}
