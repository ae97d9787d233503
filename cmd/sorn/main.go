// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// sorn runs self-organizing recurrent network simulations from a YAML
// config: a plasticity phase that shapes the network, and a training
// phase that continues from a saved state with plasticity off.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Saran-nns/Neurogenesis/sorn"
	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "sorn",
		Short: "Self-organizing recurrent network simulator",
		Long: `sorn simulates self-organizing recurrent networks: binary
excitatory and inhibitory populations shaped by STDP, intrinsic
plasticity, structural plasticity, inhibitory STDP, synaptic scaling
and neurogenesis.

A typical workflow runs a plasticity phase, saves the terminal state,
then runs a training phase continuing from that state.`,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newMetricsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sorn version %s\n", version)
		},
	}
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation from a YAML config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if v, _ := cmd.Flags().GetInt("timesteps"); v > 0 {
				cfg.Timesteps = v
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed, _ = cmd.Flags().GetInt64("seed")
			}
			if v, _ := cmd.Flags().GetString("phase"); v != "" {
				cfg.Phase = v
			}
			if v, _ := cmd.Flags().GetString("state-in"); v != "" {
				cfg.StateIn = v
			}
			if v, _ := cmd.Flags().GetString("state-out"); v != "" {
				cfg.StateOut = v
			}
			if v, _ := cmd.Flags().GetString("metrics-out"); v != "" {
				cfg.MetricsOut = v
			}
			return runSim(cfg)
		},
	}
	cmd.Flags().String("config", "", "Path to a YAML run config")
	cmd.Flags().Int("timesteps", 0, "Override the number of simulation steps")
	cmd.Flags().Int64("seed", 0, "Override the random seed")
	cmd.Flags().String("phase", "", "Override the run phase (plasticity or training)")
	cmd.Flags().String("state-in", "", "Continue from a saved state dict (JSON)")
	cmd.Flags().String("state-out", "", "Save the terminal state dict (JSON, .gz for gzip)")
	cmd.Flags().String("metrics-out", "", "Write the collected metrics as TSV")
	return cmd
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the available per-step metrics",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(strings.Join(sorn.AvailMetrics, "\n"))
		},
	}
}

func runSim(cfg *Config) error {
	nt, err := cfg.BuildNetwork()
	if err != nil {
		return err
	}

	var tc *sorn.TableCollector
	if len(cfg.Metrics) > 0 {
		tc, err = sorn.NewTableCollector(cfg.Metrics)
		if err != nil {
			return err
		}
		nt.Collector = tc
	}

	var inputs *etensor.Float64
	if cfg.Input != "" {
		inputs, err = LoadInputs(cfg.Input)
		if err != nil {
			return err
		}
	}

	var init *sorn.State
	if cfg.StateIn != "" {
		init = &sorn.State{}
		if err := init.OpenJSON(cfg.StateIn); err != nil {
			return fmt.Errorf("loading state %s: %w", cfg.StateIn, err)
		}
		log.Printf("%s: continuing from %s: Ne %d, Ni %d", nt.Nm, cfg.StateIn, init.Ne(), init.Ni())
	}

	term, err := nt.Run(inputs, cfg.Timesteps, init)
	if err != nil {
		return err
	}

	if cfg.StateOut != "" {
		if err := term.SaveJSON(cfg.StateOut); err != nil {
			return fmt.Errorf("saving state %s: %w", cfg.StateOut, err)
		}
		log.Printf("%s: terminal state saved to %s", nt.Nm, cfg.StateOut)
	}
	if cfg.MetricsOut != "" {
		if tc == nil {
			return fmt.Errorf("metrics_out set but no metrics configured")
		}
		fp, err := os.Create(cfg.MetricsOut)
		if err != nil {
			return err
		}
		defer fp.Close()
		tc.Table.WriteCSV(fp, etable.Tab, etable.Headers)
		log.Printf("%s: metrics saved to %s", nt.Nm, cfg.MetricsOut)
	}
	return nil
}
