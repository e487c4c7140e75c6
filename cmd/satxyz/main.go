// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	m "github.com/gnss-lab/coordinates"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs()
	if err != nil {
		m.PrintE(err)
		flag.Usage()
		os.Exit(1)
	}

	// Run the main application
	if err := runApplication(args, os.Stdout); err != nil {
		m.PrintE(err)
		os.Exit(1)
	}
}

// Structure to hold command line argument information
type cmdOpt struct {
	navFn  string
	obsFn  string
	cfgFn  string
	rcv    *m.PosLBH // receiver position given on the command line
	sats   m.SatVar
	epochs []time.Time
	lbh    bool
}

// Main application processing
func runApplication(args cmdOpt, out io.Writer) error {

	// Load configuration
	cfg, err := loadConfig(args.cfgFn)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	m.DBG_ = max(m.DBG_, cfg.Debug)

	solver, err := m.NewSolver(cfg.SolverOpt())
	if err != nil {
		return fmt.Errorf("failed to create solver: %w", err)
	}

	// Receiver position for look angles
	var rcv *m.PosXYZ
	if args.rcv != nil && args.obsFn != "" {
		return fmt.Errorf("-rcv and -obs can't be used together")
	}
	if args.rcv != nil {
		xyz := args.rcv.ToXYZ(m.WGS84)
		rcv = &xyz
		m.PrintD(1, "rpos(lbh, xyz): %s, %s\n", args.rcv, xyz)
	}
	if args.obsFn != "" {
		xyz, err := m.RetrieveXYZFile(args.obsFn)
		if err != nil {
			return fmt.Errorf("failed to read receiver position: %w", err)
		}
		rcv = &xyz
		if m.DBG_ >= 1 {
			lbh := xyz.ToLBH(m.WGS84, true)
			m.PrintA("rpos(xyz, lbh): %s, %14.9f %14.9f %10.4f\n", xyz, lbh.L, lbh.B, lbh.H)
		}
	}

	if m.DBG_ >= 2 {
		nav, err := solver.NavIndex(args.navFn)
		if err != nil {
			return fmt.Errorf("failed to read navigation file: %w", err)
		}
		m.PrintA("--- nav data (%s)---\n", filepath.Base(args.navFn))
		m.PrintA("%s", nav)
	}

	// Process epochs
	for _, t := range args.epochs {
		for _, sat := range args.sats {
			xyz, err := solver.SatelliteXYZAt(args.navFn, sat, t)
			if err != nil {
				return fmt.Errorf("%s %s: %w", sat, t.Format("2006/01/02 15:04:05"), err)
			}
			printPos(out, args, t, sat, xyz, rcv)
		}
	}
	return nil
}

// Read configuration file, defaults if not specified
func loadConfig(fn string) (*m.Config, error) {
	if fn == "" {
		return m.ParseConfig(nil)
	}
	return m.LoadConfig(fn)
}

// Print one result line
func printPos(out io.Writer, args cmdOpt, t time.Time, sat m.SatType, xyz m.PosXYZ, rcv *m.PosXYZ) {
	fmt.Fprintf(out, "%s %s %15.4f %15.4f %15.4f", t.Format("2006/01/02 15:04:05.000"), sat, xyz.X, xyz.Y, xyz.Z)
	if args.lbh {
		lbh := xyz.ToLBH(m.WGS84, true)
		fmt.Fprintf(out, " %14.9f %14.9f %14.4f", lbh.L, lbh.B, lbh.H)
	}
	if rcv != nil {
		fmt.Fprintf(out, " %8.3f %8.3f", m.ToDeg(rcv.Elevation(xyz)), m.ToDeg(rcv.Azimuth(xyz)))
	}
	fmt.Fprintln(out)
}

// Parse command line arguments
func parseArgs() (a cmdOpt, err error) {
	flag.Usage = func() {
		m.PrintA(`
[Usage]
	%s [Options] nav_file SAT[,SAT...] "YYYY/MM/DD hh:mm:ss" ["YYYY/MM/DD hh:mm:ss" ...]

[Options]
`, filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.StringVar(&a.cfgFn, "c", "", "Configuration file (YAML).")
	flag.StringVar(&a.obsFn, "obs", "", "Observation file. Elevation and azimuth [deg] from its APPROX POSITION XYZ are appended.")
	var rcv m.PosLBH
	flag.Var(&rcv, "rcv", `Receiver position "L B H" (longitude, latitude [deg], ellipsoidal height [m]). Elevation and azimuth [deg] are appended.`)
	flag.BoolVar(&a.lbh, "lbh", false, "Append longitude, latitude [deg] and ellipsoidal height [m] (WGS84).")
	var dbg int
	flag.IntVar(&dbg, "x", 0, "Debug information display. Specify level value. 0(OFF), 1(display), 2(detailed display), 3(more detailed), 4(most detailed)")
	flag.Parse()
	m.DBG_ = dbg
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "rcv" {
			a.rcv = &rcv
		}
	})
	pos, err := parsePositional(flag.Args())
	if err != nil {
		return a, err
	}
	a.navFn, a.sats, a.epochs = pos.navFn, pos.sats, pos.epochs
	return a, nil
}

// Parse nav_file, satellite and epochs
func parsePositional(args []string) (a cmdOpt, err error) {
	if len(args) < 3 {
		return a, fmt.Errorf("too less arguments")
	}
	a.navFn = args[0]
	if err := a.sats.Set(args[1]); err != nil {
		return a, err
	}
	for _, s := range args[2:] {
		var ts m.TimeStr
		if err := ts.UnmarshalText([]byte(s)); err != nil {
			return a, fmt.Errorf("invalid epoch %q: %w", s, err)
		}
		a.epochs = append(a.epochs, time.Time(ts))
	}
	return a, nil
}
