package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"

	"github.com/itohio/espresso-shot/pkg/telemetry"
	"github.com/itohio/espresso-shot/pkg/thermistor"
)

type calibrateCommand struct {
	Samples   int  `short:"n" long:"samples" default:"50" description:"Records averaged per reference temperature"`
	GroupOnly bool `long:"group-only" description:"Calibrate only the group thermistor"`
}

func (c *calibrateCommand) Execute(args []string) error {
	if c.Samples <= 0 {
		return fmt.Errorf("samples must be positive")
	}

	src, err := openSource(options)
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The window keeps consuming while the user is at the prompt.
	window := newResistanceWindow(c.Samples)
	streamErr := make(chan error, 1)
	go func() {
		streamErr <- window.run(ctx, src.Records())
	}()

	in := bufio.NewReader(os.Stdin)
	var basket, group [3]thermistor.Point
	for i := range 3 {
		celsius, err := promptCelsius(in, os.Stdout, i+1)
		if err != nil {
			return err
		}

		select {
		case <-window.ready:
		default:
			fmt.Printf("Waiting for %d records...\n", c.Samples)
		}
		select {
		case <-window.ready:
		case err := <-streamErr:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
		select {
		case err := <-streamErr:
			return err
		default:
		}

		rb, rg := window.average()
		fmt.Printf("basket %.1f Ohm, group %.1f Ohm\n", rb, rg)

		basket[i] = thermistor.Point{Celsius: celsius, Ohms: rb}
		group[i] = thermistor.Point{Celsius: celsius, Ohms: rg}
	}

	if !c.GroupOnly {
		if err := printFit("basket", basket); err != nil {
			return err
		}
	}
	return printFit("group", group)
}

// promptCelsius asks for reference temperature n until a number is entered.
func promptCelsius(in *bufio.Reader, out io.Writer, n int) (float64, error) {
	for {
		fmt.Fprintf(out, "Reference temperature %d (C): ", n)
		line, err := in.ReadString('\n')
		if v, perr := strconv.ParseFloat(strings.TrimSpace(line), 64); perr == nil {
			return v, nil
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read temperature: %w", err)
		}
		fmt.Fprintln(out, "Not a number, try again")
	}
}

// resistanceWindow holds the resistances of the last n records.
type resistanceWindow struct {
	mu     sync.Mutex
	basket []float64
	group  []float64
	next   int
	filled int

	// ready is closed once the window has been filled.
	ready chan struct{}
}

func newResistanceWindow(n int) *resistanceWindow {
	return &resistanceWindow{
		basket: make([]float64, n),
		group:  make([]float64, n),
		ready:  make(chan struct{}),
	}
}

// add stores one record, replacing the oldest once the window is full.
func (w *resistanceWindow) add(r telemetry.Record) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.basket[w.next] = float64(r.BasketResistance)
	w.group[w.next] = float64(r.GroupResistance)
	w.next = (w.next + 1) % len(w.basket)
	if w.filled < len(w.basket) {
		w.filled++
		if w.filled == len(w.basket) {
			close(w.ready)
		}
	}
}

// average returns the mean resistances of the records currently held.
func (w *resistanceWindow) average() (basket, group float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.filled == 0 {
		return math.NaN(), math.NaN()
	}
	for i := range w.filled {
		basket += w.basket[i]
		group += w.group[i]
	}
	return basket / float64(w.filled), group / float64(w.filled)
}

// run feeds records into the window until ctx is cancelled or the stream closes.
func (w *resistanceWindow) run(ctx context.Context, records <-chan telemetry.Record) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-records:
			if !ok {
				return fmt.Errorf("telemetry stream closed")
			}
			w.add(r)
		}
	}
}

func printFit(name string, points [3]thermistor.Point) error {
	c, err := thermistor.Fit(points)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	fmt.Printf("%s:\n  a: %.10e\n  b: %.10e\n  c: %.10e\n", name, c.A, c.B, c.C)
	return nil
}
