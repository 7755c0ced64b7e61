package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/espresso-shot/pkg/clock"
	"github.com/itohio/espresso-shot/pkg/config"
	"github.com/itohio/espresso-shot/pkg/controller"
	"github.com/itohio/espresso-shot/pkg/device"
	"github.com/itohio/espresso-shot/pkg/display"
	"github.com/itohio/espresso-shot/pkg/hw"
	"github.com/itohio/espresso-shot/pkg/scope"
	"github.com/itohio/espresso-shot/pkg/telemetry"
)

func main() {
	var (
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		portFlag   = flag.String("p", "", "Also send telemetry to this serial port")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var transport telemetry.Transport
	if *portFlag != "" {
		s, err := telemetry.OpenSerial(*portFlag, cfg.Telemetry.BaudRate)
		if err != nil {
			log.Fatalf("Failed to open telemetry port: %v", err)
		}
		defer s.Close()
		transport = s
	}

	application := app.NewWithID("com.itohio.espresso-shot.sim")
	window := application.NewWindow("Espresso Shot Simulator")
	window.Resize(fyne.NewSize(900, 700))
	window.CenterOnScreen()

	clk := clock.NewSystem()
	sim := hw.NewSim(cfg, clk)
	ctl := controller.New(cfg, clk, controller.Hardware{
		ADC:      sim,
		Tilt:     sim.Tilt(),
		Increase: sim.Increase(),
		Decrease: sim.Decrease(),
		Fan:      sim.Fan(),
	}, transport)

	state := &appState{
		cfg:    cfg,
		sim:    sim,
		window: window,
	}

	// Rendered 128x64 panel, scaled up without smoothing
	state.panel = canvas.NewImageFromImage(image.NewGray(image.Rect(0, 0, display.Width, display.Height)))
	state.panel.ScaleMode = canvas.ImageScalePixels
	state.panel.FillMode = canvas.ImageFillContain
	state.panel.SetMinSize(fyne.NewSize(display.Width*4, display.Height*4))

	state.status = widget.NewLabel("")
	state.scopeWidget = scope.New(30)

	var (
		trace   shotTrace
		lastErr string
	)
	ctl.OnRefresh(func(st device.State, frame image.Image) {
		var points []scope.Point
		changed := trace.add(st)
		if changed {
			points = trace.snapshot()
		}
		fanOn := sim.FanOn()
		fyne.Do(func() {
			state.panel.Image = frame
			state.panel.Refresh()
			state.status.SetText(statusText(st, fanOn))
			if changed {
				state.scopeWidget.UpdateData(points, st.TargetTemperature)
			}
		})
	})
	ctl.OnError(func(err error) {
		if msg := err.Error(); msg != lastErr {
			lastErr = msg
			log.Printf("%v", err)
		}
	})

	window.SetContent(container.NewBorder(
		createToolbar(state),
		state.status,
		nil,
		nil,
		container.NewVSplit(container.NewCenter(state.panel), state.scopeWidget),
	))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctl.Run(ctx)
	}()
	window.SetOnClosed(func() {
		cancel()
		<-done
	})

	window.ShowAndRun()
}

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	sim         *hw.Sim
	window      fyne.Window
	panel       *canvas.Image
	status      *widget.Label
	scopeWidget *scope.ScopeWidget
	leverBtn    *widget.Button
}

func statusText(st device.State, fanOn bool) string {
	fan := "off"
	if fanOn {
		fan = "on"
	}
	return fmt.Sprintf("%s  basket %s  group %s  target %.1f C  fan %s",
		st.Machine,
		display.FormatTemperature(st.BasketTemperature),
		display.FormatTemperature(st.GroupTemperature),
		st.TargetTemperature,
		fan,
	)
}
