package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/itohio/espresso-shot/pkg/clock"
	"github.com/itohio/espresso-shot/pkg/config"
	"github.com/itohio/espresso-shot/pkg/controller"
	"github.com/itohio/espresso-shot/pkg/hw"
	"github.com/itohio/espresso-shot/pkg/telemetry"
)

func main() {
	var (
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		envFlag    = flag.String("env", ".env", "Environment file with transport overrides")
		mockFlag   = flag.Bool("mock", false, "Use a simulated machine instead of the ADC and GPIO lines")
		portFlag   = flag.String("p", "", "Telemetry serial port override (\"off\" disables it)")
	)
	flag.Parse()

	if err := godotenv.Load(*envFlag); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load %s: %v", *envFlag, err)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ApplyEnv()
	if *portFlag != "" {
		cfg.Telemetry.SerialPort = *portFlag
		if *portFlag == "off" {
			cfg.Telemetry.SerialPort = ""
		}
	}

	clk := clock.NewSystem()

	hardware, closeHardware, err := openHardware(cfg, clk, *mockFlag)
	if err != nil {
		log.Fatalf("Failed to open hardware: %v", err)
	}
	defer closeHardware()

	transport, err := openTelemetry(cfg)
	if err != nil {
		log.Fatalf("Failed to open telemetry: %v", err)
	}
	if transport != nil {
		defer transport.Close()
	}

	ctl := controller.New(cfg, clk, hardware, transport)

	// Collaborator failures repeat every period while they last; log only changes.
	var lastErr string
	ctl.OnError(func(err error) {
		if msg := err.Error(); msg != lastErr {
			lastErr = msg
			log.Printf("%v", err)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Running (target %.1f C, mode %s)", cfg.Target.Default, cfg.Target.Mode)
	if err := ctl.Run(ctx); err != nil && err != context.Canceled {
		log.Printf("Control loop stopped: %v", err)
	}
	log.Printf("Shutting down")
}

// openHardware opens the instrument's ADC, switches, fan and panel, or a
// simulated machine when mock is set.
func openHardware(cfg *config.Config, clk clock.Clock, mock bool) (controller.Hardware, func(), error) {
	if mock {
		sim := hw.NewSim(cfg, clk)
		log.Printf("Using simulated machine")
		return controller.Hardware{
			ADC:      sim,
			Tilt:     sim.Tilt(),
			Increase: sim.Increase(),
			Decrease: sim.Decrease(),
			Fan:      sim.Fan(),
		}, func() {}, nil
	}

	adc, err := hw.NewADS1115(cfg.ADC.Bus, cfg.ADC.Address)
	if err != nil {
		return controller.Hardware{}, nil, fmt.Errorf("adc: %w", err)
	}

	gpio, err := hw.NewGPIO(cfg.GPIO)
	if err != nil {
		adc.Close()
		return controller.Hardware{}, nil, fmt.Errorf("gpio: %w", err)
	}

	h := controller.Hardware{
		ADC:      adc,
		Tilt:     gpio.Tilt(),
		Increase: gpio.Increase(),
		Decrease: gpio.Decrease(),
		Fan:      gpio.Fan(),
	}

	var panel *hw.SSD1306
	if !cfg.Display.Headless {
		panel, err = hw.NewSSD1306(cfg.Display.Bus, cfg.Display.Address)
		if err != nil {
			gpio.Close()
			adc.Close()
			return controller.Hardware{}, nil, fmt.Errorf("display: %w", err)
		}
		h.Panel = panel
	}

	closeAll := func() {
		if panel != nil {
			if err := panel.Close(); err != nil {
				log.Printf("Failed to close display: %v", err)
			}
		}
		if err := gpio.Close(); err != nil {
			log.Printf("Failed to release GPIO lines: %v", err)
		}
		if err := adc.Close(); err != nil {
			log.Printf("Failed to close ADC: %v", err)
		}
	}
	return h, closeAll, nil
}

// openTelemetry opens every configured transport. It returns nil when none is configured.
func openTelemetry(cfg *config.Config) (telemetry.Transport, error) {
	t := cfg.Telemetry
	var transports telemetry.Multi

	if t.SerialPort != "" {
		s, err := telemetry.OpenSerial(t.SerialPort, t.BaudRate)
		if err != nil {
			return nil, err
		}
		log.Printf("Telemetry on serial port %s", t.SerialPort)
		transports = append(transports, s)
	}

	if t.MQTTBroker != "" {
		m, err := telemetry.NewMQTT(t.MQTTBroker, t.MQTTTopic, t.MQTTClient)
		if err != nil {
			transports.Close()
			return nil, err
		}
		log.Printf("Telemetry on %s topic %s", t.MQTTBroker, t.MQTTTopic)
		transports = append(transports, m)
	}

	switch len(transports) {
	case 0:
		log.Printf("Telemetry disabled")
		return nil, nil
	case 1:
		return transports[0], nil
	}
	return transports, nil
}
