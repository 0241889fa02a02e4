package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hvac_control/internal/display"
	"hvac_control/internal/logger"
	"hvac_control/internal/panel"
	"hvac_control/internal/sensor"
	"hvac_control/internal/transport/serialjson"

	"github.com/spf13/viper"
)

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load configs/panel.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// GPIO inputs: encoder plus the two buttons
	in, err := panel.NewGPIOInput(viper.GetString("gpio.chip"), panel.Pins{
		EncoderClk: viper.GetInt("gpio.encoder_clk"),
		EncoderDt:  viper.GetInt("gpio.encoder_dt"),
		Confirm:    viper.GetInt("gpio.confirm"),
		Power:      viper.GetInt("gpio.power"),
	})
	if err != nil {
		log.Fatalw("failed to open gpio inputs", "err", err)
	}
	defer func() {
		if cerr := in.Close(); cerr != nil {
			log.Errorw("failed to close gpio inputs", "err", cerr)
		}
	}()

	// serial link to the hub
	link, err := serialjson.Open(viper.GetString("serial.device"), viper.GetInt("serial.baud"))
	if err != nil {
		log.Fatalw("failed to open hub link", "err", err)
	}
	defer func() {
		if cerr := link.Close(); cerr != nil {
			log.Errorw("failed to close hub link", "err", cerr)
		}
	}()

	ctrl := panel.NewController(in, link, buildSensor(log), display.NewLog(log), panel.Intervals{
		Tick:     viper.GetDuration("intervals.tick"),
		Sensor:   viper.GetDuration("intervals.sensor"),
		Display:  viper.GetDuration("intervals.display"),
		Send:     viper.GetDuration("intervals.send"),
		Debounce: viper.GetDuration("intervals.debounce"),
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.Run(ctx)

	log.Infow("panel started", "serial", viper.GetString("serial.device"))

	waitForShutdown(cancel, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs")
	viper.SetConfigName("panel")
	return viper.ReadInConfig()
}

// buildSensor picks the room probe from config. Benches without one get
// fixed conditions so the rest of the panel still exercises.
func buildSensor(log *logger.Logger) sensor.Sensor {
	if !viper.IsSet("sensor.fixed_temp") {
		log.Infow("sensor not configured; using fixed bench conditions")
		return sensor.Fixed{Temperature: 22, Humidity: 50}
	}
	return sensor.Fixed{
		Temperature: viper.GetFloat64("sensor.fixed_temp"),
		Humidity:    viper.GetFloat64("sensor.fixed_humidity"),
	}
}

// waitForShutdown listens for termination signals and stops the loop.
func waitForShutdown(cancel context.CancelFunc, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down panel...")
	cancel()

	time.Sleep(100 * time.Millisecond)
}
