package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hvac_control/internal/actuator"
	"hvac_control/internal/hub"
	"hvac_control/internal/logger"
	"hvac_control/internal/remote"
	"hvac_control/internal/transport/serialjson"

	"github.com/spf13/viper"
)

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load configs/hub.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// serial link to the panel
	link, err := serialjson.Open(viper.GetString("serial.device"), viper.GetInt("serial.baud"))
	if err != nil {
		log.Fatalw("failed to open panel link", "err", err)
	}
	defer func() {
		if cerr := link.Close(); cerr != nil {
			log.Errorw("failed to close panel link", "err", cerr)
		}
	}()

	// coordination service client
	client := remote.NewClient(viper.GetString("server.base_url"), log)

	h := hub.New(link, client, buildActuator(log), hub.Intervals{
		Tick:          viper.GetDuration("intervals.tick"),
		ServerUpdate:  viper.GetDuration("intervals.server_update"),
		CommandCheck:  viper.GetDuration("intervals.command_check"),
		PanelSend:     viper.GetDuration("intervals.panel_send"),
		ScheduleCheck: viper.GetDuration("intervals.schedule_check"),
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	log.Infow("hub started",
		"serial", viper.GetString("serial.device"),
		"server", viper.GetString("server.base_url"))

	waitForShutdown(cancel, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs")
	viper.SetConfigName("hub")
	return viper.ReadInConfig()
}

// buildActuator selects the IR transmitter from config, falling back to
// the logging actuator on machines without one.
func buildActuator(log *logger.Logger) actuator.Actuator {
	if !viper.IsSet("ir.device") {
		log.Infow("ir.device not set in config; actuation goes to the log")
		return actuator.NewLog(log)
	}
	proto := actuator.Protocol{
		Device:    viper.GetString("ir.device"),
		Bits:      viper.GetInt("ir.bits"),
		Header:    viper.GetIntSlice("ir.header"),
		One:       viper.GetIntSlice("ir.one"),
		Zero:      viper.GetIntSlice("ir.zero"),
		PTrail:    viper.GetInt("ir.ptrail"),
		Gap:       viper.GetInt("ir.gap"),
		Frequency: viper.GetInt("ir.frequency"),
	}
	codes := make(map[string]uint32)
	for name := range viper.GetStringMap("ir.codes") {
		codes[name] = uint32(viper.GetInt64("ir.codes." + name))
	}
	return actuator.NewLIRC(proto, codes, log)
}

// waitForShutdown listens for termination signals and stops the loop.
func waitForShutdown(cancel context.CancelFunc, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down hub...")
	cancel()

	// give the loop a moment to finish the current pass
	time.Sleep(100 * time.Millisecond)
}
