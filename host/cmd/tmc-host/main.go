package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"

	"tmc2209/host/config"
	"tmc2209/host/monitor"
	"tmc2209/host/pins"
	"tmc2209/host/serial"
	"tmc2209/host/shell"
	"tmc2209/tmc"
	"tmc2209/tmc/tmctest"
)

var (
	configPath = flag.String("config", "", "JSON configuration file")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	baud       = flag.Int("baud", 0, "Baud rate (overrides config)")
	slave      = flag.Uint("slave", 0, "Slave address 0-3 (overrides config)")
	async      = flag.Bool("async", false, "Use the goroutine-backed line binding")
	sim        = flag.Bool("sim", false, "Talk to a simulated chip instead of a serial port")
	evalOnly   = flag.Bool("e", false, "Run the remaining arguments as commands and exit")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			return nil, err
		}
	}

	// Explicit flags win over the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Device = *device
		case "baud":
			cfg.Baud = *baud
		case "slave":
			cfg.Slave = uint8(*slave)
		case "async":
			cfg.Async = *async
		}
	})
	if *slave > 3 {
		return nil, fmt.Errorf("slave address %d out of range 0-3", *slave)
	}
	return cfg, cfg.Validate()
}

func openPort(cfg *config.Config) (serial.Port, error) {
	if *sim {
		glog.Infof("using simulated chip at slave %d", cfg.Slave)
		return serial.NopFlush(tmctest.NewChip(cfg.Slave)), nil
	}
	return serial.Open(cfg.Serial())
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	port, err := openPort(cfg)
	if err != nil {
		return err
	}

	var line tmc.Line
	if cfg.Async {
		al := tmc.NewAsyncLine(port)
		defer al.Close()
		line = tmc.WithTimeout(al, cfg.Timeout())
	} else {
		defer port.Close()
		line = tmc.NewStreamLine(port)
	}
	driver := tmc.New(line, cfg.Slave)

	ctx := context.Background()
	if !driver.IsConnected(ctx) {
		return fmt.Errorf("no TMC2209 answering at slave %d on %s", cfg.Slave, cfg.Device)
	}
	glog.Infof("connected to slave %d on %s", cfg.Slave, cfg.Device)

	if setup, ok := cfg.DriverSetup(); ok {
		if err := driver.Apply(ctx, setup); err != nil {
			return fmt.Errorf("failed to apply setup: %w", err)
		}
		glog.Infof("applied setup: %+v", setup)
	}

	sh := shell.New(driver)
	sh.Rsense = cfg.Rsense
	if !cfg.Async {
		// The async binding owns every byte the port delivers
		sh.Sniffer = port
	}

	if cfg.Pins != nil {
		p, err := pins.Open(pins.Config{Chip: cfg.Pins.Chip, Enable: cfg.Pins.Enable, Diag: cfg.Pins.Diag})
		if err != nil {
			glog.Warningf("GPIO unavailable: %v", err)
		} else {
			defer p.Close()
			sh.Pins = p
		}
	}

	if cfg.MQTT != nil {
		sink, err := monitor.Dial(cfg.MQTT.Broker)
		if err != nil {
			return err
		}
		defer sink.Close()
		sh.Sink = sink
		sh.Topic = cfg.MQTT.Topic
		sh.Interval = time.Duration(cfg.MQTT.IntervalMs) * time.Millisecond
	}

	if *evalOnly {
		for _, cmd := range flag.Args() {
			if err := sh.Eval(ctx, cmd); err != nil {
				return fmt.Errorf("%s: %w", cmd, err)
			}
		}
		return nil
	}

	fmt.Println("TMC2209 Host - type 'help' for available commands, 'exit' to quit")
	sh.Run()
	return nil
}
