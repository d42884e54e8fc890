package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/roffe/goobd"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var rootCmd = &cobra.Command{
	Use:          "obdtool",
	Short:        "ELM327 OBD-II swiss army tool",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	rootCmd.ExecuteContext(ctx)
}

const (
	flagTransport = "transport"
	flagPort      = "port"
	flagBaudrate  = "baudrate"
	flagHost      = "host"
	flagTCPPort   = "tcpport"
	flagProtocol  = "protocol"
	flagDebug     = "debug"
	flagImperial  = "imperial"
	flagConfig    = "config"
)

func init() {
	log.SetFlags(log.Lshortfile | log.LstdFlags)

	pf := rootCmd.PersistentFlags()
	pf.StringP(flagTransport, "t", "serial", "transport: serial, tcp, ble or mock")
	pf.StringP(flagPort, "p", "", "com-port of the adapter")
	pf.IntP(flagBaudrate, "b", 38400, "baudrate")
	pf.String(flagHost, "192.168.0.10", "WiFi adapter host")
	pf.Int(flagTCPPort, 35000, "WiFi adapter port")
	pf.StringP(flagProtocol, "P", "", "preferred protocol digit 1-9, empty for auto")
	pf.BoolP(flagDebug, "d", false, "debug mode")
	pf.Bool(flagImperial, false, "imperial units")
	pf.StringP(flagConfig, "c", "", "yaml config file")
}

// fileConfig mirrors the flag set for people who would rather keep the
// adapter setup in a file.
type fileConfig struct {
	Transport string `yaml:"transport"`
	Port      string `yaml:"port"`
	Baudrate  int    `yaml:"baudrate"`
	Host      string `yaml:"host"`
	TCPPort   int    `yaml:"tcpport"`
	Protocol  string `yaml:"protocol"`
	Imperial  bool   `yaml:"imperial"`
}

func buildConfig(cmd *cobra.Command) (string, *goobd.Config, error) {
	pf := cmd.Flags()
	transportName, _ := pf.GetString(flagTransport)

	cfg := goobd.DefaultConfig()
	cfg.Port, _ = pf.GetString(flagPort)
	cfg.PortBaudrate, _ = pf.GetInt(flagBaudrate)
	cfg.Host, _ = pf.GetString(flagHost)
	cfg.TCPPort, _ = pf.GetInt(flagTCPPort)
	cfg.Debug, _ = pf.GetBool(flagDebug)
	if imperial, _ := pf.GetBool(flagImperial); imperial {
		cfg.Units = goobd.UnitImperial
	}
	if pf.Lookup("interval") != nil {
		cfg.PollInterval, _ = pf.GetDuration("interval")
	}
	if pf.Lookup("adaptive") != nil {
		cfg.AdaptivePolling, _ = pf.GetBool("adaptive")
	}
	protoDigit, _ := pf.GetString(flagProtocol)

	if path, _ := pf.GetString(flagConfig); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", nil, err
		}
		var fc fileConfig
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return "", nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if fc.Transport != "" {
			transportName = fc.Transport
		}
		if fc.Port != "" {
			cfg.Port = fc.Port
		}
		if fc.Baudrate != 0 {
			cfg.PortBaudrate = fc.Baudrate
		}
		if fc.Host != "" {
			cfg.Host = fc.Host
		}
		if fc.TCPPort != 0 {
			cfg.TCPPort = fc.TCPPort
		}
		if fc.Protocol != "" {
			protoDigit = fc.Protocol
		}
		if fc.Imperial {
			cfg.Units = goobd.UnitImperial
		}
	}

	if protoDigit != "" {
		p, err := goobd.ProtocolFromELM(protoDigit)
		if err != nil {
			return "", nil, err
		}
		cfg.Protocol = p
	}
	cfg.OnMessage = func(msg string) {
		log.Println(msg)
	}
	return transportName, cfg, nil
}

func connect(cmd *cobra.Command) (*goobd.Client, error) {
	transportName, cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	transport, err := goobd.NewTransport(transportName, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("connecting via %s", transport.Name())
	start := time.Now()
	client, err := goobd.Connect(cmd.Context(), transport, cfg)
	if err != nil {
		return nil, err
	}
	info := client.Info()
	log.Printf("connected in %s, protocol: %s, adapter: %s", time.Since(start).Round(time.Millisecond), info.Protocol, info.Version)
	return client, nil
}
