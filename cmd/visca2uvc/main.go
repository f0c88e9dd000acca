package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	visca2uvc "github.com/uvc-tools/visca2uvc"
	"github.com/uvc-tools/visca2uvc/pkg/config"
)

func main() {
	backendName := flag.String("backend", "", `usb transport: "gousb" (libusb) or "native" (pure Go)`)
	cfgPath := flag.String("config", defaultConfigPath, "path to an optional YAML defaults file")
	vid := flag.Uint("vid", 0, "vendor id filter (0 matches any)")
	pid := flag.Uint("pid", 0, "product id filter (0 matches any)")
	serial := flag.String("serial", "", "serial number filter")
	flag.Parse()

	opt := visca2uvc.Options{Stdout: os.Stdout, Stderr: os.Stderr}
	if cfg := loadConfig(*cfgPath); cfg != nil {
		opt.VendorID = cfg.VendorID
		opt.ProductID = cfg.ProductID
		opt.Serial = cfg.Serial
		if *backendName == "" {
			*backendName = cfg.Backend
		}
	}
	if *vid > 0xFFFF || *pid > 0xFFFF {
		log.Fatalf("vendor/product ids are 16 bit, got %04x:%04x", *vid, *pid)
	}
	if *vid != 0 {
		opt.VendorID = uint16(*vid)
	}
	if *pid != 0 {
		opt.ProductID = uint16(*pid)
	}
	if *serial != "" {
		opt.Serial = *serial
	}

	backend, err := newBackend(*backendName)
	if err != nil {
		log.Fatal(err)
	}
	opt.Backend = backend

	args := append([]string{os.Args[0]}, flag.Args()...)
	if err := visca2uvc.Run(args, opt); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const defaultConfigPath = "visca2uvc.yaml"

// loadConfig reads the defaults file. A missing file at the default path is
// fine; any problem with an explicitly given path is fatal.
func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		if path == defaultConfigPath && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		log.Fatalf("load config failed: %v", err)
	}
	return cfg
}

func newBackend(name string) (visca2uvc.Backend, error) {
	switch name {
	case "", "gousb":
		return visca2uvc.GousbBackend{}, nil
	case "native":
		return visca2uvc.NativeBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want gousb or native)", name)
	}
}
