package visca2uvc

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/gousb"
)

// GousbBackend is the libusb-backed transport. Enumeration runs the
// OpenDevices opener as a pure visitor (it never returns true during a find),
// so FindDevice leaves nothing open; the ref re-locates its device by bus and
// address when Open is finally called.
type GousbBackend struct{}

func (GousbBackend) Init() (sess Session, err error) {
	// gousb panics when libusb cannot initialize; fold that into the error
	// channel like every other session failure.
	defer func() {
		if r := recover(); r != nil {
			sess = nil
			err = fmt.Errorf("libusb: %v", r)
		}
	}()
	return &gousbSession{ctx: gousb.NewContext()}, nil
}

type gousbSession struct {
	ctx *gousb.Context
}

func (s *gousbSession) Close() error {
	return s.ctx.Close()
}

func (s *gousbSession) FindDevice(vendorID, productID uint16, serial string) (DeviceRef, error) {
	var candidates []*gousb.DeviceDesc
	if _, err := s.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if matchesFilter(desc, vendorID, productID) {
			candidates = append(candidates, desc)
		}
		return false
	}); err != nil {
		return nil, err
	}
	if serial == "" {
		if len(candidates) == 0 {
			return nil, errors.New("no matching UVC device found")
		}
		return &gousbDevice{ctx: s.ctx, desc: candidates[0]}, nil
	}
	// Serial strings live behind an open handle. Probe each candidate
	// open-read-close so the returned ref is still unopened.
	for _, desc := range candidates {
		sn, err := s.probeSerial(desc)
		if err != nil {
			continue
		}
		if sn == serial {
			return &gousbDevice{ctx: s.ctx, desc: desc}, nil
		}
	}
	return nil, fmt.Errorf("no device with serial %q found", serial)
}

func (s *gousbSession) probeSerial(desc *gousb.DeviceDesc) (string, error) {
	dev, err := openByLocation(s.ctx, desc)
	if err != nil {
		return "", err
	}
	defer dev.Close()
	return dev.SerialNumber()
}

func matchesFilter(desc *gousb.DeviceDesc, vendorID, productID uint16) bool {
	if vendorID != 0 && desc.Vendor != gousb.ID(vendorID) {
		return false
	}
	if productID != 0 && desc.Product != gousb.ID(productID) {
		return false
	}
	if vendorID != 0 || productID != 0 {
		return true
	}
	// No filter: only devices exposing a video control interface qualify.
	return hasVideoControl(desc)
}

func hasVideoControl(desc *gousb.DeviceDesc) bool {
	for _, cfg := range desc.Configs {
		for _, intf := range cfg.Interfaces {
			for _, alt := range intf.AltSettings {
				if alt.Class == gousb.ClassVideo && alt.SubClass == 1 {
					return true
				}
			}
		}
	}
	return false
}

// openByLocation re-enumerates and opens the single device sitting at the
// desc's bus and address. Bus positions are stable across enumerations as
// long as the device stays plugged in.
func openByLocation(ctx *gousb.Context, desc *gousb.DeviceDesc) (*gousb.Device, error) {
	devs, err := ctx.OpenDevices(func(d *gousb.DeviceDesc) bool {
		return d.Bus == desc.Bus && d.Address == desc.Address
	})
	if len(devs) == 0 {
		if err != nil {
			return nil, err
		}
		return nil, errors.New("device disappeared")
	}
	for _, extra := range devs[1:] {
		extra.Close()
	}
	return devs[0], nil
}

type gousbDevice struct {
	ctx  *gousb.Context
	desc *gousb.DeviceDesc
}

func (d *gousbDevice) Open() (ControlHandle, error) {
	dev, err := openByLocation(d.ctx, d.desc)
	if err != nil {
		return nil, err
	}
	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		return nil, err
	}
	return &gousbHandle{dev: dev}, nil
}

func (d *gousbDevice) Release() error {
	// The desc holds no transport resources.
	return nil
}

type gousbHandle struct {
	dev *gousb.Device
}

func (h *gousbHandle) Control(requestType, request uint8, value, index uint16, data []byte) (int, error) {
	return h.dev.Control(requestType, request, value, index, data)
}

func (h *gousbHandle) Summary(w io.Writer) {
	desc := h.dev.Desc
	fmt.Fprintf(w, "Device %04x:%04x (bus %d, addr %d)\n",
		uint16(desc.Vendor), uint16(desc.Product), desc.Bus, desc.Address)
	if m, err := h.dev.Manufacturer(); err == nil && m != "" {
		fmt.Fprintf(w, "  Manufacturer: %s\n", m)
	}
	if p, err := h.dev.Product(); err == nil && p != "" {
		fmt.Fprintf(w, "  Product: %s\n", p)
	}
	if sn, err := h.dev.SerialNumber(); err == nil && sn != "" {
		fmt.Fprintf(w, "  Serial: %s\n", sn)
	}
}

func (h *gousbHandle) Close() error {
	return h.dev.Close()
}
