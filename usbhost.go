package visca2uvc

import (
	"errors"
	"fmt"
	"io"

	usb "github.com/kevmo314/go-usb"
)

// NativeBackend is the pure-Go host transport. It enumerates through sysfs,
// so the serial filter is free (no open needed), but the device descriptor is
// the only class information available before opening; the camera terminal
// check still happens at open time like everywhere else.
type NativeBackend struct{}

func (NativeBackend) Init() (Session, error) {
	return &nativeSession{}, nil
}

type nativeSession struct{}

func (*nativeSession) Close() error {
	return nil
}

func (*nativeSession) FindDevice(vendorID, productID uint16, serial string) (DeviceRef, error) {
	devices, err := usb.DeviceList()
	if err != nil {
		return nil, err
	}
	for _, dev := range devices {
		if vendorID != 0 && uint16(dev.Descriptor.VendorID) != vendorID {
			continue
		}
		if productID != 0 && uint16(dev.Descriptor.ProductID) != productID {
			continue
		}
		if serial != "" && (dev.SysfsStrings == nil || dev.SysfsStrings.Serial != serial) {
			continue
		}
		if vendorID == 0 && productID == 0 && !likelyCamera(uint8(dev.Descriptor.DeviceClass)) {
			continue
		}
		return &nativeDevice{dev: dev}, nil
	}
	return nil, errors.New("no matching UVC device found")
}

// likelyCamera filters by device class: 0x0E is video on the device
// descriptor, 0xEF is miscellaneous/interface-association, which is how
// most webcams present themselves.
func likelyCamera(class uint8) bool {
	return class == 0x0E || class == 0xEF
}

type nativeDevice struct {
	dev *usb.Device
}

func (d *nativeDevice) Open() (ControlHandle, error) {
	h, err := d.dev.Open()
	if err != nil {
		return nil, err
	}
	return &nativeHandle{dev: d.dev, h: h}, nil
}

func (d *nativeDevice) Release() error {
	// Enumeration entries hold no transport resources.
	return nil
}

type nativeHandle struct {
	dev *usb.Device
	h   usb.DeviceHandleInterface
}

func (n *nativeHandle) Control(requestType, request uint8, value, index uint16, data []byte) (int, error) {
	// Timeout 0 means block until the transfer completes, matching libusb.
	return n.h.ControlTransfer(requestType, request, value, index, data, 0)
}

func (n *nativeHandle) Summary(w io.Writer) {
	d := n.dev.Descriptor
	fmt.Fprintf(w, "Device %04x:%04x (%s)\n", uint16(d.VendorID), uint16(d.ProductID), n.dev.Path)
	if s := n.dev.SysfsStrings; s != nil {
		if s.Manufacturer != "" {
			fmt.Fprintf(w, "  Manufacturer: %s\n", s.Manufacturer)
		}
		if s.Product != "" {
			fmt.Fprintf(w, "  Product: %s\n", s.Product)
		}
		if s.Serial != "" {
			fmt.Fprintf(w, "  Serial: %s\n", s.Serial)
		}
	}
}

func (n *nativeHandle) Close() error {
	return n.h.Close()
}
