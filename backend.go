package visca2uvc

import (
	"encoding/binary"
	"io"
)

// Backend is the USB transport seam. The ownership chain (Context, Device,
// DeviceHandle) drives these four interfaces and never touches a USB stack
// directly, so a counting mock can stand in for the whole transport in tests.
type Backend interface {
	// Init starts the transport's process-wide session.
	Init() (Session, error)
}

// Session is one live transport session. FindDevice locates the first device
// matching the filter without opening it; zero vendor/product IDs and an
// empty serial match any UVC device.
type Session interface {
	FindDevice(vendorID, productID uint16, serial string) (DeviceRef, error)
	Close() error
}

// DeviceRef is an unopened reference to one device. Release must be safe
// whether or not Open was ever called; it never closes a handle already
// produced by Open.
type DeviceRef interface {
	Open() (ControlHandle, error)
	Release() error
}

// ControlHandle is an open control session with one device.
type ControlHandle interface {
	// Control issues a synchronous control transfer and blocks until the
	// device answers or the transport reports a failure.
	Control(requestType, request uint8, value, index uint16, data []byte) (int, error)
	// Summary writes the transport's device identity lines (IDs, strings)
	// for the diagnostics dump. Best effort.
	Summary(w io.Writer)
	Close() error
}

// DefaultBackend is the transport used when the caller does not pick one.
func DefaultBackend() Backend {
	return GousbBackend{}
}

// Standard request constants from the USB 2.0 spec, section 9.4, used to pull
// the raw configuration descriptor through the control pipe.
const (
	requestTypeStandardDeviceIn = 0x80
	requestGetDescriptor        = 0x06
	descriptorTypeConfiguration = 0x02
)

// readConfigDescriptor fetches the full active configuration descriptor,
// including the class-specific blocks the UVC parse needs. Neither transport
// hands those out parsed, so the bytes come straight from a GET_DESCRIPTOR
// round trip: a 9-byte header first for wTotalLength, then the whole thing.
func readConfigDescriptor(h ControlHandle) ([]byte, error) {
	hdr := make([]byte, 9)
	if _, err := h.Control(requestTypeStandardDeviceIn, requestGetDescriptor,
		descriptorTypeConfiguration<<8, 0, hdr); err != nil {
		return nil, err
	}
	total := binary.LittleEndian.Uint16(hdr[2:4])
	if total < 9 {
		return nil, io.ErrShortBuffer
	}
	buf := make([]byte, total)
	if _, err := h.Control(requestTypeStandardDeviceIn, requestGetDescriptor,
		descriptorTypeConfiguration<<8, 0, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
