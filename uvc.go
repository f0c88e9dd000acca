// Package visca2uvc drives the optical zoom of a UVC camera over the USB
// control pipe. The resource model is a strict chain: a Context owns the
// transport session, a Device owns one unopened device reference, a
// DeviceHandle owns one open control session. Each layer is closed
// independently and exactly once, in reverse order of acquisition, on every
// exit path.
package visca2uvc

import (
	"errors"
	"fmt"

	"github.com/uvc-tools/visca2uvc/pkg/descriptors"
	"github.com/uvc-tools/visca2uvc/pkg/requests"
)

// Context owns the transport's process-wide session.
type Context struct {
	sess   Session
	closed bool
}

// NewContext initializes the transport session. A failure surfaces as a
// ControlError with operation "init".
func NewContext(b Backend) (*Context, error) {
	sess, err := b.Init()
	if err != nil {
		return nil, &ControlError{Op: "init", Err: err}
	}
	return &Context{sess: sess}, nil
}

// FindDevice locates the first device matching the filter. Zero IDs and an
// empty serial match any UVC device. The device is not opened.
func (c *Context) FindDevice(vendorID, productID uint16, serial string) (*Device, error) {
	ref, err := c.sess.FindDevice(vendorID, productID, serial)
	if err != nil {
		return nil, &ControlError{Op: "find_device", Err: err}
	}
	return &Device{ref: ref}, nil
}

// Close tears the session down. Safe to call whether or not FindDevice ever
// ran or succeeded; repeated calls are no-ops.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.sess.Close()
}

// Device is an unopened device reference produced by FindDevice.
type Device struct {
	ref    DeviceRef
	closed bool
}

// Open establishes the control session and locates the camera terminal the
// zoom requests are addressed to. A device without a camera input terminal
// fails here.
func (d *Device) Open() (*DeviceHandle, error) {
	h, err := d.ref.Open()
	if err != nil {
		return nil, &ControlError{Op: "open", Err: err}
	}
	hd, err := newDeviceHandle(h)
	if err != nil {
		h.Close()
		return nil, &ControlError{Op: "open", Err: err}
	}
	return hd, nil
}

// Close releases the device reference. It does not close a handle already
// derived from it; repeated calls are no-ops.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.ref.Release()
}

// DeviceHandle is an open control session with the camera.
type DeviceHandle struct {
	h      ControlHandle
	ifnum  uint8
	camera *descriptors.CameraTerminalDescriptor
	header *descriptors.HeaderDescriptor
	units  []descriptors.ControlInterface
	closed bool
}

func newDeviceHandle(h ControlHandle) (*DeviceHandle, error) {
	raw, err := readConfigDescriptor(h)
	if err != nil {
		return nil, fmt.Errorf("read config descriptor: %w", err)
	}
	vc, err := descriptors.ParseVideoControl(raw)
	if err != nil {
		return nil, err
	}
	if vc.CameraTerminal == nil {
		return nil, errors.New("no camera input terminal")
	}
	return &DeviceHandle{
		h:      h,
		ifnum:  vc.InterfaceNumber,
		camera: vc.CameraTerminal,
		header: vc.Header,
		units:  vc.Units,
	}, nil
}

// roundTrip issues one control transfer against the camera terminal and
// folds any transport failure into a ControlError carrying op. All four zoom
// operations reduce to this one shape: wValue selects the control, wIndex
// addresses terminal and interface (UVC spec 1.5, 4.2.2).
func (h *DeviceHandle) roundTrip(op string, rt requests.RequestType, code requests.RequestCode, sel descriptors.CameraTerminalControlSelector, buf []byte) error {
	wValue := uint16(sel) << 8
	wIndex := uint16(h.camera.TerminalID)<<8 | uint16(h.ifnum)
	if _, err := h.h.Control(uint8(rt), uint8(code), wValue, wIndex, buf); err != nil {
		return &ControlError{Op: op, Err: err}
	}
	return nil
}

func (h *DeviceHandle) getControl(op string, code requests.RequestCode, ctrl descriptors.CameraTerminalControlDescriptor) error {
	buf := make([]byte, ctrl.MarshalSize())
	if err := h.roundTrip(op, requests.RequestTypeVideoInterfaceGetRequest, code, ctrl.Value(), buf); err != nil {
		return err
	}
	if err := ctrl.UnmarshalBinary(buf); err != nil {
		return &ControlError{Op: op, Err: err}
	}
	return nil
}

func (h *DeviceHandle) setControl(op string, ctrl descriptors.CameraTerminalControlDescriptor) error {
	buf, err := ctrl.MarshalBinary()
	if err != nil {
		return &ControlError{Op: op, Err: err}
	}
	return h.roundTrip(op, requests.RequestTypeVideoInterfaceSetRequest, requests.RequestCodeSetCur, ctrl.Value(), buf)
}

// GetZoomAbsolute queries the minimum, maximum or current absolute zoom,
// selected by code.
func (h *DeviceHandle) GetZoomAbsolute(code requests.RequestCode) (uint16, error) {
	ctrl := &descriptors.ZoomAbsoluteControl{}
	if err := h.getControl("get_zoom_abs", code, ctrl); err != nil {
		return 0, err
	}
	return ctrl.ObjectiveFocalLength, nil
}

// SetZoomAbsolute commands a move to the given focal length. There is no
// client-side range check; the device rejects out-of-range values.
func (h *DeviceHandle) SetZoomAbsolute(focalLength uint16) error {
	return h.setControl("set_zoom_abs", &descriptors.ZoomAbsoluteControl{ObjectiveFocalLength: focalLength})
}

// GetZoomRelative queries the relative zoom triple selected by code.
func (h *DeviceHandle) GetZoomRelative(code requests.RequestCode) (descriptors.ZoomRelativeControl, error) {
	ctrl := &descriptors.ZoomRelativeControl{}
	if err := h.getControl("get_zoom_rel", code, ctrl); err != nil {
		return descriptors.ZoomRelativeControl{}, err
	}
	return *ctrl, nil
}

// SetZoomRelative commands a relative move or stop.
func (h *DeviceHandle) SetZoomRelative(zoom descriptors.ZoomRelativeControl) error {
	return h.setControl("set_zoom_rel", &zoom)
}

// SupportsControl reports whether the camera terminal advertises the control.
// Informational only; the operations always go to the wire.
func (h *DeviceHandle) SupportsControl(ctrl descriptors.CameraTerminalControlDescriptor) bool {
	return h.camera.SupportsControl(ctrl)
}

// Close closes the control session. Repeated calls are no-ops.
func (h *DeviceHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.h.Close()
}
