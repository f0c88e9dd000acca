package descriptors

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"io"
)

type CameraTerminalControlSelector int

const (
	CameraTerminalControlSelectorUndefined           CameraTerminalControlSelector = 0x00
	CameraTerminalControlSelectorZoomAbsoluteControl CameraTerminalControlSelector = 0x0B
	CameraTerminalControlSelectorZoomRelativeControl CameraTerminalControlSelector = 0x0C
)

// CameraTerminalControlDescriptor is a control request addressed to the
// camera input terminal. Value selects the control, FeatureBit is its
// position in the terminal's bmControls bitmask (UVC spec 1.5, table 3-6).
type CameraTerminalControlDescriptor interface {
	Value() CameraTerminalControlSelector
	FeatureBit() int
	MarshalSize() int
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// Control Request for Zoom (Absolute) as defined in UVC spec 1.5, 4.2.2.1.11
type ZoomAbsoluteControl struct {
	ObjectiveFocalLength uint16
}

func (zac *ZoomAbsoluteControl) Value() CameraTerminalControlSelector {
	return CameraTerminalControlSelectorZoomAbsoluteControl
}

func (zac *ZoomAbsoluteControl) FeatureBit() int {
	return 9
}

func (zac *ZoomAbsoluteControl) MarshalSize() int {
	return 2
}

func (zac *ZoomAbsoluteControl) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, zac.ObjectiveFocalLength)
	return buf, nil
}

func (zac *ZoomAbsoluteControl) UnmarshalBinary(buf []byte) error {
	if len(buf) < 2 {
		return io.ErrShortBuffer
	}
	zac.ObjectiveFocalLength = binary.LittleEndian.Uint16(buf)
	return nil
}

// Control Request for Zoom (Relative) as defined in UVC spec 1.5, 4.2.2.1.12.
// Zoom is the direction (-1 wide, 0 stop, 1 tele), DigitalZoom enables the
// digital multiplier past the optical range, Speed is the movement rate.
type ZoomRelativeControl struct {
	Zoom        int8
	DigitalZoom uint8
	Speed       uint8
}

func (zrc *ZoomRelativeControl) Value() CameraTerminalControlSelector {
	return CameraTerminalControlSelectorZoomRelativeControl
}

func (zrc *ZoomRelativeControl) FeatureBit() int {
	return 10
}

func (zrc *ZoomRelativeControl) MarshalSize() int {
	return 3
}

func (zrc *ZoomRelativeControl) MarshalBinary() ([]byte, error) {
	return []byte{byte(zrc.Zoom), zrc.DigitalZoom, zrc.Speed}, nil
}

func (zrc *ZoomRelativeControl) UnmarshalBinary(buf []byte) error {
	if len(buf) < 3 {
		return io.ErrShortBuffer
	}
	zrc.Zoom = int8(buf[0])
	zrc.DigitalZoom = buf[1]
	zrc.Speed = buf[2]
	return nil
}

func (zrc ZoomRelativeControl) String() string {
	return fmt.Sprintf("zoom_rel: %d, digital_zoom: %d, speed: %d", zrc.Zoom, zrc.DigitalZoom, zrc.Speed)
}
