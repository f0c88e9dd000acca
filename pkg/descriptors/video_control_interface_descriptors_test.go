package descriptors

import (
	"errors"
	"testing"
)

// testConfigDescriptor assembles a two-interface configuration: a video
// control interface with header, camera terminal, processing unit and output
// terminal, followed by a streaming interface whose class-specific blocks
// must not leak into the control parse.
func testConfigDescriptor() []byte {
	var buf []byte
	// configuration descriptor header
	buf = append(buf, 9, 0x02, 0x00, 0x00, 2, 1, 0, 0x80, 50)
	// interface association descriptor, walked over but not parsed
	buf = append(buf, 8, 0x0B, 0, 2, 14, 3, 0, 0)
	// video control interface, class 0x0E subclass 0x01
	buf = append(buf, 9, 0x04, 0, 0, 1, 14, 1, 0, 0)
	// class-specific header, bcdUVC 1.50, one streaming interface
	buf = append(buf, 13, 0x24, 0x01, 0x50, 0x01, 0x42, 0x00, 0x80, 0x8D, 0x5B, 0x00, 1, 1)
	// camera input terminal, ID 1, focal range 10..500, zoom abs+rel bits set
	buf = append(buf, 18, 0x24, 0x02, 1, 0x01, 0x02, 0, 0,
		0x0A, 0x00, 0xF4, 0x01, 0x00, 0x00, 3, 0x00, 0x06, 0x00)
	// processing unit, ID 2
	buf = append(buf, 12, 0x24, 0x05, 2, 1, 0x00, 0x00, 3, 0x7F, 0x14, 0x00, 0)
	// encoding unit: subtype has no parser, must be skipped
	buf = append(buf, 7, 0x24, 0x07, 9, 1, 0, 0)
	// output terminal, ID 4, streaming type 0x0101
	buf = append(buf, 9, 0x24, 0x03, 4, 0x01, 0x01, 0, 1, 0)
	// streaming interface, class 0x0E subclass 0x02
	buf = append(buf, 9, 0x04, 1, 0, 1, 14, 2, 0, 0)
	// class-specific streaming block, must be ignored
	buf = append(buf, 14, 0x24, 0x01, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	return buf
}

func TestParseVideoControl(t *testing.T) {
	vc, err := ParseVideoControl(testConfigDescriptor())
	if err != nil {
		t.Fatalf("ParseVideoControl failed: %v", err)
	}
	if vc.InterfaceNumber != 0 {
		t.Errorf("InterfaceNumber = %d, want 0", vc.InterfaceNumber)
	}
	if vc.Header == nil {
		t.Fatal("header descriptor not found")
	}
	if got := vc.Header.UVCVersionString(); got != "1.50" {
		t.Errorf("UVC version = %q, want %q", got, "1.50")
	}
	if vc.Header.ClockFrequency != 6000000 {
		t.Errorf("ClockFrequency = %d, want 6000000", vc.Header.ClockFrequency)
	}
	if vc.CameraTerminal == nil {
		t.Fatal("camera terminal not found")
	}
	if vc.CameraTerminal.TerminalID != 1 {
		t.Errorf("TerminalID = %d, want 1", vc.CameraTerminal.TerminalID)
	}
	if vc.CameraTerminal.ObjectiveFocalLengthMin != 10 || vc.CameraTerminal.ObjectiveFocalLengthMax != 500 {
		t.Errorf("focal range = %d..%d, want 10..500",
			vc.CameraTerminal.ObjectiveFocalLengthMin, vc.CameraTerminal.ObjectiveFocalLengthMax)
	}
	if !vc.CameraTerminal.SupportsControl(&ZoomAbsoluteControl{}) {
		t.Error("zoom absolute should be supported")
	}
	if !vc.CameraTerminal.SupportsControl(&ZoomRelativeControl{}) {
		t.Error("zoom relative should be supported")
	}
	if vc.CameraTerminal.SupportsControl(&fakeControl{bit: 17}) {
		t.Error("focus auto bit should not be set")
	}
	// header, camera terminal, processing unit, output terminal
	if len(vc.Units) != 4 {
		t.Errorf("len(Units) = %d, want 4", len(vc.Units))
	}
	if _, ok := vc.Units[2].(*ProcessingUnitDescriptor); !ok {
		t.Errorf("Units[2] = %T, want *ProcessingUnitDescriptor", vc.Units[2])
	}
}

func TestParseVideoControl_NoControlInterface(t *testing.T) {
	buf := []byte{
		9, 0x02, 0x00, 0x00, 1, 1, 0, 0x80, 50,
		9, 0x04, 0, 0, 1, 3, 0, 0, 0, // HID interface
	}
	if _, err := ParseVideoControl(buf); err == nil {
		t.Fatal("expected an error for a descriptor without a video control interface")
	}
}

func TestParseVideoControl_Truncated(t *testing.T) {
	buf := testConfigDescriptor()
	if _, err := ParseVideoControl(buf[:len(buf)-3]); !errors.Is(err, ErrInvalidDescriptor) {
		t.Fatalf("err = %v, want ErrInvalidDescriptor", err)
	}
}

func TestUnmarshalControlInterface_CameraTerminal(t *testing.T) {
	block := []byte{17, 0x24, 0x02, 3, 0x01, 0x02, 0, 0,
		0x00, 0x00, 0x64, 0x00, 0x00, 0x00, 2, 0x00, 0x06}
	ci, err := UnmarshalControlInterface(block)
	if err != nil {
		t.Fatalf("UnmarshalControlInterface failed: %v", err)
	}
	ctd, ok := ci.(*CameraTerminalDescriptor)
	if !ok {
		t.Fatalf("got %T, want *CameraTerminalDescriptor", ci)
	}
	if ctd.TerminalID != 3 {
		t.Errorf("TerminalID = %d, want 3", ctd.TerminalID)
	}
	// two-byte bmControls still decodes the zoom bits
	if !ctd.SupportsControl(&ZoomAbsoluteControl{}) || !ctd.SupportsControl(&ZoomRelativeControl{}) {
		t.Error("zoom bits should decode from a 2-byte bmControls")
	}
}

func TestUnmarshalControlInterface_NonCameraInputTerminal(t *testing.T) {
	block := []byte{8, 0x24, 0x02, 5, 0x02, 0x02, 0, 0} // media transport input
	ci, err := UnmarshalControlInterface(block)
	if err != nil {
		t.Fatalf("UnmarshalControlInterface failed: %v", err)
	}
	if _, ok := ci.(*InputTerminalDescriptor); !ok {
		t.Fatalf("got %T, want *InputTerminalDescriptor", ci)
	}
}

type fakeControl struct{ bit int }

func (f *fakeControl) Value() CameraTerminalControlSelector { return CameraTerminalControlSelectorUndefined }
func (f *fakeControl) FeatureBit() int                      { return f.bit }
func (f *fakeControl) MarshalSize() int                     { return 0 }
func (f *fakeControl) MarshalBinary() ([]byte, error)       { return nil, nil }
func (f *fakeControl) UnmarshalBinary([]byte) error         { return nil }
