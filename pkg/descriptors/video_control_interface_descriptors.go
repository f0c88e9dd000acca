// Package descriptors implements the video control interface descriptors and
// the camera terminal control requests defined in the UVC spec 1.5, sections
// 3.7 and 4.2.
package descriptors

import (
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	ErrInvalidDescriptor     = errors.New("invalid descriptor")
	ErrUnsupportedDescriptor = errors.New("unsupported descriptor subtype")
)

type ControlInterface interface {
	encoding.BinaryUnmarshaler
	isControlInterface()
}

type VideoControlInterfaceDescriptorSubtype byte

const (
	VideoControlInterfaceDescriptorSubtypeUndefined      VideoControlInterfaceDescriptorSubtype = 0x00
	VideoControlInterfaceDescriptorSubtypeHeader         VideoControlInterfaceDescriptorSubtype = 0x01
	VideoControlInterfaceDescriptorSubtypeInputTerminal  VideoControlInterfaceDescriptorSubtype = 0x02
	VideoControlInterfaceDescriptorSubtypeOutputTerminal VideoControlInterfaceDescriptorSubtype = 0x03
	VideoControlInterfaceDescriptorSubtypeSelectorUnit   VideoControlInterfaceDescriptorSubtype = 0x04
	VideoControlInterfaceDescriptorSubtypeProcessingUnit VideoControlInterfaceDescriptorSubtype = 0x05
	VideoControlInterfaceDescriptorSubtypeExtensionUnit  VideoControlInterfaceDescriptorSubtype = 0x06
	VideoControlInterfaceDescriptorSubtypeEncodingUnit   VideoControlInterfaceDescriptorSubtype = 0x07
)

type InputTerminalType uint16

const (
	InputTerminalTypeVendorSpecific      InputTerminalType = 0x0200
	InputTerminalTypeCamera              InputTerminalType = 0x0201
	InputTerminalTypeMediaTransportInput InputTerminalType = 0x0202
)

// UnmarshalControlInterface parses one class-specific (CS_INTERFACE) block of
// a video control interface. Input terminals of the camera type come back as
// *CameraTerminalDescriptor. Subtypes with no parser here return
// ErrUnsupportedDescriptor so callers can skip them.
func UnmarshalControlInterface(buf []byte) (ControlInterface, error) {
	if len(buf) < 3 {
		return nil, io.ErrShortBuffer
	}
	var desc ControlInterface
	switch VideoControlInterfaceDescriptorSubtype(buf[2]) {
	case VideoControlInterfaceDescriptorSubtypeHeader:
		desc = &HeaderDescriptor{}
	case VideoControlInterfaceDescriptorSubtypeInputTerminal:
		if len(buf) >= 6 && InputTerminalType(binary.LittleEndian.Uint16(buf[4:6])) == InputTerminalTypeCamera {
			desc = &CameraTerminalDescriptor{}
		} else {
			desc = &InputTerminalDescriptor{}
		}
	case VideoControlInterfaceDescriptorSubtypeOutputTerminal:
		desc = &OutputTerminalDescriptor{}
	case VideoControlInterfaceDescriptorSubtypeSelectorUnit:
		desc = &SelectorUnitDescriptor{}
	case VideoControlInterfaceDescriptorSubtypeProcessingUnit:
		desc = &ProcessingUnitDescriptor{}
	case VideoControlInterfaceDescriptorSubtypeExtensionUnit:
		desc = &ExtensionUnitDescriptor{}
	default:
		return nil, ErrUnsupportedDescriptor
	}
	return desc, desc.UnmarshalBinary(buf)
}

// HeaderDescriptor as defined in UVC spec 1.5, 3.7.2.1
type HeaderDescriptor struct {
	UVC                            uint16
	TotalLength                    uint16
	ClockFrequency                 uint32
	VideoStreamingInterfaceIndexes []uint8
}

func (hd *HeaderDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 12 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if ClassSpecificDescriptorType(buf[1]) != ClassSpecificDescriptorTypeInterface {
		return ErrInvalidDescriptor
	}
	if VideoControlInterfaceDescriptorSubtype(buf[2]) != VideoControlInterfaceDescriptorSubtypeHeader {
		return ErrInvalidDescriptor
	}
	hd.UVC = binary.LittleEndian.Uint16(buf[3:5])
	hd.TotalLength = binary.LittleEndian.Uint16(buf[5:7])
	hd.ClockFrequency = binary.LittleEndian.Uint32(buf[7:11])
	n := int(buf[11])
	if len(buf) < 12+n {
		return io.ErrShortBuffer
	}
	hd.VideoStreamingInterfaceIndexes = make([]uint8, n)
	copy(hd.VideoStreamingInterfaceIndexes, buf[12:12+n])
	return nil
}

func (hd *HeaderDescriptor) isControlInterface() {}

// UVCVersionString renders the binary-coded-decimal bcdUVC field, e.g. "1.50".
func (hd *HeaderDescriptor) UVCVersionString() string {
	return fmt.Sprintf("%x.%02x", hd.UVC>>8, hd.UVC&0xff)
}

// InputTerminalDescriptor as defined in UVC spec 1.5, 3.7.2.1
type InputTerminalDescriptor struct {
	TerminalID           uint8
	TerminalType         InputTerminalType
	AssociatedTerminalID uint8
	DescriptionIndex     uint8
}

func (itd *InputTerminalDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 8 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if ClassSpecificDescriptorType(buf[1]) != ClassSpecificDescriptorTypeInterface {
		return ErrInvalidDescriptor
	}
	if VideoControlInterfaceDescriptorSubtype(buf[2]) != VideoControlInterfaceDescriptorSubtypeInputTerminal {
		return ErrInvalidDescriptor
	}
	itd.TerminalID = buf[3]
	itd.TerminalType = InputTerminalType(binary.LittleEndian.Uint16(buf[4:6]))
	itd.AssociatedTerminalID = buf[6]
	itd.DescriptionIndex = buf[7]
	return nil
}

func (itd *InputTerminalDescriptor) isControlInterface() {}

// CameraTerminalDescriptor as defined in UVC spec 1.5, 3.7.2.3. The embedded
// InputTerminalDescriptor carries the terminal ID that control requests are
// addressed to.
type CameraTerminalDescriptor struct {
	InputTerminalDescriptor
	ObjectiveFocalLengthMin uint16
	ObjectiveFocalLengthMax uint16
	OcularFocalLength       uint16
	ControlsBitmask         uint32
}

func (ctd *CameraTerminalDescriptor) UnmarshalBinary(buf []byte) error {
	if err := ctd.InputTerminalDescriptor.UnmarshalBinary(buf); err != nil {
		return err
	}
	if ctd.TerminalType != InputTerminalTypeCamera {
		return ErrInvalidDescriptor
	}
	if len(buf) < 15 {
		return io.ErrShortBuffer
	}
	ctd.ObjectiveFocalLengthMin = binary.LittleEndian.Uint16(buf[8:10])
	ctd.ObjectiveFocalLengthMax = binary.LittleEndian.Uint16(buf[10:12])
	ctd.OcularFocalLength = binary.LittleEndian.Uint16(buf[12:14])
	// bControlSize at 14, bmControls is n bytes wide. Devices following UVC
	// 1.0 report fewer than 3 bytes. See UVC 1.5, table 3-6.
	n := int(buf[14])
	if len(buf) < 15+n {
		return io.ErrShortBuffer
	}
	ctd.ControlsBitmask = 0
	for i := 0; i < n && i < 4; i++ {
		ctd.ControlsBitmask |= uint32(buf[15+i]) << (8 * i)
	}
	return nil
}

// SupportsControl reports whether the terminal advertises the control in its
// bmControls bitmask. The device stays the authority: an unsupported control
// still goes to the wire and fails through the error channel.
func (ctd *CameraTerminalDescriptor) SupportsControl(desc CameraTerminalControlDescriptor) bool {
	return ctd.ControlsBitmask&(1<<desc.FeatureBit()) != 0
}

// OutputTerminalDescriptor as defined in UVC spec 1.5, 3.7.2.2
type OutputTerminalDescriptor struct {
	TerminalID           uint8
	TerminalType         uint16
	AssociatedTerminalID uint8
	SourceID             uint8
}

func (otd *OutputTerminalDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 8 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if ClassSpecificDescriptorType(buf[1]) != ClassSpecificDescriptorTypeInterface {
		return ErrInvalidDescriptor
	}
	if VideoControlInterfaceDescriptorSubtype(buf[2]) != VideoControlInterfaceDescriptorSubtypeOutputTerminal {
		return ErrInvalidDescriptor
	}
	otd.TerminalID = buf[3]
	otd.TerminalType = binary.LittleEndian.Uint16(buf[4:6])
	otd.AssociatedTerminalID = buf[6]
	otd.SourceID = buf[7]
	return nil
}

func (otd *OutputTerminalDescriptor) isControlInterface() {}

// SelectorUnitDescriptor as defined in UVC spec 1.5, 3.7.2.4
type SelectorUnitDescriptor struct {
	UnitID           uint8
	SourceIDs        []uint8
	DescriptionIndex uint8
}

func (sud *SelectorUnitDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 5 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if ClassSpecificDescriptorType(buf[1]) != ClassSpecificDescriptorTypeInterface {
		return ErrInvalidDescriptor
	}
	if VideoControlInterfaceDescriptorSubtype(buf[2]) != VideoControlInterfaceDescriptorSubtypeSelectorUnit {
		return ErrInvalidDescriptor
	}
	sud.UnitID = buf[3]
	p := int(buf[4])
	if len(buf) < 6+p {
		return io.ErrShortBuffer
	}
	sud.SourceIDs = make([]uint8, p)
	copy(sud.SourceIDs, buf[5:5+p])
	sud.DescriptionIndex = buf[5+p]
	return nil
}

func (sud *SelectorUnitDescriptor) isControlInterface() {}

// ProcessingUnitDescriptor as defined in UVC spec 1.5, 3.7.2.5
type ProcessingUnitDescriptor struct {
	UnitID          uint8
	SourceID        uint8
	MaxMultiplier   uint16
	ControlsBitmask []byte
}

func (pud *ProcessingUnitDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 8 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if ClassSpecificDescriptorType(buf[1]) != ClassSpecificDescriptorTypeInterface {
		return ErrInvalidDescriptor
	}
	if VideoControlInterfaceDescriptorSubtype(buf[2]) != VideoControlInterfaceDescriptorSubtypeProcessingUnit {
		return ErrInvalidDescriptor
	}
	pud.UnitID = buf[3]
	pud.SourceID = buf[4]
	pud.MaxMultiplier = binary.LittleEndian.Uint16(buf[5:7])
	n := int(buf[7])
	if len(buf) < 8+n {
		return io.ErrShortBuffer
	}
	pud.ControlsBitmask = make([]byte, n)
	copy(pud.ControlsBitmask, buf[8:8+n])
	return nil
}

func (pud *ProcessingUnitDescriptor) isControlInterface() {}

// ExtensionUnitDescriptor as defined in UVC spec 1.5, 3.7.2.7
type ExtensionUnitDescriptor struct {
	UnitID            uint8
	GUIDExtensionCode [16]byte
	NumControls       uint8
}

func (eud *ExtensionUnitDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 21 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if ClassSpecificDescriptorType(buf[1]) != ClassSpecificDescriptorTypeInterface {
		return ErrInvalidDescriptor
	}
	if VideoControlInterfaceDescriptorSubtype(buf[2]) != VideoControlInterfaceDescriptorSubtypeExtensionUnit {
		return ErrInvalidDescriptor
	}
	eud.UnitID = buf[3]
	copyGUID(eud.GUIDExtensionCode[:], buf[4:20])
	eud.NumControls = buf[20]
	return nil
}

func (eud *ExtensionUnitDescriptor) isControlInterface() {}

func copyGUID(dst []byte, src []byte) {
	// byte order per the GUID format defined in UVC spec 1.5, section 2.9
	dst[0], dst[1], dst[2], dst[3] = src[3], src[2], src[1], src[0]
	dst[4], dst[5] = src[5], src[4]
	dst[6], dst[7] = src[7], src[6]
	copy(dst[8:], src[8:16])
}

// VideoControlInterface is the parsed view of the first video control
// interface found in a configuration descriptor.
type VideoControlInterface struct {
	InterfaceNumber uint8
	Header          *HeaderDescriptor
	CameraTerminal  *CameraTerminalDescriptor
	Units           []ControlInterface
}

// ParseVideoControl walks a full configuration descriptor, locates the video
// control interface (class 0x0E, subclass 0x01) and parses its class-specific
// descriptor blocks. Blocks with unknown subtypes are skipped.
func ParseVideoControl(buf []byte) (*VideoControlInterface, error) {
	var vc *VideoControlInterface
	inVideoControl := false
	for i := 0; i < len(buf); {
		blockLen := int(buf[i])
		if blockLen < 2 || i+blockLen > len(buf) {
			return nil, ErrInvalidDescriptor
		}
		block := buf[i : i+blockLen]
		switch DescriptorType(block[1]) {
		case DescriptorTypeInterface:
			if blockLen < 7 {
				return nil, ErrInvalidDescriptor
			}
			inVideoControl = ClassCode(block[5]) == ClassCodeVideo &&
				SubclassCode(block[6]) == SubclassCodeVideoControl &&
				block[3] == 0 // alternate setting 0
			if inVideoControl && vc == nil {
				vc = &VideoControlInterface{InterfaceNumber: block[2]}
			}
		default:
			if !inVideoControl || vc == nil {
				break
			}
			if ClassSpecificDescriptorType(block[1]) != ClassSpecificDescriptorTypeInterface {
				break
			}
			ci, err := UnmarshalControlInterface(block)
			if errors.Is(err, ErrUnsupportedDescriptor) {
				break
			}
			if err != nil {
				return nil, err
			}
			switch d := ci.(type) {
			case *HeaderDescriptor:
				vc.Header = d
			case *CameraTerminalDescriptor:
				if vc.CameraTerminal == nil {
					vc.CameraTerminal = d
				}
			}
			vc.Units = append(vc.Units, ci)
		}
		i += blockLen
	}
	if vc == nil {
		return nil, errors.New("video control interface not found")
	}
	return vc, nil
}
