package visca2uvc

import (
	"fmt"
	"io"

	"github.com/uvc-tools/visca2uvc/pkg/descriptors"
)

// PrintDiagnostics dumps the device identity and the parsed video control
// topology. Best effort: it has no failure mode observable to the caller.
func (h *DeviceHandle) PrintDiagnostics(w io.Writer) {
	h.h.Summary(w)
	if h.header != nil {
		fmt.Fprintf(w, "UVC version: %s\n", h.header.UVCVersionString())
	}
	fmt.Fprintf(w, "Video control interface: %d\n", h.ifnum)
	for _, unit := range h.units {
		switch d := unit.(type) {
		case *descriptors.HeaderDescriptor:
			// already printed above
		case *descriptors.CameraTerminalDescriptor:
			fmt.Fprintf(w, "  Camera terminal %d: focal length %d..%d (ocular %d)\n",
				d.TerminalID, d.ObjectiveFocalLengthMin, d.ObjectiveFocalLengthMax, d.OcularFocalLength)
			fmt.Fprintf(w, "    zoom absolute: %s\n", supportedString(d.SupportsControl(&descriptors.ZoomAbsoluteControl{})))
			fmt.Fprintf(w, "    zoom relative: %s\n", supportedString(d.SupportsControl(&descriptors.ZoomRelativeControl{})))
		case *descriptors.InputTerminalDescriptor:
			fmt.Fprintf(w, "  Input terminal %d (type 0x%04x)\n", d.TerminalID, uint16(d.TerminalType))
		case *descriptors.OutputTerminalDescriptor:
			fmt.Fprintf(w, "  Output terminal %d (source %d)\n", d.TerminalID, d.SourceID)
		case *descriptors.SelectorUnitDescriptor:
			fmt.Fprintf(w, "  Selector unit %d (%d inputs)\n", d.UnitID, len(d.SourceIDs))
		case *descriptors.ProcessingUnitDescriptor:
			fmt.Fprintf(w, "  Processing unit %d (source %d)\n", d.UnitID, d.SourceID)
		case *descriptors.ExtensionUnitDescriptor:
			fmt.Fprintf(w, "  Extension unit %d (%d controls, GUID %x)\n", d.UnitID, d.NumControls, d.GUIDExtensionCode)
		}
	}
}

func supportedString(ok bool) string {
	if ok {
		return "supported"
	}
	return "not supported"
}
