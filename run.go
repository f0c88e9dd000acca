package visca2uvc

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/uvc-tools/visca2uvc/pkg/descriptors"
	"github.com/uvc-tools/visca2uvc/pkg/requests"
)

const usage = `Usage: visca2uvc [cmd] ...

  get_zoom_abs
  set_zoom_abs focal_length

  get_zoom_rel
  set_zoom_rel zoom_rel digital_zoom speed
`

// Options configures one Run invocation. Zero values mean: default backend,
// match any device, write to stdout/stderr.
type Options struct {
	Backend   Backend
	VendorID  uint16
	ProductID uint16
	Serial    string
	Stdout    io.Writer
	Stderr    io.Writer
}

// Run executes a single command. args[0] is the program name, args[1] the
// command token, the rest positional arguments. Argument validation happens
// before any device is touched; once validated, the session chain is built
// (context, find, open, diagnostics) and torn down in reverse order whether
// the command succeeds or fails. An unknown command is reported on stderr and
// is not an error.
func Run(args []string, opt Options) error {
	stdout, stderr := opt.Stdout, opt.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	if len(args) <= 1 {
		fmt.Fprint(stdout, usage)
		return nil
	}
	cmd, rest := args[1], args[2:]

	var (
		focalLength uint16
		zoomRel     descriptors.ZoomRelativeControl
	)
	switch cmd {
	case "set_zoom_abs":
		if len(rest) != 1 {
			return &UsageError{Msg: "set_zoom_abs needs 1 argument"}
		}
		v, err := parseUint(rest[0], 16)
		if err != nil {
			return err
		}
		focalLength = uint16(v)
	case "set_zoom_rel":
		if len(rest) != 3 {
			return &UsageError{Msg: "set_zoom_rel needs 3 arguments"}
		}
		zr, err := parseInt8(rest[0])
		if err != nil {
			return err
		}
		dz, err := parseUint(rest[1], 8)
		if err != nil {
			return err
		}
		speed, err := parseUint(rest[2], 8)
		if err != nil {
			return err
		}
		zoomRel = descriptors.ZoomRelativeControl{Zoom: zr, DigitalZoom: uint8(dz), Speed: uint8(speed)}
	}

	backend := opt.Backend
	if backend == nil {
		backend = DefaultBackend()
	}
	ctx, err := NewContext(backend)
	if err != nil {
		return err
	}
	defer ctx.Close()

	dev, err := ctx.FindDevice(opt.VendorID, opt.ProductID, opt.Serial)
	if err != nil {
		return err
	}
	defer dev.Close()

	handle, err := dev.Open()
	if err != nil {
		return err
	}
	defer handle.Close()

	handle.PrintDiagnostics(stdout)

	switch cmd {
	case "get_zoom_abs":
		for _, q := range rangeQueries {
			v, err := handle.GetZoomAbsolute(q.code)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s: %d\n", q.label, v)
		}
	case "set_zoom_abs":
		if err := handle.SetZoomAbsolute(focalLength); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "set: %d\n", focalLength)
		cur, err := handle.GetZoomAbsolute(requests.RequestCodeGetCur)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "cur: %d\n", cur)
	case "get_zoom_rel":
		for _, q := range rangeQueries {
			v, err := handle.GetZoomRelative(q.code)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s: %s\n", q.label, v)
		}
	case "set_zoom_rel":
		if err := handle.SetZoomRelative(zoomRel); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "set: %s\n", zoomRel)
		cur, err := handle.GetZoomRelative(requests.RequestCodeGetCur)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "cur: %s\n", cur)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
	}
	return nil
}

// rangeQueries is the fixed order every get command walks. A failure aborts
// the walk; the earlier lines stay printed.
var rangeQueries = []struct {
	label string
	code  requests.RequestCode
}{
	{"min", requests.RequestCodeGetMin},
	{"max", requests.RequestCodeGetMax},
	{"cur", requests.RequestCodeGetCur},
}

func parseUint(s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, &UsageError{Msg: fmt.Sprintf("cannot parse as uint%d: %s", bits, s)}
	}
	return v, nil
}

func parseInt8(s string) (int8, error) {
	v, err := strconv.ParseInt(s, 10, 8)
	if err != nil {
		return 0, &UsageError{Msg: fmt.Sprintf("cannot parse as int8: %s", s)}
	}
	return int8(v), nil
}
