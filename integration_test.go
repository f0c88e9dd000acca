//go:build integration

package visca2uvc

import (
	"os"
	"testing"

	"github.com/uvc-tools/visca2uvc/pkg/requests"
)

// Needs a UVC camera with an optical zoom attached. Run with
//
//	go test -tags integration .
func TestRealCameraZoom(t *testing.T) {
	ctx, err := NewContext(DefaultBackend())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer ctx.Close()

	dev, err := ctx.FindDevice(0, 0, "")
	if err != nil {
		t.Skipf("no camera found: %v", err)
	}
	defer dev.Close()

	handle, err := dev.Open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer handle.Close()

	handle.PrintDiagnostics(os.Stdout)

	min, err := handle.GetZoomAbsolute(requests.RequestCodeGetMin)
	if err != nil {
		t.Fatalf("GET_MIN: %v", err)
	}
	max, err := handle.GetZoomAbsolute(requests.RequestCodeGetMax)
	if err != nil {
		t.Fatalf("GET_MAX: %v", err)
	}
	cur, err := handle.GetZoomAbsolute(requests.RequestCodeGetCur)
	if err != nil {
		t.Fatalf("GET_CUR: %v", err)
	}
	t.Logf("zoom absolute: min=%d max=%d cur=%d", min, max, cur)
	if min > max || cur < min || cur > max {
		t.Errorf("inconsistent range: min=%d max=%d cur=%d", min, max, cur)
	}

	// setting the current value back is a no-op move
	if err := handle.SetZoomAbsolute(cur); err != nil {
		t.Fatalf("SET_CUR: %v", err)
	}
	again, err := handle.GetZoomAbsolute(requests.RequestCodeGetCur)
	if err != nil {
		t.Fatalf("GET_CUR after set: %v", err)
	}
	if again != cur {
		t.Errorf("zoom moved from %d to %d after setting the current value", cur, again)
	}
}
