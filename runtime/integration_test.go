package runtime

// End-to-end scenarios against the real built-in drivers, following
// spec.md §8's "Concrete end-to-end scenarios" numbering referenced from
// SPEC_FULL.md §8. stream/pipeline_test.go covers scenarios 2 and 3
// (timing and aligned frame pointers) against a single pipeline directly;
// this file drives the same drivers through the Runtime controller.

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"

	_ "github.com/scopeacq/acquire/drivers/nullstore"
	_ "github.com/scopeacq/acquire/drivers/rawstore"
	_ "github.com/scopeacq/acquire/drivers/simcam"
	_ "github.com/scopeacq/acquire/drivers/tiffjsonstore"
	_ "github.com/scopeacq/acquire/drivers/tiffstore"
)

func streamProps(cameraName, storageName, uri string, width, height int, maxFrames uint64) proptype.RuntimeProperties {
	props, _ := proptype.NewRuntimeProperties(1)
	p := proptype.VideoStreamProperties{
		CameraID:      proptype.Identifier{Kind: proptype.KindCamera, Name: cameraName},
		Camera:        proptype.CameraProperties{Width: width, Height: height, SampleType: proptype.U8},
		StorageID:     proptype.Identifier{Kind: proptype.KindStorage, Name: storageName},
		MaxFrameCount: maxFrames,
	}
	if uri != "" {
		p.Storage.URI = proptype.NewOwnedString(uri)
	}
	props.Streams[0] = p
	return props
}

// Scenario 1: identifier reported in metadata, across every camera and
// storage pattern the built-in drivers expose.
func TestIntegrationIdentifierReportedInMetadata(t *testing.T) {
	cameras := []string{"simulated: uniform random", "simulated: radial sin", "simulated: empty"}
	storages := []string{"raw", "tiff", "trash", "tiff-json"}

	for _, cam := range cameras {
		for _, st := range storages {
			cam, st := cam, st
			t.Run(cam+"/"+st, func(t *testing.T) {
				rt := New(testRuntimeLogger(t))
				if err := rt.Init(1); err != nil {
					t.Fatalf("Init: %v", err)
				}
				defer rt.Shutdown()

				uri := ""
				if st != "trash" {
					uri = filepath.Join(t.TempDir(), "out")
				}
				props := streamProps(cam, st, uri, 8, 8, 0)
				if err := rt.Configure(&props); err != nil {
					t.Fatalf("Configure(%s, %s): %v", cam, st, err)
				}

				meta, err := rt.GetConfigurationMetadata()
				if err != nil {
					t.Fatalf("GetConfigurationMetadata: %v", err)
				}
				if meta[0].CameraID.Name != cam {
					t.Fatalf("camera id = %q, want %q", meta[0].CameraID.Name, cam)
				}
				if meta[0].StorageID.Name != st {
					t.Fatalf("storage id = %q, want %q", meta[0].StorageID.Name, st)
				}
			})
		}
	}
}

// Scenario 6: start/stop twice in sequence, with no monitor ever mapped,
// must deliver the full frame count both times and Shutdown must succeed.
// This is the scenario that exercises Pipeline.Start resetting its frame_id
// and committed counters on every Start.
func TestIntegrationRepeatStartCommitsFullCountEachRun(t *testing.T) {
	rt := New(testRuntimeLogger(t))
	if err := rt.Init(1); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer rt.Shutdown()

	const frames = 500
	props := streamProps("simulated: empty", "trash", "", 64, 48, frames)
	if err := rt.Configure(&props); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	for run := 1; run <= 2; run++ {
		if err := rt.Start(); err != nil {
			t.Fatalf("run %d: Start: %v", run, err)
		}

		deadline := time.After(5 * time.Second)
		for {
			rt.mu.Lock()
			committed := rt.slots[0].pipeline.FramesCommitted()
			rt.mu.Unlock()
			if committed >= frames {
				break
			}
			select {
			case <-deadline:
				t.Fatalf("run %d: only committed %d/%d frames before deadline", run, committed, frames)
			case <-time.After(time.Millisecond):
			}
		}

		if err := rt.Stop(); err != nil {
			t.Fatalf("run %d: Stop: %v", run, err)
		}

		rt.mu.Lock()
		committed := rt.slots[0].pipeline.FramesCommitted()
		rt.mu.Unlock()
		if committed != frames {
			t.Fatalf("run %d: committed %d frames, want exactly %d", run, committed, frames)
		}
	}

	if err := rt.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

// Scenario 4 (subset): switching only the storage identifier across
// successive Configure calls must not tear down and reopen the unchanged
// camera device.
func TestIntegrationSwitchStorageAcrossRunsKeepsCamera(t *testing.T) {
	rt := New(testRuntimeLogger(t))
	if err := rt.Init(1); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer rt.Shutdown()

	dir := t.TempDir()
	sequence := []string{"trash", "tiff", "trash", "raw", "trash", "tiff", "raw", "trash", "raw", "tiff"}

	var lastCamera interface{}
	for i, storageName := range sequence {
		uri := ""
		if storageName != "trash" {
			uri = filepath.Join(dir, "run")
		}
		props := streamProps("simulated: uniform random", storageName, uri, 64, 48, 32)
		if err := rt.Configure(&props); err != nil {
			t.Fatalf("step %d: Configure(%s): %v", i, storageName, err)
		}

		rt.mu.Lock()
		camera := rt.slots[0].resolved.Camera.Camera
		reused := rt.slots[0].resolved.CameraReused
		rt.mu.Unlock()

		if i > 0 && !reused {
			t.Fatalf("step %d: camera identifier did not change, expected it to be reused", i)
		}
		if i > 0 && camera != lastCamera {
			t.Fatalf("step %d: camera instance changed even though its identifier did not", i)
		}
		lastCamera = camera

		if err := rt.Start(); err != nil {
			t.Fatalf("step %d: Start: %v", i, err)
		}
		if err := waitForFrames(rt, 32, 5*time.Second); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if err := rt.Stop(); err != nil {
			t.Fatalf("step %d: Stop: %v", i, err)
		}
	}
}

// Scenario 5: configuring a file-backed sink with a bare path and with an
// equivalent file:// URI must both round-trip through GetConfiguration with
// the prefix stripped.
func TestIntegrationFileURIRoundTrip(t *testing.T) {
	rt := New(testRuntimeLogger(t))
	if err := rt.Init(1); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer rt.Shutdown()

	path := filepath.Join(t.TempDir(), "capture.raw")
	cases := []string{path, "file://" + path}

	for _, uri := range cases {
		props := streamProps("simulated: uniform random", "raw", uri, 16, 16, 0)
		if err := rt.Configure(&props); err != nil {
			t.Fatalf("Configure(%s): %v", uri, err)
		}
		applied, err := rt.GetConfiguration()
		if err != nil {
			t.Fatalf("GetConfiguration: %v", err)
		}
		if got := applied.Streams[0].Storage.URI.String(); got != path {
			t.Fatalf("URI = %q, want %q (file:// stripped)", got, path)
		}
	}
}

// An unresolvable camera pattern surfaces device.ErrDeviceNotFound through
// Configure, and leaves the runtime's prior configuration untouched.
func TestIntegrationConfigureRejectsUnknownCamera(t *testing.T) {
	rt := New(testRuntimeLogger(t))
	if err := rt.Init(1); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer rt.Shutdown()

	props := streamProps("nonexistent: pattern", "trash", "", 8, 8, 0)
	err := rt.Configure(&props)
	if !errors.Is(err, device.ErrDeviceNotFound) {
		t.Fatalf("got %v, want device.ErrDeviceNotFound", err)
	}
}

func waitForFrames(rt *Runtime, want uint64, timeout time.Duration) error {
	deadline := time.After(timeout)
	for {
		rt.mu.Lock()
		committed := rt.slots[0].pipeline.FramesCommitted()
		rt.mu.Unlock()
		if committed >= want {
			return nil
		}
		select {
		case <-deadline:
			return errTimeout
		case <-time.After(time.Millisecond):
		}
	}
}

var errTimeout = errors.New("runtime: timed out waiting for frames")
