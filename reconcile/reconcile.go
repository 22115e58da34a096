package reconcile

import (
	"errors"
	"fmt"

	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
)

// DefaultCameraPattern is the camera selected when a stream names storage
// but leaves the camera identifier unspecified.
const DefaultCameraPattern = "simulated: uniform random"

// DefaultStoragePattern is the sink selected when a stream names a camera
// but leaves the storage identifier unspecified.
const DefaultStoragePattern = "trash"

// ErrStreamInactive is returned by Configure when both the camera and
// storage identifiers are None; the stream has nothing to reconcile and the
// caller should simply skip it (it stays in whatever devices it last held,
// typically none).
var ErrStreamInactive = errors.New("reconcile: stream has no camera or storage identifier")

// PropertyMetadata reports what a reconciled stream's devices actually
// support and chose, for the caller-facing metadata surface.
type PropertyMetadata struct {
	CameraID    proptype.Identifier
	StorageID   proptype.Identifier
	CameraMeta  device.CameraMetadata
	StorageMeta device.StorageMetadata
	Shape       proptype.ImageShape
}

// Resolved is one stream's opened, configured device pair plus the
// information needed to size its ring and build its pipeline.
type Resolved struct {
	Camera   device.Instance
	Storage  device.Instance
	Applied  proptype.VideoStreamProperties
	Metadata PropertyMetadata

	// CameraReused/StorageReused report whether Camera/Storage is the same
	// already-open instance passed in as the previous Resolved, rather than
	// one freshly opened by this Configure call. A caller tearing down the
	// previous Resolved after a successful reconfiguration must not close a
	// reused instance: reconfiguring one device identifier must not destroy
	// the other, unchanged one.
	CameraReused  bool
	StorageReused bool
}

// Release closes both of r's device instances through mgr, aggregating any
// errors. Safe to call on a partially populated Resolved (zero Instances are
// skipped).
func (r Resolved) release(mgr *device.Manager) error {
	var errs []error
	if r.Camera.Camera != nil {
		if err := mgr.Release(r.Camera); err != nil {
			errs = append(errs, fmt.Errorf("release camera: %w", err))
		}
	}
	if r.Storage.Storage != nil {
		if err := mgr.Release(r.Storage); err != nil {
			errs = append(errs, fmt.Errorf("release storage: %w", err))
		}
	}
	return errors.Join(errs...)
}

// releaseFresh closes whichever of r's device instances this Configure call
// opened itself, leaving a reused instance (CameraReused/StorageReused)
// untouched: it is still the caller's previous, currently-serving device and
// this call never took ownership of it.
func (r Resolved) releaseFresh(mgr *device.Manager) error {
	var errs []error
	if r.Camera.Camera != nil && !r.CameraReused {
		if err := mgr.Release(r.Camera); err != nil {
			errs = append(errs, fmt.Errorf("release camera: %w", err))
		}
	}
	if r.Storage.Storage != nil && !r.StorageReused {
		if err := mgr.Release(r.Storage); err != nil {
			errs = append(errs, fmt.Errorf("release storage: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Configure resolves, opens, and applies one stream's requested properties.
// previous is the stream's currently resolved devices (the zero Resolved if
// it has none); when a side's requested pattern matches the name of the
// device previous holds for that side, its already-open device.Instance is kept and reused rather than closed
// and reopened, so that reconfiguring only the storage identifier for a
// stream leaves its unchanged camera running, and vice versa. On any
// failure Configure releases whatever it had freshly opened before
// returning (never a reused instance), leaving mgr exactly as it found it.
func Configure(mgr *device.Manager, requested proptype.VideoStreamProperties, previous Resolved) (Resolved, error) {
	cameraID, storageID, active := resolveIdentifiers(requested.CameraID, requested.StorageID)
	if !active {
		return Resolved{}, ErrStreamInactive
	}

	var out Resolved

	if !cameraID.IsNone() {
		if reusable(previous.Camera.Camera != nil, previous.Metadata.CameraID, cameraID) {
			out.Camera = previous.Camera
			out.Metadata.CameraID = previous.Metadata.CameraID
			out.CameraReused = true
		} else {
			id, err := mgr.Select(proptype.KindCamera, cameraID.Name)
			if err != nil {
				return Resolved{}, fmt.Errorf("reconcile: select camera: %w", err)
			}
			inst, err := mgr.Open(id)
			if err != nil {
				return Resolved{}, fmt.Errorf("reconcile: open camera: %w", err)
			}
			out.Camera = inst
			out.Metadata.CameraID = id
		}
	}

	if !storageID.IsNone() {
		if reusable(previous.Storage.Storage != nil, previous.Metadata.StorageID, storageID) {
			out.Storage = previous.Storage
			out.Metadata.StorageID = previous.Metadata.StorageID
			out.StorageReused = true
		} else {
			id, err := mgr.Select(proptype.KindStorage, storageID.Name)
			if err != nil {
				_ = out.releaseFresh(mgr)
				return Resolved{}, fmt.Errorf("reconcile: select storage: %w", err)
			}
			inst, err := mgr.Open(id)
			if err != nil {
				_ = out.releaseFresh(mgr)
				return Resolved{}, fmt.Errorf("reconcile: open storage: %w", err)
			}
			out.Storage = inst
			out.Metadata.StorageID = id
		}
	}

	applied := requested.Clone()

	if out.Camera.Camera != nil {
		state, err := out.Camera.Camera.Set(requested.Camera)
		if err != nil {
			_ = out.releaseFresh(mgr)
			return Resolved{}, fmt.Errorf("reconcile: set camera: %w", err)
		}
		if state == device.AwaitingConfiguration {
			_ = out.releaseFresh(mgr)
			return Resolved{}, fmt.Errorf("reconcile: camera %s: %w", out.Metadata.CameraID.QualifiedName(), device.ErrConfigRejected)
		}
		effective, err := out.Camera.Camera.Get()
		if err != nil {
			_ = out.releaseFresh(mgr)
			return Resolved{}, fmt.Errorf("reconcile: get camera properties: %w", err)
		}
		applied.Camera = effective

		meta, err := out.Camera.Camera.GetMeta()
		if err != nil {
			_ = out.releaseFresh(mgr)
			return Resolved{}, fmt.Errorf("reconcile: get camera metadata: %w", err)
		}
		out.Metadata.CameraMeta = meta

		shape, err := out.Camera.Camera.GetShape()
		if err != nil {
			_ = out.releaseFresh(mgr)
			return Resolved{}, fmt.Errorf("reconcile: get camera shape: %w", err)
		}
		out.Metadata.Shape = shape
	}

	if out.Storage.Storage != nil {
		storageProps := requested.Storage
		stripped, _ := proptype.NormalizeURI(storageProps.URI.String())
		// A fresh String: storageProps.URI shares its buffer with the
		// caller's requested record, which must not be written to.
		storageProps.URI = proptype.NewOwnedString(stripped)

		state, err := out.Storage.Storage.Set(storageProps)
		if err != nil {
			_ = out.releaseFresh(mgr)
			return Resolved{}, fmt.Errorf("reconcile: set storage: %w", err)
		}
		if state == device.AwaitingConfiguration {
			_ = out.releaseFresh(mgr)
			return Resolved{}, fmt.Errorf("reconcile: storage %s: %w", out.Metadata.StorageID.QualifiedName(), device.ErrConfigRejected)
		}

		if out.Camera.Camera != nil {
			if err := out.Storage.Storage.ReserveImageShape(out.Metadata.Shape); err != nil {
				_ = out.releaseFresh(mgr)
				return Resolved{}, fmt.Errorf("reconcile: reserve image shape: %w", err)
			}
		}

		effective, err := out.Storage.Storage.Get()
		if err != nil {
			_ = out.releaseFresh(mgr)
			return Resolved{}, fmt.Errorf("reconcile: get storage properties: %w", err)
		}
		proptype.CopyStorageProperties(&applied.Storage, effective)

		meta, err := out.Storage.Storage.GetMeta()
		if err != nil {
			_ = out.releaseFresh(mgr)
			return Resolved{}, fmt.Errorf("reconcile: get storage metadata: %w", err)
		}
		out.Metadata.StorageMeta = meta
	}

	applied.CameraID = out.Metadata.CameraID
	applied.StorageID = out.Metadata.StorageID
	out.Applied = applied

	return out, nil
}

// Release tears down a previously Configure'd stream's devices.
func Release(mgr *device.Manager, r Resolved) error {
	return r.release(mgr)
}

// reusable reports whether requested — a possibly-regex selection pattern,
// already defaulted by resolveIdentifiers — would resolve to the same
// device as resolved, the concrete identifier a previous Configure call
// already has open. It matches the pattern directly against resolved's name
// rather than calling Manager.Select, which would report that device busy
// (it is still open) instead of confirming the match.
func reusable(hasPrevious bool, resolved, requested proptype.Identifier) bool {
	if !hasPrevious || resolved.Kind != requested.Kind {
		return false
	}
	ok, err := device.MatchesPattern(requested.Name, resolved.Name)
	return err == nil && ok
}

// resolveIdentifiers applies the device-selection defaults from
// SPEC_FULL.md §4.6 step 1: a None camera paired with a named storage
// defaults to the simulated camera; a None storage paired with a named
// camera defaults to trash; both None leaves the stream inactive.
func resolveIdentifiers(camera, storage proptype.Identifier) (resolvedCamera, resolvedStorage proptype.Identifier, active bool) {
	cameraNone := camera.IsNone()
	storageNone := storage.IsNone()

	if cameraNone && storageNone {
		return camera, storage, false
	}
	if cameraNone {
		camera = proptype.Identifier{Kind: proptype.KindCamera, Name: DefaultCameraPattern}
	}
	if storageNone {
		storage = proptype.Identifier{Kind: proptype.KindStorage, Name: DefaultStoragePattern}
	}
	return camera, storage, true
}
