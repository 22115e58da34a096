// Package reconcile turns a caller-requested proptype.RuntimeProperties
// into opened, configured devices: it resolves device identifiers against a
// device.Manager (applying the simulated-camera/trash-sink defaults),
// normalizes storage URIs, applies camera and storage properties in order,
// plumbs the camera's effective image shape into the storage sink's
// reservation call, and reports back what the devices actually chose.
package reconcile
