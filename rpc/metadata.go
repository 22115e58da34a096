package rpc

import (
	"github.com/scopeacq/acquire/proptype"
	"github.com/scopeacq/acquire/reconcile"
)

// streamMetadata is the JSON rendering of one reconcile.PropertyMetadata
// entry, returned by GetConfigurationMetadata.
type streamMetadata struct {
	CameraID  string             `json:"camera_id"`
	StorageID string             `json:"storage_id"`
	Camera    cameraMetadataDTO  `json:"camera"`
	Storage   storageMetadataDTO `json:"storage"`
	Shape     shapeDTO           `json:"shape"`
}

type cameraMetadataDTO struct {
	WidthRange              [2]int   `json:"width_range"`
	HeightRange             [2]int   `json:"height_range"`
	SupportedTriggerSources []string `json:"supported_trigger_sources"`
}

type storageMetadataDTO struct {
	SupportsChunking   bool `json:"supports_chunking"`
	SupportsSharding   bool `json:"supports_sharding"`
	SupportsMultiscale bool `json:"supports_multiscale"`
	SupportsS3         bool `json:"supports_s3"`
}

type shapeDTO struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Planes   int    `json:"planes"`
	Channels int    `json:"channels"`
	Type     string `json:"type"`
}

type metadataResponse struct {
	Streams []streamMetadata `json:"streams"`
}

func toMetadataResponse(entries []reconcile.PropertyMetadata) metadataResponse {
	out := metadataResponse{Streams: make([]streamMetadata, len(entries))}
	for i, m := range entries {
		sources := make([]string, len(m.CameraMeta.SupportedTriggerSources))
		for j, s := range m.CameraMeta.SupportedTriggerSources {
			sources[j] = triggerSourceName(s)
		}
		out.Streams[i] = streamMetadata{
			CameraID:  m.CameraID.QualifiedName(),
			StorageID: m.StorageID.QualifiedName(),
			Camera: cameraMetadataDTO{
				WidthRange:              m.CameraMeta.WidthRange,
				HeightRange:             m.CameraMeta.HeightRange,
				SupportedTriggerSources: sources,
			},
			Storage: storageMetadataDTO{
				SupportsChunking:   m.StorageMeta.SupportsChunking,
				SupportsSharding:   m.StorageMeta.SupportsSharding,
				SupportsMultiscale: m.StorageMeta.SupportsMultiscale,
				SupportsS3:         m.StorageMeta.SupportsS3,
			},
			Shape: shapeDTO{
				Width:    m.Shape.Width,
				Height:   m.Shape.Height,
				Planes:   m.Shape.Planes,
				Channels: m.Shape.Channels,
				Type:     m.Shape.Type.String(),
			},
		}
	}
	return out
}

func triggerSourceName(s proptype.TriggerSource) string {
	switch s {
	case proptype.TriggerSourceLine0:
		return "line0"
	case proptype.TriggerSourceLine1:
		return "line1"
	case proptype.TriggerSourceLine2:
		return "line2"
	case proptype.TriggerSourceLine3:
		return "line3"
	default:
		return "software"
	}
}
