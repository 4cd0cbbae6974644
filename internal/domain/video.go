package domain

// VideoMode selects how a video generation job is driven.
type VideoMode string

const (
	VideoModeText  VideoMode = "text"
	VideoModeImage VideoMode = "image"
)

// VideoJobState tracks the local lifecycle of a submitted job. There is no
// cancelled state: once submitted, the remote side cannot be aborted; the
// caller can only stop polling.
type VideoJobState string

const (
	VideoJobSubmitted VideoJobState = "submitted"
	VideoJobPolling   VideoJobState = "polling"
	VideoJobCompleted VideoJobState = "completed"
	VideoJobFailed    VideoJobState = "failed"
)

// InlineImage is a reference image attached to an image-mode video request.
type InlineImage struct {
	MIME string
	Data []byte
}

// VideoRequest is one video generation submission.
type VideoRequest struct {
	Mode   VideoMode
	Prompt string
	Image  *InlineImage
}

// MediaBlob is a materialized media payload ready for playback or download.
type MediaBlob struct {
	MIME string
	Data []byte
}
