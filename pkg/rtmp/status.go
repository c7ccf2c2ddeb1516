package rtmp

// StatusCode - NetStream onStatus code
type StatusCode byte

const (
	StatusUnknown StatusCode = iota
	StatusBufferEmpty
	StatusBufferFull
	StatusBufferFlush
	StatusFailed
	StatusPlayStart
	StatusPlayStop
	StatusPlayReset
	StatusPlayFailed
	StatusPlayStreamNotFound
	StatusPlayComplete
	StatusPlaySwitch
	StatusPlayTransition
	StatusPlayInsufficientBW
	StatusPlayPublishNotify
	StatusPlayUnpublishNotify
	StatusPlayFileStructureInvalid
	StatusPlayNoSupportedTrackFound
	StatusPauseNotify
	StatusUnpauseNotify
	StatusSeekNotify
	StatusSeekFailed
	StatusSeekInvalidTime
	StatusPublishStart
	StatusPublishBadName
	StatusPublishIdle
	StatusUnpublishSuccess
	StatusRecordStart
	StatusRecordStop
	StatusRecordFailed
	StatusRecordNoAccess
	StatusRecordAlreadyExists
	StatusStepNotify
	StatusVideoDimensionChange
	StatusDataStart
	StatusMulticastStreamReset
)

var statusCodes = map[string]StatusCode{
	"NetStream.Buffer.Empty":               StatusBufferEmpty,
	"NetStream.Buffer.Full":                StatusBufferFull,
	"NetStream.Buffer.Flush":               StatusBufferFlush,
	"NetStream.Failed":                     StatusFailed,
	"NetStream.Play.Start":                 StatusPlayStart,
	"NetStream.Play.Stop":                  StatusPlayStop,
	"NetStream.Play.Reset":                 StatusPlayReset,
	"NetStream.Play.Failed":                StatusPlayFailed,
	"NetStream.Play.StreamNotFound":        StatusPlayStreamNotFound,
	"NetStream.Play.Complete":              StatusPlayComplete,
	"NetStream.Play.Switch":                StatusPlaySwitch,
	"NetStream.Play.Transition":            StatusPlayTransition,
	"NetStream.Play.InsufficientBW":        StatusPlayInsufficientBW,
	"NetStream.Play.PublishNotify":         StatusPlayPublishNotify,
	"NetStream.Play.UnpublishNotify":       StatusPlayUnpublishNotify,
	"NetStream.Play.FileStructureInvalid":  StatusPlayFileStructureInvalid,
	"NetStream.Play.NoSupportedTrackFound": StatusPlayNoSupportedTrackFound,
	"NetStream.Pause.Notify":               StatusPauseNotify,
	"NetStream.Unpause.Notify":             StatusUnpauseNotify,
	"NetStream.Seek.Notify":                StatusSeekNotify,
	"NetStream.Seek.Failed":                StatusSeekFailed,
	"NetStream.Seek.InvalidTime":           StatusSeekInvalidTime,
	"NetStream.Publish.Start":              StatusPublishStart,
	"NetStream.Publish.BadName":            StatusPublishBadName,
	"NetStream.Publish.Idle":               StatusPublishIdle,
	"NetStream.Unpublish.Success":          StatusUnpublishSuccess,
	"NetStream.Record.Start":               StatusRecordStart,
	"NetStream.Record.Stop":                StatusRecordStop,
	"NetStream.Record.Failed":              StatusRecordFailed,
	"NetStream.Record.NoAccess":            StatusRecordNoAccess,
	"NetStream.Record.AlreadyExists":       StatusRecordAlreadyExists,
	"NetStream.Step.Notify":                StatusStepNotify,
	"NetStream.Video.DimensionChange":      StatusVideoDimensionChange,
	"NetStream.Data.Start":                 StatusDataStart,
	"NetStream.MulticastStream.Reset":      StatusMulticastStreamReset,
}

var statusNames = func() map[StatusCode]string {
	m := make(map[StatusCode]string, len(statusCodes))
	for s, code := range statusCodes {
		m[code] = s
	}
	return m
}()

// ParseStatusCode returns StatusUnknown for any string outside of NetStream codes
func ParseStatusCode(s string) StatusCode {
	return statusCodes[s]
}

func (c StatusCode) String() string {
	if s, ok := statusNames[c]; ok {
		return s
	}
	return "Unknown"
}
