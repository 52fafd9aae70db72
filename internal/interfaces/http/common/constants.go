package common

const (
	// MaxPollRequestBody limits JSON request bodies for poll creation.
	MaxPollRequestBody = 1 << 16
	// TimestampLayout renders timestamps the way JavaScript's Date.toJSON does.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)
