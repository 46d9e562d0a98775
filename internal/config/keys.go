package config

// Section names.
const (
	SectionHeartbeat = "heartbeat"
	SectionSup       = "sup"
)

// Key names, matched against an indicator's canonical (uppercased)
// name. These mirror the key-name constants of the original
// implementation's config/key module, with TargetID and
// HeartbeatTimeout added for parity since the original only reaches
// for those two as inline literals rather than named constants.
const (
	KeyCommand           = "COMMAND"
	KeyWorkingDirectory  = "WORKING-DIRECTORY"
	KeyTargetEndpoint    = "TARGET-ENDPOINT"
	KeyTargetID          = "TARGET-ID"
	KeyHeartbeatInterval = "HEARTBEAT-INTERVAL"
	KeyHeartbeatTimeout  = "HEARTBEAT-TIMEOUT"
	KeyRetryInterval     = "RETRY-INTERVAL"
	KeyMaxRetries        = "MAX-RETRIES"
	KeyEndpoint          = "ENDPOINT"
	KeyCommsTimeout      = "COMMS-TIMEOUT"
)
