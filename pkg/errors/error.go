package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"

	// OrderInvalidArgument represents a non-positive price or quantity on an
	// order operation. Raised before any state mutation.
	OrderInvalidArgument ErrorCode = "order_invalid_argument"
	// OrderUnknown represents an operation against an order id that was never issued.
	OrderUnknown ErrorCode = "order_unknown"
	// OrderNotActive represents an operation against an order that was already
	// executed or cancelled.
	OrderNotActive ErrorCode = "order_not_active"

	// CommandParseError represents an order command that could not be decoded.
	CommandParseError ErrorCode = "command_parse_error"
	// CommandUnknownAction represents an order command with an unsupported action.
	CommandUnknownAction ErrorCode = "command_unknown_action"

	// KafkaReadError represents an error while reading from the order topic.
	KafkaReadError ErrorCode = "kafka_read_error"
	// KafkaPublishError represents an error while publishing to the trade topic.
	KafkaPublishError ErrorCode = "kafka_publish_error"

	// RedisConfigError represents an invalid or nil Redis configuration.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisCommandError represents an error executing a Redis command.
	RedisCommandError ErrorCode = "redis_command_error"

	// SnapshotCacheError represents an error while caching a book snapshot.
	SnapshotCacheError ErrorCode = "snapshot_cache_error"
)
