package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidComparator    ErrorCode = 102
	ErrCodeInvalidOperator      ErrorCode = 103
	ErrCodeInvalidIndicator     ErrorCode = 104
	ErrCodeInvalidPeriod        ErrorCode = 105
	ErrCodeInvalidCondition     ErrorCode = 106
	ErrCodeInsufficientData     ErrorCode = 107

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound    ErrorCode = 300
	ErrCodeIndicatorCalculation ErrorCode = 301

	// Strategy errors (400-499)
	ErrCodeStrategyNotLoaded   ErrorCode = 400
	ErrCodeStrategyConfigError ErrorCode = 401
	ErrCodeVersionMismatch     ErrorCode = 402

	// Backtest errors (500-599)
	ErrCodeBacktestStateNil     ErrorCode = 500
	ErrCodeBacktestInitFailed   ErrorCode = 501
	ErrCodeBacktestConfigError  ErrorCode = 502
	ErrCodeBacktestNoStrategies ErrorCode = 503
	ErrCodeBacktestNoDataPath   ErrorCode = 504
	ErrCodeBacktestNoResultsDir ErrorCode = 505
	ErrCodeBacktestNoDatasource ErrorCode = 506
)
