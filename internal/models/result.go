package models

// ServiceResult is the outcome of a workspace operation. A call can succeed
// at the transport level and still report Success=false.
type ServiceResult struct {
	Success  bool   `json:"success"`
	ErrorMsg string `json:"error_msg,omitempty"`
	Details  string `json:"details,omitempty"`
}

// Server property names.
const (
	PropertyExternalStrategyProviderURL = "EXTERNAL_STRATEGY_PROVIDER_URL"
)
