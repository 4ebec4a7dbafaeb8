package exitcodes

// Exit codes for dupesweep
// These codes form the contract with shell scripts and operators
const (
	Success         = 0 // Successful execution
	InvalidUsage    = 2 // Missing root argument or invalid configuration
	SafetyViolation = 3 // Safety validator blocked a deletion
	RuntimeError    = 4 // Runtime error during execution
)
