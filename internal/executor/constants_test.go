package executor

// Test command constants
const (
	echoCommand = "echo"
	shCommand   = "sh"
	shArgC      = "-c"
)
