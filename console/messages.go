package console

// Message to clear a temporary status message after a timeout.
type clearTempStatusMsg struct{}
