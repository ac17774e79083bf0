package cli

// consoleNotifier prints flow notices on their own line.
type consoleNotifier struct{}

func (consoleNotifier) Success(msg string) {
	printlnFn(msg)
}

func (consoleNotifier) Error(msg string) {
	printlnFn("Error: " + msg)
}
