package httpx

// Notifier receives the user-facing messages the pipeline decides to
// surface. Classification is pure (errx.Classify); delivery is this
// pluggable sink, so the pipeline is testable without a UI.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(string)

func (f NotifierFunc) Notify(message string) {
	f(message)
}
