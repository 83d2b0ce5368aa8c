package ports

// FileInput configures the hidden file input used by the networked open dialog.
type FileInput struct {
	Accept    string // comma separated ".ext" patterns
	Multiple  bool
	Directory bool
}

// FilePrompt is a file input that has been shown to the user.
type FilePrompt interface {
	// Selected delivers the names of the chosen files once, on the input's change event.
	Selected() <-chan []string

	// Focused is signalled when the window regains input focus after the prompt opened.
	Focused() <-chan struct{}

	// Close removes the input element and its listeners.
	Close()
}

// Window is the page surface available in the networked context.
type Window interface {
	// Open opens url in a browsing context named target with the given window features.
	Open(url, target, features string) error

	// Reload reloads the current page.
	Reload() error

	// PromptFiles synthesizes a hidden file input, triggers it and returns the live prompt.
	PromptFiles(input FileInput) (FilePrompt, error)
}
