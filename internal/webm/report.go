package webm

// Field is one rendered name/value pair.
type Field struct {
	Name  string
	Value string
}

// Report pairs a parse result with the input it came from.
type Report struct {
	Ref  string
	Info FileInfo
}
