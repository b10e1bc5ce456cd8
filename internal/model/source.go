package model

type Source string

const (
	SourceOrigin  Source = "origin"
	SourceHosted  Source = "hosted"
	SourceUnknown Source = "unknown"
)

func (s Source) String() string { return string(s) }

func (s Source) Valid() bool {
	return s == SourceOrigin || s == SourceHosted || s == SourceUnknown
}
