package cache

// Entry is a memoized stage output for one input text
type Entry struct {
	Text string
	Rule string
}

// Cache memoizes stage rewrites
type Cache interface {
	Get(key string) (Entry, bool)
	Set(key string, entry Entry)
	Len() int
	Clear()
}

// Key derives a cache key from a stage name and its input text. Stage names
// must not contain ':'; the text is used as is.
func Key(stage, text string) string {
	return "theyify:v1:" + stage + ":" + text
}
