package solver

// Results holds the distinct decodings found so far, in the order they
// were found.
type Results struct {
	list []string
	seen map[string]bool
}

func NewResults() *Results {
	return &Results{seen: make(map[string]bool)}
}

// Add returns true if text was new and has been added.
func (r *Results) Add(text string) bool {
	if r.seen[text] {
		return false
	}
	r.seen[text] = true
	r.list = append(r.list, text)
	return true
}

func (r *Results) List() []string {
	return append([]string(nil), r.list...)
}

func (r *Results) Len() int {
	return len(r.list)
}
